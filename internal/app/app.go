package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/assistant"
	"github.com/drstein77/storefront/internal/auth"
	"github.com/drstein77/storefront/internal/cart"
	"github.com/drstein77/storefront/internal/config"
	"github.com/drstein77/storefront/internal/controllers"
	"github.com/drstein77/storefront/internal/fixtures"
	"github.com/drstein77/storefront/internal/logger"
	"github.com/drstein77/storefront/internal/middleware"
	"github.com/drstein77/storefront/internal/storage"
	"github.com/drstein77/storefront/internal/toast"
)

type Server struct {
	mx      sync.Mutex
	srv     *http.Server
	stopped bool

	ctx    context.Context
	option *config.Options
	Log    *logger.Logger
}

// NewServer creates a new Server instance with the provided context
func NewServer(ctx context.Context) *Server {
	// create and initialize a new option instance
	option := config.NewOptions()
	option.ParseFlags()

	// get a new logger
	nLogger, err := logger.NewLogger(option.LogLevel(), option.LogFile())
	if err != nil {
		log.Fatalln(err)
	}

	return &Server{ctx: ctx, option: option, Log: nLogger}
}

// Serve wires the shop and blocks until the server is shut down. It returns
// at once when Shutdown already ran.
func (server *Server) Serve() {
	handler, err := server.handler()
	if err != nil {
		server.Log.Error("cannot build storefront", zap.Error(err))
		log.Fatalln(err)
	}

	server.mx.Lock()
	if server.stopped {
		server.mx.Unlock()
		return
	}
	srv := &http.Server{
		Addr:              server.option.RunAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server.srv = srv
	server.mx.Unlock()

	server.Log.Info("storefront started", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		server.Log.Error("server stopped", zap.Error(err))
		log.Fatalln(err)
	}
}

// handler builds the stores and services, starts the background jobs and
// mounts everything on one router.
func (server *Server) handler() (http.Handler, error) {
	seed, err := fixtures.Load(time.Now())
	if err != nil {
		return nil, err
	}

	store, err := storage.NewMemoryStorage(server.ctx, seed, server.Log)
	if err != nil {
		return nil, err
	}

	secret := server.option.SessionSecret()
	if secret == "" {
		secret = uuid.NewString()
		server.Log.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}
	authn, err := auth.NewService(secret, server.option.AdminUser(), server.option.AdminPassword(), server.option.SessionTTL())
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	carts := cart.NewSessions()
	toasts := toast.NewCenter()
	dialer := assistant.GeminiDialer(assistant.GeminiConfig{Model: server.option.GeminiModel()})
	chat := assistant.New(store, dialer, server.option.GeminiAPIKey(), server.Log)

	sched, err := newScheduler(server.Log, toasts, server.option.SessionTTL(), carts, chat)
	if err != nil {
		return nil, err
	}
	sched.Start()
	go func() {
		<-server.ctx.Done()
		<-sched.Stop().Done()
	}()

	basecontr := controllers.NewBaseController(store, authn, carts, chat, toasts, middleware.NewMetrics(), server.Log)
	return basecontr.Route(), nil
}

// Shutdown gracefully stops the HTTP server within timeout. A later Serve
// call returns without listening.
func (server *Server) Shutdown(timeout time.Duration) {
	server.mx.Lock()
	server.stopped = true
	srv := server.srv
	server.mx.Unlock()

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			server.Log.Error("server shutdown failed", zap.Error(err))
		}
	}
	server.Log.Info("server stopped")
	_ = server.Log.Sync()
}
