package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/app"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	server := app.NewServer(ctx)
	server.Log.Info("storefront starting",
		zap.Int("pid", os.Getpid()),
		zap.Duration("shutdown_timeout", shutdownTimeout),
	)

	go func() {
		sig := <-signalCh
		server.Log.Info("shutting down storefront", zap.Stringer("signal", sig))

		// stop taking orders first, then the cron sweeps
		server.Shutdown(shutdownTimeout)
		cancel()
	}()

	// blocks until Shutdown; returns at once if the signal came first
	server.Serve()
}
