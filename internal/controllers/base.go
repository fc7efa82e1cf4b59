package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	chimw "github.com/go-chi/chi/middleware"
	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/auth"
	"github.com/drstein77/storefront/internal/cart"
	"github.com/drstein77/storefront/internal/middleware"
	"github.com/drstein77/storefront/internal/models"
	"github.com/drstein77/storefront/internal/storage"
	"github.com/drstein77/storefront/internal/validation"
)

// Storage interface for the shop's in-memory stores
type Storage interface {
	GetAllProducts(context.Context) ([]models.Product, error)
	ProductByID(context.Context, string) (models.Product, error)
	AddProduct(context.Context, models.Product) (models.Product, error)
	UpdateProduct(context.Context, models.Product) (models.Product, error)
	UpdateStock(context.Context, string, int) (models.Product, error)
	DeleteProduct(context.Context, string) error
	AddReview(context.Context, string, models.Review) (models.Review, error)
	ImportProducts(context.Context, []models.Product) (*models.ProcessResponse, error)

	Employees(context.Context) ([]models.Employee, error)
	EmployeeByID(context.Context, string) (models.Employee, error)
	AddEmployee(context.Context, models.Employee) (models.Employee, error)
	UpdateEmployee(context.Context, models.Employee) (models.Employee, error)
	DeleteEmployee(context.Context, string) error
	AttendanceRecords(context.Context) ([]models.AttendanceRecord, error)
	AttendanceForDate(context.Context, time.Time) ([]models.AttendanceEntry, error)
	AddAttendance(context.Context, models.AttendanceRecord) (models.AttendanceRecord, error)

	Orders(context.Context) ([]models.Order, error)
	AddOrder(context.Context, []models.OrderItem, float64) (models.Order, error)
}

// Auth issues and checks session tokens
type Auth interface {
	middleware.SessionIssuer
	Login(auth.Session, auth.LoginForm) (string, auth.Session, error)
	Signup(auth.Session, auth.SignupForm) (string, auth.Session, error)
	LoginAdmin(cur auth.Session, user, password string) (string, auth.Session, error)
	Logout(auth.Session) (string, auth.Session, error)
	ChangeAdminPassword(auth.PasswordForm) error
}

type Assistant interface {
	Messages(session string) []models.ChatMessage
	Send(ctx context.Context, session, text string) (models.ChatMessage, error)
	SetAPIKey(session, key string)
	APIKey(session string) (string, bool)
}

type Toasts interface {
	Show(session, message string, typ models.ToastType) models.Toast
	Remove(session, id string) bool
	List(session string) []models.Toast
}

// Log interface for logging
type Log interface {
	Info(string, ...zap.Field)
	Warn(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// BaseController struct for handling requests
type BaseController struct {
	storage   Storage
	auth      Auth
	carts     *cart.Sessions
	assistant Assistant
	toasts    Toasts
	metrics   *middleware.Metrics
	log       Log
	now       func() time.Time
}

// NewBaseController creates a new BaseController instance
func NewBaseController(store Storage, authn Auth, carts *cart.Sessions, assistant Assistant, toasts Toasts, metrics *middleware.Metrics, log Log) *BaseController {
	return &BaseController{
		storage:   store,
		auth:      authn,
		carts:     carts,
		assistant: assistant,
		toasts:    toasts,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// Route sets up the routes for the BaseController
func (h *BaseController) Route() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.Recoverer, middleware.RequestLogger(h.log))
	if h.metrics != nil {
		r.Use(h.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Sessions(h.auth, h.log))

		r.Get("/session", h.getSession)
		r.Post("/auth/login", h.login)
		r.Post("/auth/signup", h.signup)
		r.Post("/auth/forgot-password", h.forgotPassword)
		r.Post("/auth/logout", h.logout)
		r.Post("/auth/admin", h.adminLogin)

		r.Get("/products", h.listProducts)
		r.Get("/products/search", h.searchProducts)
		r.Get("/products/{id}", h.getProduct)
		r.Post("/products/{id}/reviews", h.postReview)

		r.Get("/cart", h.getCart)
		r.Delete("/cart", h.clearCart)
		r.Post("/cart/items", h.addCartItem)
		r.Put("/cart/items/{id}", h.updateCartItem)
		r.Delete("/cart/items/{id}", h.removeCartItem)

		r.Get("/wishlist", h.getWishlist)
		r.Get("/wishlist/share", h.shareWishlist)
		r.Get("/wishlist/shared", h.sharedWishlist)
		r.Post("/wishlist/{id}", h.toggleWishlist)

		r.Get("/checkout", h.getCheckout)
		r.Post("/checkout", h.postCheckout)
		r.With(middleware.RequireAuth).Get("/orders", h.getOrders)

		r.Get("/toasts", h.getToasts)
		r.Delete("/toasts/{id}", h.dismissToast)

		r.Get("/chat/messages", h.getChatMessages)
		r.Post("/chat/messages", h.postChatMessage)
		r.Get("/chat/key", h.getChatKey)
		r.Put("/chat/key", h.putChatKey)
		r.Delete("/chat/key", h.deleteChatKey)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/products", h.adminProducts)
			r.Post("/products", h.createProduct)
			r.Put("/products/{id}", h.updateProduct)
			r.Delete("/products/{id}", h.deleteProduct)
			r.With(middleware.UnpackArchive).Post("/products/import", h.importProducts)
			r.With(middleware.PackArchive("products.csv")).Get("/products/export", h.exportProducts)

			r.Get("/inventory", h.getInventory)
			r.Put("/inventory/{id}", h.updateStock)

			r.Get("/employees", h.listEmployees)
			r.Post("/employees", h.createEmployee)
			r.Put("/employees/{id}", h.updateEmployee)
			r.Delete("/employees/{id}", h.deleteEmployee)

			r.Get("/attendance", h.getAttendance)
			r.Post("/attendance", h.postAttendance)

			r.Get("/payroll", h.getPayroll)
			r.Get("/analytics", h.getAnalytics)

			r.Put("/settings/password", h.changePassword)
		})
	})

	return r
}

func session(r *http.Request) auth.Session {
	s, _ := auth.SessionFrom(r.Context())
	return s
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps domain errors onto status codes.
func (h *BaseController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fe validation.FieldErrors
	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fe})
	case errors.Is(err, storage.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, storage.ErrConflict):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials.")
	default:
		h.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeMessage(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func (h *BaseController) badRequest(w http.ResponseWriter, err error) {
	writeMessage(w, http.StatusBadRequest, "Malformed request: "+err.Error())
}
