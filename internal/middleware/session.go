package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/auth"
)

const (
	// SessionHeader carries a freshly issued token back to the client.
	SessionHeader = "X-Session-Token"
	SessionCookie = "storefront_session"
)

type Log interface {
	Info(string, ...zap.Field)
	Warn(string, ...zap.Field)
	Error(string, ...zap.Field)
}

type SessionIssuer interface {
	Verify(token string) (auth.Session, error)
	Anonymous() (string, auth.Session, error)
}

// Sessions attaches the caller's session to the request context. Requests
// without a valid token get a new anonymous session.
func Sessions(issuer SessionIssuer, log Log) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := sessionToken(r); token != "" {
				sess, err := issuer.Verify(token)
				if err == nil {
					next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), sess)))
					return
				}
				log.Warn("rejected session token", zap.Error(err))
			}

			token, sess, err := issuer.Anonymous()
			if err != nil {
				log.Error("issue anonymous session", zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			SetSessionToken(w, token)
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), sess)))
		})
	}
}

// SetSessionToken hands a token to the client as both header and cookie.
func SetSessionToken(w http.ResponseWriter, token string) {
	w.Header().Set(SessionHeader, token)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequireAuth lets only signed-in sessions through.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := auth.SessionFrom(r.Context())
		if !sess.Authenticated {
			deny(w, http.StatusUnauthorized, "Please log in to continue.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin lets only back-office sessions through.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := auth.SessionFrom(r.Context())
		switch {
		case !sess.Authenticated:
			deny(w, http.StatusUnauthorized, "Admin login required.")
		case !sess.Admin:
			deny(w, http.StatusForbidden, "Admin access only.")
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
