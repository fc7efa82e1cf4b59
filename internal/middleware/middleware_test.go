package middleware

import (
	"archive/zip"
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/auth"
	"github.com/drstein77/storefront/internal/compress"
)

func newIssuer(t *testing.T) *auth.Service {
	t.Helper()
	svc, err := auth.NewService("test-secret", "admin", "password", time.Hour)
	require.NoError(t, err)
	return svc
}

func echoSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = io.WriteString(w, sess.ID)
}

func TestSessionsIssueAnonymous(t *testing.T) {
	h := Sessions(newIssuer(t), zap.NewNop())(http.HandlerFunc(echoSession))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(SessionHeader))
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, SessionCookie, rec.Result().Cookies()[0].Name)
}

func TestSessionsReuseToken(t *testing.T) {
	issuer := newIssuer(t)
	token, sess, err := issuer.Anonymous()
	require.NoError(t, err)
	h := Sessions(issuer, zap.NewNop())(http.HandlerFunc(echoSession))

	byHeader := httptest.NewRequest(http.MethodGet, "/", nil)
	byHeader.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, byHeader)
	assert.Equal(t, sess.ID, rec.Body.String())
	assert.Empty(t, rec.Header().Get(SessionHeader))

	byCookie := httptest.NewRequest(http.MethodGet, "/", nil)
	byCookie.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, byCookie)
	assert.Equal(t, sess.ID, rec.Body.String())
}

func TestSessionsReplaceBadToken(t *testing.T) {
	h := Sessions(newIssuer(t), zap.NewNop())(http.HandlerFunc(echoSession))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(SessionHeader))
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	tests := []struct {
		name string
		sess auth.Session
		want int
	}{
		{name: "guest", sess: auth.Session{ID: "s"}, want: http.StatusUnauthorized},
		{name: "shopper", sess: auth.Session{ID: "s", Authenticated: true}, want: http.StatusForbidden},
		{name: "admin", sess: auth.Session{ID: "s", Authenticated: true, Admin: true}, want: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(auth.WithSession(req.Context(), tt.sess))
			rec := httptest.NewRecorder()
			RequireAdmin(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	RequireAuth(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnpackArchive(t *testing.T) {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(w, r.Body)
	})

	buf := &bytes.Buffer{}
	zw, err := compress.NewZipWriter(buf, "products.csv")
	require.NoError(t, err)
	_, _ = io.WriteString(zw, "id,name\n")
	require.NoError(t, zw.Close())

	rec := httptest.NewRecorder()
	UnpackArchive(echo).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import?archiveType=zip", buf))
	assert.Equal(t, "id,name\n", rec.Body.String())

	plain := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader("id,name\n"))
	plain.Header.Set("Content-Type", "text/csv")
	rec = httptest.NewRecorder()
	UnpackArchive(echo).ServeHTTP(rec, plain)
	assert.Equal(t, "id,name\n", rec.Body.String())

	rec = httptest.NewRecorder()
	UnpackArchive(echo).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import?archiveType=tar", strings.NewReader("not a tar")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPackArchive(t *testing.T) {
	h := PackArchive("products.csv")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, "id,name\n")
	}))

	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	req.Header.Set("Accept-Encoding", "gzip, zip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "products.csv", zr.File[0].Name)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export", nil))
	assert.Equal(t, "id,name\n", rec.Body.String())
}

func TestPackArchiveSkipsErrors(t *testing.T) {
	h := PackArchive("products.csv")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	req.Header.Set("Accept-Encoding", "zip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "nope")
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/products/{id}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/S001", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `storefront_http_requests_total{method="GET",route="/products/{id}",status="200"} 1`)
}
