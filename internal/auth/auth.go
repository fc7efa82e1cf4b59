// Package auth issues and verifies the signed session tokens of shoppers and
// back-office staff.
package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid session token")
)

const issuer = "storefront"

// Claims is the payload of a session token. Subject is the session id that
// carts, wishlists and toasts are keyed by.
type Claims struct {
	jwt.RegisteredClaims
	Authenticated bool   `json:"auth"`
	Admin         bool   `json:"admin"`
	Email         string `json:"email,omitempty"`
}

// Session is the verified view of a token.
type Session struct {
	ID            string `json:"id"`
	Authenticated bool   `json:"isAuthenticated"`
	Admin         bool   `json:"isAdmin"`
	Email         string `json:"email,omitempty"`
}

type Service struct {
	secret    []byte
	adminUser string

	mx        sync.RWMutex
	adminHash []byte

	ttl time.Duration
	now func() time.Time
}

// NewService hashes the admin password once so that it is never kept in clear.
func NewService(secret, adminUser, adminPassword string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &Service{
		secret:    []byte(secret),
		adminUser: adminUser,
		adminHash: hash,
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

// Anonymous opens a guest session.
func (s *Service) Anonymous() (string, Session, error) {
	return s.issue(Session{ID: uuid.NewString()})
}

// Login signs a shopper in, keeping the session id so the cart survives.
// Credentials are not checked against an account store; only the form is.
func (s *Service) Login(cur Session, form LoginForm) (string, Session, error) {
	if err := form.Validate(); err != nil {
		return "", Session{}, err
	}
	return s.issue(shopper(cur, form.Email))
}

// Signup creates the shopper's session; there is no account store behind it.
func (s *Service) Signup(cur Session, form SignupForm) (string, Session, error) {
	if err := form.Validate(); err != nil {
		return "", Session{}, err
	}
	return s.issue(shopper(cur, form.Email))
}

func (s *Service) LoginAdmin(cur Session, user, password string) (string, Session, error) {
	if user != s.adminUser || !s.adminPasswordMatches(password) {
		return "", Session{}, ErrInvalidCredentials
	}
	return s.issue(Session{ID: cur.ID, Authenticated: true, Admin: true})
}

// ChangeAdminPassword replaces the admin password for the rest of the
// process lifetime.
func (s *Service) ChangeAdminPassword(form PasswordForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	if !s.adminPasswordMatches(form.Current) {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(form.New), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	s.mx.Lock()
	s.adminHash = hash
	s.mx.Unlock()
	return nil
}

func (s *Service) adminPasswordMatches(password string) bool {
	s.mx.RLock()
	hash := s.adminHash
	s.mx.RUnlock()
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

func shopper(cur Session, email string) Session {
	return Session{ID: cur.ID, Authenticated: true, Email: email}
}

// Logout drops authentication but keeps the session id.
func (s *Service) Logout(cur Session) (string, Session, error) {
	return s.issue(Session{ID: cur.ID})
}

func (s *Service) issue(sess Session) (string, Session, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sess.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Authenticated: sess.Authenticated,
		Admin:         sess.Admin,
		Email:         sess.Email,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("sign session: %w", err)
	}
	return token, sess, nil
}

// Verify parses a token issued by this service.
func (s *Service) Verify(token string) (Session, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return Session{
		ID:            claims.Subject,
		Authenticated: claims.Authenticated,
		Admin:         claims.Admin,
		Email:         claims.Email,
	}, nil
}
