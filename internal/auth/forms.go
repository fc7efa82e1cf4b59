package auth

import (
	"context"
	"regexp"
	"strings"

	"github.com/drstein77/storefront/internal/validation"
)

var signupEmailRe = regexp.MustCompile(`\S+@\S+\.\S+`)

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f LoginForm) Validate() error {
	errs := validation.FieldErrors{}
	if !strings.Contains(f.Email, "@") {
		errs["email"] = "Valid email is required."
	}
	if len(f.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters."
	}
	return errs.Err()
}

type SignupForm struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (f SignupForm) Validate() error {
	errs := validation.FieldErrors{}
	if validation.Blank(f.FullName) {
		errs["fullName"] = "Full name is required."
	}
	if !signupEmailRe.MatchString(f.Email) {
		errs["email"] = "A valid email is required."
	}
	if len(f.Password) < 8 {
		errs["password"] = "Password must be at least 8 characters long."
	}
	if f.Password != f.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match."
	}
	return errs.Err()
}

// PasswordForm is the admin settings password change.
type PasswordForm struct {
	Current string `json:"current"`
	New     string `json:"new"`
	Confirm string `json:"confirm"`
}

func (f PasswordForm) Validate() error {
	errs := validation.FieldErrors{}
	if len(f.New) < 8 {
		errs["new"] = "New password must be at least 8 characters."
	}
	if f.New != f.Confirm {
		errs["confirm"] = "New passwords do not match."
	}
	return errs.Err()
}

// ResetNotice is the answer to a password reset request. It is the same
// whether or not an account exists for the address.
func ResetNotice(email string) string {
	return "If an account with the email " + email + " exists, we've sent instructions to reset your password."
}

type ctxKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
