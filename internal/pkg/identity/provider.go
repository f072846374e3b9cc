// Package identity maps bearer tokens to accounts held by an external or
// local auth provider.
package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
)

// Identity is an account as known to the auth provider
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is returned by a successful sign-in
type Session struct {
	AccessToken string   `json:"accessToken"`
	ExpiresIn   int      `json:"expiresIn"`
	User        Identity `json:"user"`
}

// Provider is the auth collaborator. Implementations return apperrors
// sentinels: ErrTokenInvalid for rejected tokens, ErrEmailAlreadyExists and
// ErrBadRequest for refused sign-ups, ErrInvalidCredentials for bad logins,
// ErrUserNotFound and ErrUnsupported where they apply.
type Provider interface {
	VerifyToken(ctx context.Context, token string) (*Identity, error)
	CreateUser(ctx context.Context, email, password, name string) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	ListUsers(ctx context.Context) ([]Identity, error)
	DeleteUser(ctx context.Context, id string) error
}

// validateCredentials applies the sign-up rules shared by every provider:
// one "@" with text on both sides, and a minimum password length
func validateCredentials(email, password string) error {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return apperrors.NewBadRequestError("Unable to validate email address: invalid format")
	}
	if len(password) < minPasswordLength {
		return apperrors.NewBadRequestError(fmt.Sprintf("Password should be at least %d characters", minPasswordLength))
	}
	return nil
}
