package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/errorutils"
	"google.golang.org/api/iterator"

	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
)

// FirebaseProvider delegates accounts to Firebase Authentication. Clients
// sign in with the Firebase SDK and send the resulting ID token.
type FirebaseProvider struct {
	client *fbauth.Client
}

// NewFirebaseProvider creates the auth client of app
func NewFirebaseProvider(ctx context.Context, app *firebase.App) (*FirebaseProvider, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}
	return &FirebaseProvider{client: client}, nil
}

// VerifyToken implements Provider
func (p *FirebaseProvider) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	tok, err := p.client.VerifyIDToken(ctx, token)
	if err != nil {
		if fbauth.IsIDTokenExpired(err) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}

	id := &Identity{ID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := tok.Claims["name"].(string); ok {
		id.Name = name
	}
	return id, nil
}

// CreateUser implements Provider
func (p *FirebaseProvider) CreateUser(ctx context.Context, email, password, name string) (*Identity, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	params := (&fbauth.UserToCreate{}).
		Email(email).
		Password(password).
		EmailVerified(true)
	if name != "" {
		params = params.DisplayName(name)
	}

	rec, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return nil, createUserError(err)
	}
	return recordIdentity(rec), nil
}

// createUserError keeps the refusals a user can act on as client errors.
// Anything else is an outage and its cause stays out of the message.
func createUserError(err error) error {
	switch {
	case fbauth.IsEmailAlreadyExists(err):
		return apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "A user with this email address has already been registered")
	case fbauth.IsInvalidEmail(err):
		return apperrors.NewBadRequestError("Unable to validate email address: invalid format")
	case errorutils.IsInvalidArgument(err):
		return apperrors.NewBadRequestError("Signup rejected: invalid account details")
	}
	return apperrors.NewUpstreamError("Signup failed", err)
}

// SignIn implements Provider
func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return nil, apperrors.NewCustomError(apperrors.ErrUnsupported, "Sign in with the Firebase client SDK")
}

// ListUsers implements Provider
func (p *FirebaseProvider) ListUsers(ctx context.Context) ([]Identity, error) {
	var out []Identity
	iter := p.client.Users(ctx, "")
	for {
		u, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, apperrors.NewUpstreamError("failed to list accounts", err)
		}
		out = append(out, *recordIdentity(u.UserRecord))
	}
	return out, nil
}

// DeleteUser implements Provider
func (p *FirebaseProvider) DeleteUser(ctx context.Context, id string) error {
	if err := p.client.DeleteUser(ctx, id); err != nil {
		if fbauth.IsUserNotFound(err) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.NewUpstreamError("failed to delete account", err)
	}
	return nil
}

func recordIdentity(rec *fbauth.UserRecord) *Identity {
	id := &Identity{ID: rec.UID, Email: rec.Email, Name: rec.DisplayName}
	if rec.UserMetadata != nil && rec.UserMetadata.CreationTimestamp > 0 {
		id.CreatedAt = time.UnixMilli(rec.UserMetadata.CreationTimestamp).UTC()
	}
	return id
}
