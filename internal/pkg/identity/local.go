package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/emblabrowall/donosti-guide/internal/pkg/auth"
	"github.com/emblabrowall/donosti-guide/internal/pkg/kvstore"
	"github.com/google/uuid"
)

const (
	credentialPrefix = "auth-users:"
	emailIndexPrefix = "auth-emails:"

	minPasswordLength = 6
)

type credential struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (c credential) identity() Identity {
	return Identity{ID: c.ID, Email: c.Email, Name: c.Name, CreatedAt: c.CreatedAt}
}

// LocalProvider keeps credentials in the KV store and issues HS256 tokens
type LocalProvider struct {
	store    kvstore.Store
	jwt      *auth.JWTService
	hashCost int
}

// NewLocalProvider creates a local provider. hashCost <= 0 uses auth.BcryptCost.
func NewLocalProvider(store kvstore.Store, jwt *auth.JWTService, hashCost int) *LocalProvider {
	if hashCost <= 0 {
		hashCost = auth.BcryptCost
	}
	return &LocalProvider{store: store, jwt: jwt, hashCost: hashCost}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// VerifyToken implements Provider
func (p *LocalProvider) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	claims, err := p.jwt.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}

	var cred credential
	found, err := p.store.Get(ctx, credentialPrefix+claims.UserID, &cred)
	if err != nil {
		return nil, apperrors.NewUpstreamError("failed to load account", err)
	}
	if !found {
		// account deleted after the token was issued
		return nil, apperrors.ErrTokenInvalid
	}

	id := cred.identity()
	return &id, nil
}

// CreateUser implements Provider
func (p *LocalProvider) CreateUser(ctx context.Context, email, password, name string) (*Identity, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPasswordWithCost(password, p.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	cred := credential{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	err = p.store.Tx(ctx, func(ctx context.Context, tx kvstore.Store) error {
		var existing string
		found, err := tx.Get(ctx, emailIndexPrefix+email, &existing)
		if err != nil {
			return err
		}
		if found {
			return apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "A user with this email address has already been registered")
		}
		if err := tx.Set(ctx, credentialPrefix+cred.ID, cred); err != nil {
			return err
		}
		return tx.Set(ctx, emailIndexPrefix+email, cred.ID)
	})
	if err != nil {
		return nil, err
	}

	id := cred.identity()
	return &id, nil
}

// SignIn implements Provider
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	invalid := apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid login credentials")

	var userID string
	found, err := p.store.Get(ctx, emailIndexPrefix+normalizeEmail(email), &userID)
	if err != nil {
		return nil, apperrors.NewUpstreamError("failed to load account", err)
	}
	if !found {
		return nil, invalid
	}

	var cred credential
	found, err = p.store.Get(ctx, credentialPrefix+userID, &cred)
	if err != nil {
		return nil, apperrors.NewUpstreamError("failed to load account", err)
	}
	if !found || !auth.CheckPassword(cred.PasswordHash, password) {
		return nil, invalid
	}

	token, expiresIn, err := p.jwt.GenerateAccessToken(cred.ID, cred.Email)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: token, ExpiresIn: expiresIn, User: cred.identity()}, nil
}

// ListUsers implements Provider
func (p *LocalProvider) ListUsers(ctx context.Context) ([]Identity, error) {
	creds, err := kvstore.ScanAll[credential](ctx, p.store, credentialPrefix)
	if err != nil {
		return nil, apperrors.NewUpstreamError("failed to list accounts", err)
	}
	out := make([]Identity, len(creds))
	for i, c := range creds {
		out[i] = c.identity()
	}
	return out, nil
}

// DeleteUser implements Provider
func (p *LocalProvider) DeleteUser(ctx context.Context, id string) error {
	return p.store.Tx(ctx, func(ctx context.Context, tx kvstore.Store) error {
		var cred credential
		found, err := tx.Get(ctx, credentialPrefix+id, &cred)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.ErrUserNotFound
		}
		return tx.Delete(ctx, credentialPrefix+id, emailIndexPrefix+cred.Email)
	})
}
