package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/app/models/dto"
	"github.com/emblabrowall/donosti-guide/internal/app/repositories"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/emblabrowall/donosti-guide/internal/pkg/auth"
	"github.com/emblabrowall/donosti-guide/internal/pkg/identity"
	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware
const (
	ActorKey  = "actor"
	UserIDKey = "userID"
)

var errUnauthorized = apperrors.NewUnauthenticatedError("Unauthorized")

// AuthMiddleware resolves bearer tokens to actors
type AuthMiddleware struct {
	provider identity.Provider
	profiles *repositories.ProfileRepository
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(provider identity.Provider, profiles *repositories.ProfileRepository) *AuthMiddleware {
	return &AuthMiddleware{
		provider: provider,
		profiles: profiles,
	}
}

// Resolve verifies token with the provider and joins the local profile.
// A user without a stored profile resolves as an unverified "Anonymous".
func (m *AuthMiddleware) Resolve(ctx context.Context, token string) (*models.Actor, error) {
	if token == "" {
		return nil, errUnauthorized
	}

	ident, err := m.provider.VerifyToken(ctx, token)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenExpired, apperrors.ErrUserNotFound) {
			return nil, errUnauthorized
		}
		return nil, apperrors.NewUpstreamError("Unauthorized", err)
	}

	profile, _, err := m.profiles.GetByID(ctx, ident.ID)
	if err != nil {
		return nil, err
	}

	actor := &models.Actor{ID: ident.ID, Email: ident.Email, Name: profile.DisplayName()}
	if profile != nil {
		actor.Verified = profile.Verified
		actor.Admin = profile.Admin
		if profile.Email != "" {
			actor.Email = profile.Email
		}
	}
	return actor, nil
}

func bearerToken(c *gin.Context) string {
	token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
	if err != nil {
		return ""
	}
	return token
}

// RequireAuth aborts with 401 unless the request carries a valid token
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := m.Resolve(c.Request.Context(), bearerToken(c))
		if err != nil {
			HandleAPIError(c, err, "Unauthorized")
			return
		}
		setActor(c, actor)
		c.Next()
	}
}

// OptionalAuth resolves the actor when a valid token is present and never
// aborts; anonymous requests simply carry no actor.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if actor, err := m.Resolve(c.Request.Context(), token); err == nil {
				setActor(c, actor)
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Unauthorized"))
			return
		}
		if !actor.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(dto.ErrorCodeForbidden, "Forbidden: Admin access required"))
			return
		}
		c.Next()
	}
}

func setActor(c *gin.Context, actor *models.Actor) {
	c.Set(ActorKey, actor)
	c.Set(UserIDKey, actor.ID)
}

// CurrentActor returns the actor placed on the context by the auth middleware
func CurrentActor(c *gin.Context) (*models.Actor, bool) {
	v, exists := c.Get(ActorKey)
	if !exists {
		return nil, false
	}
	actor, ok := v.(*models.Actor)
	return actor, ok && actor != nil
}

// ErrNoActor is returned by MustActor on routes mounted without RequireAuth
var ErrNoActor = errors.New("no actor on request context")

// MustActor is CurrentActor for handlers behind RequireAuth
func MustActor(c *gin.Context) (*models.Actor, error) {
	actor, ok := CurrentActor(c)
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrUnauthenticated, "Unauthorized").WithDetails(map[string]interface{}{"cause": ErrNoActor.Error()})
	}
	return actor, nil
}
