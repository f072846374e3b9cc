package identity

import (
	"context"
	"testing"
	"time"

	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/emblabrowall/donosti-guide/internal/pkg/auth"
	"github.com/emblabrowall/donosti-guide/internal/pkg/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestProvider() *LocalProvider {
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "test", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	return NewLocalProvider(kvstore.NewMemoryStore(), jwt, bcrypt.MinCost)
}

func TestLocalProvider_SignupSignInVerify(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()

	created, err := p.CreateUser(ctx, " Ane@Example.com ", "secret1", "Ane")
	require.NoError(t, err)
	assert.Equal(t, "ane@example.com", created.Email)
	assert.NotEmpty(t, created.ID)

	session, err := p.SignIn(ctx, "ANE@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, session.User.ID)

	who, err := p.VerifyToken(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, who.ID)
	assert.Equal(t, "Ane", who.Name)
}

func TestLocalProvider_SignupErrors(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()

	_, err := p.CreateUser(ctx, "ane@example.com", "123", "Ane")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.Equal(t, "Password should be at least 6 characters", err.Error())

	_, err = p.CreateUser(ctx, "ane@example.com", "secret1", "Ane")
	require.NoError(t, err)
	_, err = p.CreateUser(ctx, "ANE@example.com", "secret2", "Other")
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestLocalProvider_SignInRejectsBadPassword(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()
	_, err := p.CreateUser(ctx, "ane@example.com", "secret1", "Ane")
	require.NoError(t, err)

	_, err = p.SignIn(ctx, "ane@example.com", "wrong-one")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = p.SignIn(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLocalProvider_DeleteUserInvalidatesTokens(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()
	created, err := p.CreateUser(ctx, "ane@example.com", "secret1", "Ane")
	require.NoError(t, err)
	session, err := p.SignIn(ctx, "ane@example.com", "secret1")
	require.NoError(t, err)

	users, err := p.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, p.DeleteUser(ctx, created.ID))
	_, err = p.VerifyToken(ctx, session.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	assert.ErrorIs(t, p.DeleteUser(ctx, created.ID), apperrors.ErrUserNotFound)

	// the email can be registered again
	_, err = p.CreateUser(ctx, "ane@example.com", "secret1", "Ane")
	assert.NoError(t, err)
}

func TestLocalProvider_VerifyTokenGarbage(t *testing.T) {
	_, err := newTestProvider().VerifyToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}
