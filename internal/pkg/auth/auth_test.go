package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "s3cret", AccessTokenExp: time.Hour, TokenIssuer: "donosti-guide"})

	token, expiresIn, err := svc.GenerateAccessToken("user-1", "ane@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3600, expiresIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ane@example.com", claims.Email)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "s3cret", AccessTokenExp: time.Hour, TokenIssuer: "donosti-guide"})
	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "donosti-guide"})
	expired := NewJWTService(JWTConfig{SecretKey: "s3cret", AccessTokenExp: -time.Minute, TokenIssuer: "donosti-guide"})

	forged, _, err := other.GenerateAccessToken("user-1", "ane@example.com")
	require.NoError(t, err)
	_, err = svc.ValidateToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	old, _, err := expired.GenerateAccessToken("user-1", "ane@example.com")
	require.NoError(t, err)
	_, err = svc.ValidateToken(old)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = svc.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	tok, err = ExtractBearerToken("abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = ExtractBearerToken("Bearer   ")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPasswordWithCost("pintxos", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "pintxos"))
	assert.False(t, CheckPassword(hash, "txakoli"))
}
