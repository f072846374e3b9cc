package identity

import (
	"errors"
	"testing"

	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserError_OutageIsUpstream(t *testing.T) {
	err := createUserError(errors.New("dial tcp: identitytoolkit.googleapis.com: connection refused"))

	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.NotErrorIs(t, err, apperrors.ErrBadRequest)
	var ce *apperrors.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Signup failed", ce.Message)
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		ok       bool
	}{
		{"valid", "ane@ehu.eus", "secret1", true},
		{"no at", "ane.ehu.eus", "secret1", false},
		{"empty local part", "@ehu.eus", "secret1", false},
		{"empty domain", "ane@", "secret1", false},
		{"two ats", "ane@ehu@eus", "secret1", false},
		{"short password", "ane@ehu.eus", "12345", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCredentials(tt.email, tt.password)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		})
	}
}
