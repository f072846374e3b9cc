package auth

import (
	"testing"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestCanDelete(t *testing.T) {
	s := NewAuthorizationService(zerolog.Nop())

	assert.NoError(t, s.CanDelete(&models.Actor{ID: "u1"}, "u1", ResourcePost))
	assert.NoError(t, s.CanDelete(&models.Actor{ID: "u9", Admin: true}, "u1", ResourcePost))

	err := s.CanDelete(&models.Actor{ID: "u2"}, "u1", ResourceThread)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.EqualError(t, err, "Forbidden: You can only delete your own threads")
}

func TestCanMarkHelpful_AdminIsNotEnough(t *testing.T) {
	s := NewAuthorizationService(zerolog.Nop())
	thread := &models.Thread{AuthorID: "u1"}

	assert.NoError(t, s.CanMarkHelpful(&models.Actor{ID: "u1"}, thread))
	assert.ErrorIs(t, s.CanMarkHelpful(&models.Actor{ID: "u9", Admin: true}, thread), apperrors.ErrPermissionDenied)
}

func TestCanDeleteUser(t *testing.T) {
	s := NewAuthorizationService(zerolog.Nop())
	admin := &models.Actor{ID: "a1", Admin: true}

	assert.NoError(t, s.CanDeleteUser(admin, "u1"))
	assert.ErrorIs(t, s.CanDeleteUser(admin, "a1"), apperrors.ErrBadRequest)
	assert.ErrorIs(t, s.CanDeleteUser(&models.Actor{ID: "u1"}, "u2"), apperrors.ErrPermissionDenied)
}
