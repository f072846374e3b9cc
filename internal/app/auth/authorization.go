package auth

import (
	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// Resource names used in ownership messages
const (
	ResourcePost    = "posts"
	ResourceComment = "comments"
	ResourceThread  = "threads"
	ResourceReply   = "replies"
	ResourceEvent   = "events"
)

// AuthorizationService decides who may modify what. Admins may modify any
// record; everybody else only records they authored.
type AuthorizationService struct {
	log zerolog.Logger
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(log zerolog.Logger) *AuthorizationService {
	return &AuthorizationService{log: log}
}

// CanDelete returns Forbidden unless actor authored the record or is admin
func (s *AuthorizationService) CanDelete(actor *models.Actor, authorID, resource string) error {
	if actor.CanModify(authorID) {
		return nil
	}
	s.log.Debug().
		Str("resource", resource).
		Str("author_id", authorID).
		Interface("actor", actor).
		Msg("delete denied")
	return apperrors.NewForbiddenError("Forbidden: You can only delete your own " + resource)
}

// CanMarkHelpful allows only the author of the thread, admins included
func (s *AuthorizationService) CanMarkHelpful(actor *models.Actor, thread *models.Thread) error {
	if actor != nil && actor.ID == thread.AuthorID {
		return nil
	}
	return apperrors.NewForbiddenError("Only thread author can mark helpful")
}

// CanDeleteUser forbids admins from deleting their own account
func (s *AuthorizationService) CanDeleteUser(actor *models.Actor, userID string) error {
	if actor == nil || !actor.Admin {
		return apperrors.NewForbiddenError("Forbidden: Admin access required")
	}
	if actor.ID == userID {
		return apperrors.NewBadRequestError("Cannot delete your own account")
	}
	return nil
}
