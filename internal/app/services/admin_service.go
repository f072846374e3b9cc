package services

import (
	"context"
	"sort"

	"github.com/emblabrowall/donosti-guide/internal/app/auth"
	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/app/repositories"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/emblabrowall/donosti-guide/internal/pkg/filestorage"
	"github.com/emblabrowall/donosti-guide/internal/pkg/identity"
	"github.com/rs/zerolog"
)

const notAvailable = "N/A"

// AdminService handles moderation of accounts
type AdminService interface {
	ListUsers(ctx context.Context) ([]models.AdminUserView, error)
	DeleteUser(ctx context.Context, actor *models.Actor, userID string) error
}

type adminServiceImpl struct {
	repos    *repositories.Repositories
	provider identity.Provider
	authz    *auth.AuthorizationService
	photos   filestorage.PhotoStorage
	clock    Clock
	logger   zerolog.Logger
}

// NewAdminService creates a new admin service instance
func NewAdminService(
	repos *repositories.Repositories,
	provider identity.Provider,
	authz *auth.AuthorizationService,
	photos filestorage.PhotoStorage,
	clock Clock,
	logger zerolog.Logger,
) AdminService {
	return &adminServiceImpl{
		repos:    repos,
		provider: provider,
		authz:    authz,
		photos:   photos,
		clock:    clock,
		logger:   logger,
	}
}

// ListUsers joins the provider's accounts with their profiles, newest
// account first; accounts without a creation time go last
func (s *adminServiceImpl) ListUsers(ctx context.Context) ([]models.AdminUserView, error) {
	idents, err := s.provider.ListUsers(ctx)
	if err != nil {
		return nil, apperrors.NewUpstreamError("Failed to get users", err)
	}
	profiles, err := s.repos.ProfileRepository.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]models.AdminUserView, 0, len(idents))
	for _, ident := range idents {
		view := models.AdminUserView{ID: ident.ID, Email: ident.Email, Name: ident.Name}
		if p, ok := profiles[ident.ID]; ok {
			if p.Name != "" {
				view.Name = p.Name
			}
			view.Verified = p.Verified
			view.Admin = p.Admin
		}
		if view.Email == "" {
			view.Email = notAvailable
		}
		if view.Name == "" {
			view.Name = notAvailable
		}
		if !ident.CreatedAt.IsZero() {
			created := ident.CreatedAt
			view.CreatedAt = &created
		}
		users = append(users, view)
	}

	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i].CreatedAt, users[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})
	return users, nil
}

// DeleteUser removes the account of userID and everything it authored.
// Replies by the user under other threads are detached from their thread
// and the user's upvotes and reports are withdrawn from what remains.
// Failing to delete the provider account afterwards is only logged.
func (s *adminServiceImpl) DeleteUser(ctx context.Context, actor *models.Actor, userID string) error {
	if err := s.authz.CanDeleteUser(actor, userID); err != nil {
		return err
	}

	var photos []*models.Post
	err := s.repos.Tx(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		if err := tx.ProfileRepository.Delete(ctx, userID); err != nil {
			return err
		}
		if err := withdrawMarkers(ctx, tx, userID); err != nil {
			return err
		}

		posts, err := tx.PostRepository.ListByAuthor(ctx, userID)
		if err != nil {
			return err
		}
		for _, p := range posts {
			if err := deletePostTree(ctx, tx, p); err != nil {
				return err
			}
			photos = append(photos, p)
		}

		comments, err := tx.CommentRepository.ListAll(ctx)
		if err != nil {
			return err
		}
		for _, c := range comments {
			if c.AuthorID == userID {
				if err := tx.CommentRepository.Delete(ctx, c.PostID, c.ID); err != nil {
					return err
				}
			}
		}

		threads, err := tx.ThreadRepository.List(ctx, "")
		if err != nil {
			return err
		}
		for _, t := range threads {
			if t.AuthorID == userID {
				if err := deleteThreadTree(ctx, tx, t); err != nil {
					return err
				}
			}
		}

		replies, err := tx.ReplyRepository.ListAll(ctx)
		if err != nil {
			return err
		}
		now := s.clock.now()
		for _, r := range replies {
			if r.AuthorID == userID {
				if err := detachReply(ctx, tx, r, now); err != nil {
					return err
				}
			}
		}

		events, err := tx.EventRepository.List(ctx)
		if err != nil {
			return err
		}
		for _, e := range events {
			if e.AuthorID == userID {
				if err := tx.EventRepository.Delete(ctx, e.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, p := range photos {
		if p.PhotoObject == "" {
			continue
		}
		if err := s.photos.DeletePhoto(ctx, p.PhotoObject); err != nil {
			s.logger.Warn().Err(err).Str("post_id", p.ID).Msg("Photo removal failed")
		}
	}

	if err := s.provider.DeleteUser(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error deleting provider account, content already removed")
	}

	s.logger.Info().Str("user_id", userID).Str("admin_id", actor.ID).Msg("User deleted")
	return nil
}
