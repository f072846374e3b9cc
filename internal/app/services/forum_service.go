package services

import (
	"context"
	"strings"

	"github.com/emblabrowall/donosti-guide/internal/app/auth"
	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/app/models/dto"
	"github.com/emblabrowall/donosti-guide/internal/app/repositories"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/emblabrowall/donosti-guide/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// ForumService defines the operations on threads and replies
type ForumService interface {
	CreateThread(ctx context.Context, actor *models.Actor, req *dto.CreateThreadRequest) (*models.Thread, error)
	ListThreads(ctx context.Context, category string) ([]*models.Thread, error)
	GetThread(ctx context.Context, id string) (*models.Thread, error)
	DeleteThread(ctx context.Context, actor *models.Actor, id string) error

	AddReply(ctx context.Context, actor *models.Actor, threadID, content string) (*models.Reply, error)
	ListReplies(ctx context.Context, threadID string) ([]*models.Reply, error)
	DeleteReply(ctx context.Context, actor *models.Actor, replyID string) error
}

type forumServiceImpl struct {
	repos  *repositories.Repositories
	authz  *auth.AuthorizationService
	clock  Clock
	logger zerolog.Logger
}

// NewForumService creates a new forum service instance
func NewForumService(repos *repositories.Repositories, authz *auth.AuthorizationService, clock Clock, logger zerolog.Logger) ForumService {
	return &forumServiceImpl{
		repos:  repos,
		authz:  authz,
		clock:  clock,
		logger: logger,
	}
}

// CreateThread opens a thread authored by actor
func (s *forumServiceImpl) CreateThread(ctx context.Context, actor *models.Actor, req *dto.CreateThreadRequest) (*models.Thread, error) {
	category := models.ThreadCategory(req.Category)
	if !category.Valid() {
		return nil, apperrors.NewValidationError("category must be one of: questions help general events housing meetup")
	}
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, apperrors.NewValidationError("title and content are required")
	}

	now := s.clock.now()
	thread := &models.Thread{
		ID:           helpers.NewIDAt("thread", now),
		Category:     category,
		Title:        title,
		Content:      content,
		AuthorID:     actor.ID,
		AuthorName:   authorName(actor),
		Verified:     actor.Verified,
		Timestamp:    now,
		LastActivity: now,
	}
	if err := s.repos.ThreadRepository.Save(ctx, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

// ListThreads returns threads by most recent activity; "" or "all" lists
// every category
func (s *forumServiceImpl) ListThreads(ctx context.Context, category string) ([]*models.Thread, error) {
	if category == "all" {
		category = ""
	}
	return s.repos.ThreadRepository.List(ctx, models.ThreadCategory(category))
}

// GetThread returns one thread
func (s *forumServiceImpl) GetThread(ctx context.Context, id string) (*models.Thread, error) {
	return s.repos.ThreadRepository.GetByID(ctx, id)
}

// DeleteThread removes a thread with all its replies
func (s *forumServiceImpl) DeleteThread(ctx context.Context, actor *models.Actor, id string) error {
	err := s.repos.Tx(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		thread, err := tx.ThreadRepository.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authz.CanDelete(actor, thread.AuthorID, auth.ResourceThread); err != nil {
			return err
		}
		return deleteThreadTree(ctx, tx, thread)
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("thread_id", id).Str("actor_id", actor.ID).Msg("Thread deleted")
	return nil
}

// AddReply answers a thread, bumping its reply count and activity
func (s *forumServiceImpl) AddReply(ctx context.Context, actor *models.Actor, threadID, content string) (*models.Reply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content is required")
	}

	now := s.clock.now()
	reply := &models.Reply{
		ID:         helpers.NewIDAt("reply", now),
		ThreadID:   threadID,
		Content:    content,
		AuthorID:   actor.ID,
		AuthorName: authorName(actor),
		Verified:   actor.Verified,
		Timestamp:  now,
	}

	err := s.repos.Tx(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		thread, err := tx.ThreadRepository.GetByID(ctx, threadID)
		if err != nil {
			return err
		}
		if err := tx.ReplyRepository.Save(ctx, reply); err != nil {
			return err
		}
		thread.ReplyCount++
		thread.LastActivity = now
		return tx.ThreadRepository.Save(ctx, thread)
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// ListReplies returns the replies of a thread, oldest first
func (s *forumServiceImpl) ListReplies(ctx context.Context, threadID string) ([]*models.Reply, error) {
	return s.repos.ReplyRepository.ListByThread(ctx, threadID)
}

// DeleteReply removes one reply and refreshes its thread
func (s *forumServiceImpl) DeleteReply(ctx context.Context, actor *models.Actor, replyID string) error {
	return s.repos.Tx(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		reply, err := tx.ReplyRepository.GetByID(ctx, replyID)
		if err != nil {
			return err
		}
		if err := s.authz.CanDelete(actor, reply.AuthorID, auth.ResourceReply); err != nil {
			return err
		}
		return detachReply(ctx, tx, reply, s.clock.now())
	})
}
