package services

import (
	"context"

	"github.com/emblabrowall/donosti-guide/internal/app/auth"
	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/app/repositories"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// LedgerService defines upvotes, reports and the helpful flag. Every
// mutation runs in one store transaction that locks the entity first, so
// an entity's counter always equals its number of markers.
type LedgerService interface {
	ToggleUpvote(ctx context.Context, actor *models.Actor, kind models.EntityKind, id string) (*models.UpvoteResult, error)
	UpvoteStatus(ctx context.Context, actor *models.Actor, kind models.EntityKind, id string) (bool, error)
	Report(ctx context.Context, actor *models.Actor, postID string) error
	MarkReplyHelpful(ctx context.Context, actor *models.Actor, replyID string) (bool, error)
}

type ledgerServiceImpl struct {
	repos  *repositories.Repositories
	authz  *auth.AuthorizationService
	logger zerolog.Logger
}

// NewLedgerService creates a new ledger service instance
func NewLedgerService(repos *repositories.Repositories, authz *auth.AuthorizationService, logger zerolog.Logger) LedgerService {
	return &ledgerServiceImpl{
		repos:  repos,
		authz:  authz,
		logger: logger,
	}
}

// votable is the upvote counter of a loaded entity and how to persist it
type votable struct {
	upvotes *int
	save    func(ctx context.Context) error
}

func loadVotable(ctx context.Context, repos *repositories.Repositories, kind models.EntityKind, id string) (*votable, error) {
	switch kind {
	case models.EntityPost:
		p, err := repos.PostRepository.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &votable{&p.Upvotes, func(ctx context.Context) error { return repos.PostRepository.Save(ctx, p) }}, nil
	case models.EntityThread:
		t, err := repos.ThreadRepository.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &votable{&t.Upvotes, func(ctx context.Context) error { return repos.ThreadRepository.Save(ctx, t) }}, nil
	case models.EntityReply:
		r, err := repos.ReplyRepository.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &votable{&r.Upvotes, func(ctx context.Context) error { return repos.ReplyRepository.Save(ctx, r) }}, nil
	}
	return nil, apperrors.NewBadRequestError("unknown entity kind " + string(kind))
}

// ToggleUpvote adds actor's upvote, or withdraws it when already present
func (s *ledgerServiceImpl) ToggleUpvote(ctx context.Context, actor *models.Actor, kind models.EntityKind, id string) (*models.UpvoteResult, error) {
	var result models.UpvoteResult
	err := s.repos.Tx(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		entity, err := loadVotable(ctx, tx, kind, id)
		if err != nil {
			return err
		}

		has, err := tx.MarkerRepository.HasUpvoted(ctx, kind, id, actor.ID)
		if err != nil {
			return err
		}
		if has {
			if err := tx.MarkerRepository.RemoveUpvote(ctx, kind, id, actor.ID); err != nil {
				return err
			}
			if *entity.upvotes > 0 {
				*entity.upvotes--
			}
		} else {
			if err := tx.MarkerRepository.PutUpvote(ctx, kind, id, actor.ID); err != nil {
				return err
			}
			*entity.upvotes++
		}

		result = models.UpvoteResult{Upvotes: *entity.upvotes, HasUpvoted: !has}
		return entity.save(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpvoteStatus reports whether actor currently upvotes the entity. An
// anonymous caller never does.
func (s *ledgerServiceImpl) UpvoteStatus(ctx context.Context, actor *models.Actor, kind models.EntityKind, id string) (bool, error) {
	if actor == nil {
		return false, nil
	}
	if !kind.Valid() {
		return false, apperrors.NewBadRequestError("unknown entity kind " + string(kind))
	}
	return s.repos.MarkerRepository.HasUpvoted(ctx, kind, id, actor.ID)
}

// Report flags a post once per user
func (s *ledgerServiceImpl) Report(ctx context.Context, actor *models.Actor, postID string) error {
	err := s.repos.Tx(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		post, err := tx.PostRepository.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		reported, err := tx.MarkerRepository.HasReported(ctx, postID, actor.ID)
		if err != nil {
			return err
		}
		if reported {
			return apperrors.ErrAlreadyReported
		}
		if err := tx.MarkerRepository.PutReport(ctx, postID, actor.ID); err != nil {
			return err
		}
		post.ReportCount++
		return tx.PostRepository.Save(ctx, post)
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("post_id", postID).Str("reporter_id", actor.ID).Msg("Post reported")
	return nil
}

// MarkReplyHelpful toggles the helpful flag of a reply. The thread is
// solved while at least one of its replies is helpful.
func (s *ledgerServiceImpl) MarkReplyHelpful(ctx context.Context, actor *models.Actor, replyID string) (bool, error) {
	var helpful bool
	err := s.repos.Tx(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		reply, err := tx.ReplyRepository.GetByID(ctx, replyID)
		if err != nil {
			return err
		}
		thread, err := tx.ThreadRepository.GetByID(ctx, reply.ThreadID)
		if err != nil {
			return err
		}
		if err := s.authz.CanMarkHelpful(actor, thread); err != nil {
			return err
		}

		reply.Helpful = !reply.Helpful
		helpful = reply.Helpful
		if err := tx.ReplyRepository.Save(ctx, reply); err != nil {
			return err
		}

		if thread.Solved, err = anyHelpful(ctx, tx, thread.ID); err != nil {
			return err
		}
		return tx.ThreadRepository.Save(ctx, thread)
	})
	return helpful, err
}
