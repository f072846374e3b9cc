package repositories

import (
	"context"
	"sort"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/emblabrowall/donosti-guide/internal/pkg/kvstore"
)

// ReplyRepository handles replies. Each reply is stored under its thread and
// indexed by id, so lookups by reply id never scan the replies namespace.
type ReplyRepository struct {
	store kvstore.Store
}

// NewReplyRepository creates a new ReplyRepository
func NewReplyRepository(store kvstore.Store) *ReplyRepository {
	return &ReplyRepository{store: store}
}

// GetByID resolves the owning thread through the index, then loads the reply
func (r *ReplyRepository) GetByID(ctx context.Context, id string) (*models.Reply, error) {
	var threadID string
	found, err := r.store.Get(ctx, ReplyIndexKey(id), &threadID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.ErrReplyNotFound
	}

	var reply models.Reply
	found, err = r.store.Get(ctx, ReplyKey(threadID, id), &reply)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.ErrReplyNotFound
	}
	return &reply, nil
}

// Save writes the reply and its index entry
func (r *ReplyRepository) Save(ctx context.Context, reply *models.Reply) error {
	if err := r.store.Set(ctx, ReplyKey(reply.ThreadID, reply.ID), reply); err != nil {
		return err
	}
	return r.store.Set(ctx, ReplyIndexKey(reply.ID), reply.ThreadID)
}

// Delete removes the reply and its index entry
func (r *ReplyRepository) Delete(ctx context.Context, reply *models.Reply) error {
	return r.store.Delete(ctx, ReplyKey(reply.ThreadID, reply.ID), ReplyIndexKey(reply.ID))
}

// ListByThread returns the replies of a thread, oldest first
func (r *ReplyRepository) ListByThread(ctx context.Context, threadID string) ([]*models.Reply, error) {
	replies, err := kvstore.ScanAll[*models.Reply](ctx, r.store, RepliesPrefix(threadID))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(replies, func(i, j int) bool {
		return replies[i].Timestamp.Before(replies[j].Timestamp)
	})
	return replies, nil
}

// ListAll returns every reply of every thread
func (r *ReplyRepository) ListAll(ctx context.Context) ([]*models.Reply, error) {
	return kvstore.ScanAll[*models.Reply](ctx, r.store, replyPrefix)
}
