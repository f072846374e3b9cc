package repositories

import (
	"context"
	"sort"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/emblabrowall/donosti-guide/internal/pkg/kvstore"
)

// ThreadRepository handles forum threads
type ThreadRepository struct {
	store kvstore.Store
}

// NewThreadRepository creates a new ThreadRepository
func NewThreadRepository(store kvstore.Store) *ThreadRepository {
	return &ThreadRepository{store: store}
}

// GetByID returns the thread or ErrThreadNotFound
func (r *ThreadRepository) GetByID(ctx context.Context, id string) (*models.Thread, error) {
	var thread models.Thread
	found, err := r.store.Get(ctx, ThreadKey(id), &thread)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.ErrThreadNotFound
	}
	return &thread, nil
}

// Save creates or replaces a thread
func (r *ThreadRepository) Save(ctx context.Context, thread *models.Thread) error {
	return r.store.Set(ctx, ThreadKey(thread.ID), thread)
}

// Delete removes the thread record only
func (r *ThreadRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, ThreadKey(id))
}

// List returns the threads of a category, or all of them, most recently
// active first
func (r *ThreadRepository) List(ctx context.Context, category models.ThreadCategory) ([]*models.Thread, error) {
	all, err := kvstore.ScanAll[*models.Thread](ctx, r.store, threadPrefix)
	if err != nil {
		return nil, err
	}

	threads := all[:0]
	for _, t := range all {
		if category == "" || t.Category == category {
			threads = append(threads, t)
		}
	}
	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].LastActivity.After(threads[j].LastActivity)
	})
	return threads, nil
}
