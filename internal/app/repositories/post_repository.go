package repositories

import (
	"context"
	"sort"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/emblabrowall/donosti-guide/internal/pkg/kvstore"
)

// PostRepository handles post records
type PostRepository struct {
	store kvstore.Store
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(store kvstore.Store) *PostRepository {
	return &PostRepository{store: store}
}

// GetByID returns the post or ErrPostNotFound
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	found, err := r.store.Get(ctx, PostKey(id), &post)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.ErrPostNotFound
	}
	return &post, nil
}

// Save creates or replaces a post
func (r *PostRepository) Save(ctx context.Context, post *models.Post) error {
	return r.store.Set(ctx, PostKey(post.ID), post)
}

// Delete removes a post record only; children are removed by the caller
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, PostKey(id))
}

// List returns the posts of a category, or all posts when category is
// empty, newest first
func (r *PostRepository) List(ctx context.Context, category models.Category) ([]*models.Post, error) {
	all, err := kvstore.ScanAll[*models.Post](ctx, r.store, postPrefix)
	if err != nil {
		return nil, err
	}

	posts := all[:0]
	for _, p := range all {
		if category == "" || p.Category == category {
			posts = append(posts, p)
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp.After(posts[j].Timestamp)
	})
	return posts, nil
}

// ListByAuthor returns every post written by authorID
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	all, err := r.List(ctx, "")
	if err != nil {
		return nil, err
	}
	owned := all[:0]
	for _, p := range all {
		if p.AuthorID == authorID {
			owned = append(owned, p)
		}
	}
	return owned, nil
}
