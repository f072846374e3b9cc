package repositories

import (
	"context"
	"sort"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/emblabrowall/donosti-guide/internal/pkg/kvstore"
)

// CommentRepository handles comments, stored under their post's prefix
type CommentRepository struct {
	store kvstore.Store
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(store kvstore.Store) *CommentRepository {
	return &CommentRepository{store: store}
}

// GetByID returns a comment of a post or ErrCommentNotFound
func (r *CommentRepository) GetByID(ctx context.Context, postID, id string) (*models.Comment, error) {
	var comment models.Comment
	found, err := r.store.Get(ctx, CommentKey(postID, id), &comment)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.ErrCommentNotFound
	}
	return &comment, nil
}

// Save creates or replaces a comment
func (r *CommentRepository) Save(ctx context.Context, comment *models.Comment) error {
	return r.store.Set(ctx, CommentKey(comment.PostID, comment.ID), comment)
}

// Delete removes one comment
func (r *CommentRepository) Delete(ctx context.Context, postID, id string) error {
	return r.store.Delete(ctx, CommentKey(postID, id))
}

// ListByPost returns the comments of a post, oldest first
func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	comments, err := kvstore.ScanAll[*models.Comment](ctx, r.store, CommentsPrefix(postID))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Timestamp.Before(comments[j].Timestamp)
	})
	return comments, nil
}

// CountByPost counts the comments of a post without decoding them
func (r *CommentRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	entries, err := r.store.Scan(ctx, CommentsPrefix(postID))
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// DeleteByPost removes every comment of a post
func (r *CommentRepository) DeleteByPost(ctx context.Context, postID string) error {
	entries, err := r.store.Scan(ctx, CommentsPrefix(postID))
	if err != nil {
		return err
	}
	return r.store.Delete(ctx, kvstore.Keys(entries)...)
}

// ListAll returns every comment of every post
func (r *CommentRepository) ListAll(ctx context.Context) ([]*models.Comment, error) {
	return kvstore.ScanAll[*models.Comment](ctx, r.store, commentPrefix)
}
