package repositories

import (
	"context"

	"github.com/emblabrowall/donosti-guide/internal/pkg/kvstore"
)

// Repositories holds all the repository instances bound to one store handle
type Repositories struct {
	store kvstore.Store

	PostRepository      *PostRepository
	CommentRepository   *CommentRepository
	ThreadRepository    *ThreadRepository
	ReplyRepository     *ReplyRepository
	MarkerRepository    *MarkerRepository
	ProfileRepository   *ProfileRepository
	EventRepository     *EventRepository
	AnalyticsRepository *AnalyticsRepository
	SettingsRepository  *SettingsRepository
}

// NewRepositories initializes all repositories
func NewRepositories(store kvstore.Store) *Repositories {
	return &Repositories{
		store:               store,
		PostRepository:      NewPostRepository(store),
		CommentRepository:   NewCommentRepository(store),
		ThreadRepository:    NewThreadRepository(store),
		ReplyRepository:     NewReplyRepository(store),
		MarkerRepository:    NewMarkerRepository(store),
		ProfileRepository:   NewProfileRepository(store),
		EventRepository:     NewEventRepository(store),
		AnalyticsRepository: NewAnalyticsRepository(store),
		SettingsRepository:  NewSettingsRepository(store),
	}
}

// Store returns the underlying store handle
func (r *Repositories) Store() kvstore.Store {
	return r.store
}

// Tx runs fn with repositories bound to one store transaction. Calls made
// on an already transactional set join the outer transaction.
func (r *Repositories) Tx(ctx context.Context, fn func(ctx context.Context, tx *Repositories) error) error {
	return r.store.Tx(ctx, func(ctx context.Context, s kvstore.Store) error {
		return fn(ctx, NewRepositories(s))
	})
}
