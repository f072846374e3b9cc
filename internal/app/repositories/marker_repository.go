package repositories

import (
	"context"
	"strings"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/pkg/kvstore"
)

// MarkerRepository handles the presence-only upvote and report markers
type MarkerRepository struct {
	store kvstore.Store
}

// NewMarkerRepository creates a new MarkerRepository
func NewMarkerRepository(store kvstore.Store) *MarkerRepository {
	return &MarkerRepository{store: store}
}

func (r *MarkerRepository) exists(ctx context.Context, key string) (bool, error) {
	var present bool
	return r.store.Get(ctx, key, &present)
}

// HasUpvoted reports whether userID holds an upvote on the entity
func (r *MarkerRepository) HasUpvoted(ctx context.Context, kind models.EntityKind, entityID, userID string) (bool, error) {
	return r.exists(ctx, UpvoteKey(kind, entityID, userID))
}

// PutUpvote records userID's upvote
func (r *MarkerRepository) PutUpvote(ctx context.Context, kind models.EntityKind, entityID, userID string) error {
	return r.store.Set(ctx, UpvoteKey(kind, entityID, userID), true)
}

// RemoveUpvote withdraws userID's upvote
func (r *MarkerRepository) RemoveUpvote(ctx context.Context, kind models.EntityKind, entityID, userID string) error {
	return r.store.Delete(ctx, UpvoteKey(kind, entityID, userID))
}

// CountUpvotes counts the markers held on an entity
func (r *MarkerRepository) CountUpvotes(ctx context.Context, kind models.EntityKind, entityID string) (int, error) {
	entries, err := r.store.Scan(ctx, UpvotesPrefix(kind, entityID))
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// ClearUpvotes removes every upvote marker of an entity
func (r *MarkerRepository) ClearUpvotes(ctx context.Context, kind models.EntityKind, entityID string) error {
	return r.clear(ctx, UpvotesPrefix(kind, entityID))
}

// HasReported reports whether userID already reported the post
func (r *MarkerRepository) HasReported(ctx context.Context, postID, userID string) (bool, error) {
	return r.exists(ctx, ReportKey(postID, userID))
}

// PutReport records userID's report on a post
func (r *MarkerRepository) PutReport(ctx context.Context, postID, userID string) error {
	return r.store.Set(ctx, ReportKey(postID, userID), true)
}

// ClearReports removes every report marker of a post
func (r *MarkerRepository) ClearReports(ctx context.Context, postID string) error {
	return r.clear(ctx, ReportsPrefix(postID))
}

// HeldMarker is one upvote or report marker held by a user. Kind is empty
// for a report.
type HeldMarker struct {
	Kind     models.EntityKind
	EntityID string
}

// IsReport tells a report marker from an upvote marker
func (m HeldMarker) IsReport() bool { return m.Kind == "" }

// ListByUser returns every marker userID holds on any entity
func (r *MarkerRepository) ListByUser(ctx context.Context, userID string) ([]HeldMarker, error) {
	var held []HeldMarker
	collect := func(kind models.EntityKind, prefix string) error {
		entries, err := r.store.Scan(ctx, prefix)
		if err != nil {
			return err
		}
		suffix := ":" + userID
		for _, e := range entries {
			rest := e.Suffix(prefix)
			if !strings.HasSuffix(rest, suffix) {
				continue
			}
			held = append(held, HeldMarker{Kind: kind, EntityID: strings.TrimSuffix(rest, suffix)})
		}
		return nil
	}

	for _, kind := range []models.EntityKind{models.EntityPost, models.EntityThread, models.EntityReply} {
		if err := collect(kind, upvotePrefixes[kind]); err != nil {
			return nil, err
		}
	}
	if err := collect("", reportPrefix); err != nil {
		return nil, err
	}
	return held, nil
}

// RemoveReport withdraws userID's report on a post
func (r *MarkerRepository) RemoveReport(ctx context.Context, postID, userID string) error {
	return r.store.Delete(ctx, ReportKey(postID, userID))
}

func (r *MarkerRepository) clear(ctx context.Context, prefix string) error {
	entries, err := r.store.Scan(ctx, prefix)
	if err != nil {
		return err
	}
	return r.store.Delete(ctx, kvstore.Keys(entries)...)
}
