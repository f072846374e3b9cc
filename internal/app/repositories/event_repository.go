package repositories

import (
	"context"
	"sort"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/emblabrowall/donosti-guide/internal/pkg/kvstore"
)

// EventRepository handles calendar events
type EventRepository struct {
	store kvstore.Store
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(store kvstore.Store) *EventRepository {
	return &EventRepository{store: store}
}

// GetByID returns the event or ErrEventNotFound
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	found, err := r.store.Get(ctx, EventKey(id), &event)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.ErrEventNotFound
	}
	return &event, nil
}

// Save creates or replaces an event
func (r *EventRepository) Save(ctx context.Context, event *models.Event) error {
	return r.store.Set(ctx, EventKey(event.ID), event)
}

// Delete removes an event
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, EventKey(id))
}

// List returns every event ordered by date, then time
func (r *EventRepository) List(ctx context.Context) ([]*models.Event, error) {
	events, err := kvstore.ScanAll[*models.Event](ctx, r.store, eventPrefix)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].Time < events[j].Time
	})
	return events, nil
}
