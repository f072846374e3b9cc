package repositories

import (
	"context"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/pkg/kvstore"
)

// AnalyticsRepository handles the analytics singleton
type AnalyticsRepository struct {
	store kvstore.Store
}

// NewAnalyticsRepository creates a new AnalyticsRepository
func NewAnalyticsRepository(store kvstore.Store) *AnalyticsRepository {
	return &AnalyticsRepository{store: store}
}

// Get returns the stored analytics, or zero counters when none are stored
func (r *AnalyticsRepository) Get(ctx context.Context) (*models.Analytics, error) {
	var a models.Analytics
	if _, err := r.store.Get(ctx, AnalyticsKey, &a); err != nil {
		return nil, err
	}
	if a.TopSearches == nil {
		a.TopSearches = make(map[string]int)
	}
	return &a, nil
}

// Update applies fn to the singleton inside a store transaction
func (r *AnalyticsRepository) Update(ctx context.Context, fn func(a *models.Analytics)) error {
	return r.store.Tx(ctx, func(ctx context.Context, tx kvstore.Store) error {
		txRepo := NewAnalyticsRepository(tx)
		a, err := txRepo.Get(ctx)
		if err != nil {
			return err
		}
		fn(a)
		return tx.Set(ctx, AnalyticsKey, a)
	})
}

// EnsureExists stores zero counters when the singleton is absent
func (r *AnalyticsRepository) EnsureExists(ctx context.Context) (created bool, err error) {
	err = r.store.Tx(ctx, func(ctx context.Context, tx kvstore.Store) error {
		var existing models.Analytics
		found, err := tx.Get(ctx, AnalyticsKey, &existing)
		if err != nil || found {
			return err
		}
		created = true
		return tx.Set(ctx, AnalyticsKey, models.Analytics{TopSearches: map[string]int{}})
	})
	return created, err
}
