package repositories

import (
	"context"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/pkg/kvstore"
)

// ProfileRepository handles the locally owned part of an account
type ProfileRepository struct {
	store kvstore.Store
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(store kvstore.Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

// GetByID returns the profile of userID; a missing profile is not an error
// and yields found=false.
func (r *ProfileRepository) GetByID(ctx context.Context, userID string) (*models.Profile, bool, error) {
	var profile models.Profile
	found, err := r.store.Get(ctx, ProfileKey(userID), &profile)
	if err != nil || !found {
		return nil, false, err
	}
	if profile.ID == "" {
		profile.ID = userID
	}
	return &profile, true, nil
}

// Save creates or replaces a profile
func (r *ProfileRepository) Save(ctx context.Context, profile *models.Profile) error {
	return r.store.Set(ctx, ProfileKey(profile.ID), profile)
}

// Delete removes a profile
func (r *ProfileRepository) Delete(ctx context.Context, userID string) error {
	return r.store.Delete(ctx, ProfileKey(userID))
}

// ListAll returns every stored profile keyed by user id
func (r *ProfileRepository) ListAll(ctx context.Context) (map[string]*models.Profile, error) {
	entries, err := r.store.Scan(ctx, profilePrefix)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*models.Profile, len(entries))
	for _, e := range entries {
		var p models.Profile
		if err := e.Decode(&p); err != nil {
			return nil, err
		}
		id := e.Suffix(profilePrefix)
		if p.ID == "" {
			p.ID = id
		}
		out[id] = &p
	}
	return out, nil
}
