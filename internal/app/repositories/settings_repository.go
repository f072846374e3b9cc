package repositories

import (
	"context"

	"github.com/emblabrowall/donosti-guide/internal/pkg/kvstore"
)

// SettingsRepository handles the verification-codes singleton
type SettingsRepository struct {
	store kvstore.Store
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(store kvstore.Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// VerificationCodes returns the codes that grant the verified flag
func (r *SettingsRepository) VerificationCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if _, err := r.store.Get(ctx, VerificationCodesKey, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// SetVerificationCodes replaces the stored codes
func (r *SettingsRepository) SetVerificationCodes(ctx context.Context, codes []string) error {
	return r.store.Set(ctx, VerificationCodesKey, codes)
}

// EnsureVerificationCodes stores codes only when none are stored yet
func (r *SettingsRepository) EnsureVerificationCodes(ctx context.Context, codes []string) (created bool, err error) {
	err = r.store.Tx(ctx, func(ctx context.Context, tx kvstore.Store) error {
		var existing []string
		found, err := tx.Get(ctx, VerificationCodesKey, &existing)
		if err != nil || found {
			return err
		}
		created = true
		return tx.Set(ctx, VerificationCodesKey, codes)
	})
	return created, err
}
