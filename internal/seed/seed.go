package seed

import (
	"context"
	"errors"

	appRepos "github.com/emblabrowall/donosti-guide/internal/app/repositories"
	"github.com/rs/zerolog"
)

// CreateDefaultData writes the verification code list and the analytics
// singleton when they are absent. Existing values are never overwritten.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, verificationCodes []string, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (verification codes, analytics)...")
	var finalErr error

	created, err := repos.SettingsRepository.EnsureVerificationCodes(ctx, verificationCodes)
	if err != nil {
		lgr.Error().Err(err).Msg("Error seeding verification codes")
		finalErr = errors.Join(finalErr, err)
	} else if created {
		lgr.Info().Int("count", len(verificationCodes)).Msg("Seeded verification codes")
	}

	created, err = repos.AnalyticsRepository.EnsureExists(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error seeding analytics")
		finalErr = errors.Join(finalErr, err)
	} else if created {
		lgr.Info().Msg("Seeded analytics counters")
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check complete")
	}
	return finalErr
}
