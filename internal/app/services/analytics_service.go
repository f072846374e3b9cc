package services

import (
	"context"
	"strings"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/app/repositories"
	"github.com/rs/zerolog"
)

// AnalyticsService exposes the site counters
type AnalyticsService interface {
	GetAnalytics(ctx context.Context) (*models.Analytics, error)
	TrackSearch(ctx context.Context, query string)
}

type analyticsServiceImpl struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
}

// NewAnalyticsService creates a new analytics service instance
func NewAnalyticsService(repos *repositories.Repositories, logger zerolog.Logger) AnalyticsService {
	return &analyticsServiceImpl{repos: repos, logger: logger}
}

func (s *analyticsServiceImpl) GetAnalytics(ctx context.Context) (*models.Analytics, error) {
	return s.repos.AnalyticsRepository.Get(ctx)
}

// TrackSearch counts a search query, case-insensitively. Tracking is best
// effort: blank queries are ignored and failures are only logged.
func (s *analyticsServiceImpl) TrackSearch(ctx context.Context, query string) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return
	}
	err := s.repos.AnalyticsRepository.Update(ctx, func(a *models.Analytics) {
		a.TopSearches[query]++
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("Failed to track search")
	}
}
