package dto

import "github.com/emblabrowall/donosti-guide/internal/app/models"

// TrackSearchRequest records a search query. A blank query is ignored.
type TrackSearchRequest struct {
	Query string `json:"query" binding:"max=200" example:"pintxos"`
}

// AnalyticsResponse wraps the analytics singleton
type AnalyticsResponse struct {
	Analytics *models.Analytics `json:"analytics"`
}

// LeaderboardResponse lists the top contributors
type LeaderboardResponse struct {
	Contributors []models.Contributor `json:"contributors"`
}
