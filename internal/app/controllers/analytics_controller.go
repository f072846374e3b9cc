package controllers

import (
	"net/http"

	"github.com/emblabrowall/donosti-guide/internal/app/models/dto"
	"github.com/emblabrowall/donosti-guide/internal/app/services"
	"github.com/emblabrowall/donosti-guide/internal/middleware"
	"github.com/emblabrowall/donosti-guide/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AnalyticsController handles usage analytics and the leaderboard
type AnalyticsController struct {
	analyticsService   services.AnalyticsService
	leaderboardService services.LeaderboardService
	logger             zerolog.Logger
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(
	analyticsService services.AnalyticsService,
	leaderboardService services.LeaderboardService,
	logger zerolog.Logger,
) *AnalyticsController {
	return &AnalyticsController{
		analyticsService:   analyticsService,
		leaderboardService: leaderboardService,
		logger:             logger,
	}
}

// GetAnalytics handles reading the usage counters
// @Summary Get analytics
// @Tags analytics
// @Produce json
// @Success 200 {object} dto.AnalyticsResponse "Analytics"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /analytics [get]
func (c *AnalyticsController) GetAnalytics(ctx *gin.Context) {
	analytics, err := c.analyticsService.GetAnalytics(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to fetch analytics")
		return
	}
	ctx.JSON(http.StatusOK, dto.AnalyticsResponse{Analytics: analytics})
}

// TrackSearch handles recording a search query. Tracking is best effort:
// the caller always gets a success.
// @Summary Track a search
// @Tags analytics
// @Accept json
// @Produce json
// @Param request body dto.TrackSearchRequest true "Query"
// @Success 200 {object} dto.SuccessResponse "Tracked"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /track-search [post]
func (c *AnalyticsController) TrackSearch(ctx *gin.Context) {
	var req dto.TrackSearchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Debug().Err(err).Msg("Ignoring malformed track-search body")
		ctx.JSON(http.StatusOK, dto.OK)
		return
	}

	c.analyticsService.TrackSearch(ctx.Request.Context(), req.Query)
	ctx.JSON(http.StatusOK, dto.OK)
}

// Leaderboard handles ranking contributors
// @Summary Contributor leaderboard
// @Description Score = 5 per post + 1 per comment + 3 per thread + 2 per reply + 2 per upvote received (default weights)
// @Tags analytics
// @Produce json
// @Param limit query int false "Number of contributors" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.LeaderboardResponse "Top contributors"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /leaderboard [get]
func (c *AnalyticsController) Leaderboard(ctx *gin.Context) {
	contributors, err := c.leaderboardService.Leaderboard(ctx.Request.Context(), helpers.ParseLimitParam(ctx, 0))
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to compute leaderboard")
		return
	}
	ctx.JSON(http.StatusOK, dto.LeaderboardResponse{Contributors: contributors})
}
