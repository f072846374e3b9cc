package controllers

import (
	"net/http"
	"time"

	"github.com/emblabrowall/donosti-guide/internal/app/models/dto"
	"github.com/emblabrowall/donosti-guide/internal/app/services"
	"github.com/emblabrowall/donosti-guide/internal/middleware"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/emblabrowall/donosti-guide/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
)

const defaultUpcomingLimit = 5

// CalendarController handles events and the calendar views
type CalendarController struct {
	calendarService services.CalendarService
}

// NewCalendarController creates a new CalendarController
func NewCalendarController(calendarService services.CalendarService) *CalendarController {
	return &CalendarController{calendarService: calendarService}
}

// viewerLocation reads the ?tz= IANA zone of the caller, UTC by default
func viewerLocation(ctx *gin.Context) (*time.Location, bool) {
	loc, err := helpers.LoadViewerLocation(ctx.Query("tz"))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(err.Error()), "Invalid time zone")
		return nil, false
	}
	return loc, true
}

// CreateEvent handles adding a calendar event
// @Summary Create an event
// @Description The date may not lie before today in the caller's time zone
// @Tags calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tz query string false "IANA time zone of the caller" default(UTC)
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} dto.EventResponse "Event created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events [post]
func (c *CalendarController) CreateEvent(ctx *gin.Context) {
	actor, err := middleware.MustActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Unauthorized")
		return
	}

	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	loc, ok := viewerLocation(ctx)
	if !ok {
		return
	}

	event, err := c.calendarService.CreateEvent(ctx.Request.Context(), actor, &req, loc)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to create event")
		return
	}
	ctx.JSON(http.StatusCreated, dto.EventResponse{Success: true, Event: event})
}

// ListEvents handles listing events by date
// @Summary List events
// @Tags calendar
// @Produce json
// @Success 200 {object} dto.EventsResponse "Events"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events [get]
func (c *CalendarController) ListEvents(ctx *gin.Context) {
	events, err := c.calendarService.ListEvents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to fetch events")
		return
	}
	ctx.JSON(http.StatusOK, dto.EventsResponse{Events: events})
}

// DeleteEvent handles deleting an event
// @Summary Delete an event
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.SuccessResponse "Event deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id} [delete]
func (c *CalendarController) DeleteEvent(ctx *gin.Context) {
	actor, err := middleware.MustActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Unauthorized")
		return
	}

	if err := c.calendarService.DeleteEvent(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to delete event")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK)
}

// Day handles the entries of one day
// @Summary Calendar entries of a day
// @Tags calendar
// @Produce json
// @Param date path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} dto.CalendarEntriesResponse "Entries"
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /calendar/days/{date} [get]
func (c *CalendarController) Day(ctx *gin.Context) {
	entries, err := c.calendarService.EventsOn(ctx.Request.Context(), ctx.Param("date"))
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to fetch calendar")
		return
	}
	ctx.JSON(http.StatusOK, dto.CalendarEntriesResponse{Entries: entries})
}

// Month handles the days of a month that have entries
// @Summary Calendar days of a month
// @Tags calendar
// @Produce json
// @Param month path string true "Month (YYYY-MM)"
// @Success 200 {object} dto.CalendarMonthResponse "Days with entries"
// @Failure 400 {object} dto.ErrorResponse "Invalid month"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /calendar/months/{month} [get]
func (c *CalendarController) Month(ctx *gin.Context) {
	month := ctx.Param("month")
	days, err := c.calendarService.DaysWithEvents(ctx.Request.Context(), month)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to fetch calendar")
		return
	}
	ctx.JSON(http.StatusOK, dto.CalendarMonthResponse{Month: month, Days: days})
}

// Upcoming handles the next entries from today
// @Summary Upcoming calendar entries
// @Tags calendar
// @Produce json
// @Param limit query int false "Number of entries" default(5) minimum(1) maximum(100)
// @Param tz query string false "IANA time zone of the caller" default(UTC)
// @Success 200 {object} dto.CalendarEntriesResponse "Entries"
// @Failure 400 {object} dto.ErrorResponse "Invalid time zone"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /calendar/upcoming [get]
func (c *CalendarController) Upcoming(ctx *gin.Context) {
	loc, ok := viewerLocation(ctx)
	if !ok {
		return
	}

	limit := helpers.ParseLimitParam(ctx, defaultUpcomingLimit)
	entries, err := c.calendarService.Upcoming(ctx.Request.Context(), loc, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to fetch calendar")
		return
	}
	ctx.JSON(http.StatusOK, dto.CalendarEntriesResponse{Entries: entries})
}
