package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/emblabrowall/donosti-guide/internal/app/auth"
	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/app/models/dto"
	"github.com/emblabrowall/donosti-guide/internal/app/repositories"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/emblabrowall/donosti-guide/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// CalendarService manages events and projects events and trip dates onto
// calendar days
type CalendarService interface {
	CreateEvent(ctx context.Context, actor *models.Actor, req *dto.CreateEventRequest, loc *time.Location) (*models.Event, error)
	ListEvents(ctx context.Context) ([]*models.Event, error)
	DeleteEvent(ctx context.Context, actor *models.Actor, id string) error

	EventsOn(ctx context.Context, day string) ([]models.CalendarEntry, error)
	DaysWithEvents(ctx context.Context, month string) ([]models.CalendarDay, error)
	Upcoming(ctx context.Context, loc *time.Location, limit int) ([]models.CalendarEntry, error)
}

type calendarServiceImpl struct {
	repos  *repositories.Repositories
	authz  *auth.AuthorizationService
	clock  Clock
	logger zerolog.Logger
}

// NewCalendarService creates a new calendar service instance
func NewCalendarService(repos *repositories.Repositories, authz *auth.AuthorizationService, clock Clock, logger zerolog.Logger) CalendarService {
	return &calendarServiceImpl{
		repos:  repos,
		authz:  authz,
		clock:  clock,
		logger: logger,
	}
}

// CreateEvent adds an event dated today or later in the viewer's zone
func (s *calendarServiceImpl) CreateEvent(ctx context.Context, actor *models.Actor, req *dto.CreateEventRequest, loc *time.Location) (*models.Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required")
	}
	day, ok := helpers.DateKey(req.Date)
	if !ok {
		return nil, apperrors.NewValidationError("date must be formatted as YYYY-MM-DD")
	}

	now := s.clock.now()
	if day < helpers.TodayKey(now, loc) {
		return nil, apperrors.NewValidationError("date cannot be in the past")
	}

	event := &models.Event{
		ID:         helpers.NewIDAt("event", now),
		Title:      title,
		Date:       day,
		Time:       strings.TrimSpace(req.Time),
		Place:      strings.TrimSpace(req.Place),
		Info:       strings.TrimSpace(req.Info),
		AuthorID:   actor.ID,
		AuthorName: authorName(actor),
		Verified:   actor.Verified,
		Timestamp:  now,
	}
	if err := s.repos.EventRepository.Save(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *calendarServiceImpl) ListEvents(ctx context.Context) ([]*models.Event, error) {
	return s.repos.EventRepository.List(ctx)
}

func (s *calendarServiceImpl) DeleteEvent(ctx context.Context, actor *models.Actor, id string) error {
	event, err := s.repos.EventRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.CanDelete(actor, event.AuthorID, auth.ResourceEvent); err != nil {
		return err
	}
	return s.repos.EventRepository.Delete(ctx, id)
}

func (s *calendarServiceImpl) entries(ctx context.Context) ([]models.CalendarEntry, error) {
	events, err := s.repos.EventRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	trips, err := s.repos.PostRepository.List(ctx, models.CategoryTrips)
	if err != nil {
		return nil, err
	}
	return ProjectCalendar(events, trips), nil
}

// EventsOn returns the entries of one YYYY-MM-DD day
func (s *calendarServiceImpl) EventsOn(ctx context.Context, day string) ([]models.CalendarEntry, error) {
	if _, err := helpers.ParseDay(day); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	all, err := s.entries(ctx)
	if err != nil {
		return nil, err
	}
	return EntriesOn(all, day), nil
}

// DaysWithEvents returns the days of a YYYY-MM month that have entries
func (s *calendarServiceImpl) DaysWithEvents(ctx context.Context, month string) ([]models.CalendarDay, error) {
	if _, err := helpers.ParseMonth(month); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	all, err := s.entries(ctx)
	if err != nil {
		return nil, err
	}
	return DaysInMonth(all, month), nil
}

// Upcoming returns the next limit entries from today in the viewer's zone
func (s *calendarServiceImpl) Upcoming(ctx context.Context, loc *time.Location, limit int) ([]models.CalendarEntry, error) {
	all, err := s.entries(ctx)
	if err != nil {
		return nil, err
	}
	return UpcomingFrom(all, helpers.TodayKey(s.clock.now(), loc), limit), nil
}

// ProjectCalendar expands events and trip posts into one entry per date,
// sorted by date, then title, then source id. Dates that do not parse are
// skipped.
func ProjectCalendar(events []*models.Event, trips []*models.Post) []models.CalendarEntry {
	var out []models.CalendarEntry

	for _, e := range events {
		day, ok := helpers.DateKey(e.Date)
		if !ok {
			continue
		}
		out = append(out, models.CalendarEntry{
			Date:       day,
			Source:     models.SourceEvent,
			SourceID:   e.ID,
			Title:      e.Title,
			Info:       e.Info,
			Time:       e.Time,
			Place:      e.Place,
			AuthorID:   e.AuthorID,
			AuthorName: e.AuthorName,
			Verified:   e.Verified,
		})
	}

	for _, p := range trips {
		trip, ok := p.Trip()
		if !ok {
			continue
		}
		seen := make(map[string]bool, len(trip.TripDates))
		for _, raw := range trip.TripDates {
			day, ok := helpers.DateKey(raw)
			if !ok || seen[day] {
				continue
			}
			seen[day] = true
			out = append(out, models.CalendarEntry{
				Date:       day,
				Source:     models.SourceTrip,
				SourceID:   p.ID,
				Title:      p.Title,
				Info:       p.Content,
				Place:      trip.CityName,
				AuthorID:   p.AuthorID,
				AuthorName: p.AuthorName,
				Verified:   p.Verified,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.SourceID < b.SourceID
	})
	return out
}

// EntriesOn filters sorted entries to one day
func EntriesOn(entries []models.CalendarEntry, day string) []models.CalendarEntry {
	out := make([]models.CalendarEntry, 0)
	for _, e := range entries {
		if e.Date == day {
			out = append(out, e)
		}
	}
	return out
}

// DaysInMonth groups the sorted entries of a YYYY-MM month by day
func DaysInMonth(entries []models.CalendarEntry, month string) []models.CalendarDay {
	days := make([]models.CalendarDay, 0)
	prefix := month + "-"
	for _, e := range entries {
		if !strings.HasPrefix(e.Date, prefix) {
			continue
		}
		if n := len(days); n > 0 && days[n-1].Date == e.Date {
			days[n-1].Entries = append(days[n-1].Entries, e)
			continue
		}
		days = append(days, models.CalendarDay{Date: e.Date, Entries: []models.CalendarEntry{e}})
	}
	return days
}

// UpcomingFrom returns the first limit sorted entries dated today or later
func UpcomingFrom(entries []models.CalendarEntry, today string, limit int) []models.CalendarEntry {
	out := make([]models.CalendarEntry, 0)
	for _, e := range entries {
		if e.Date < today {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
