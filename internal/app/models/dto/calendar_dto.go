package dto

import "github.com/emblabrowall/donosti-guide/internal/app/models"

// CreateEventRequest adds a calendar event
type CreateEventRequest struct {
	Title string `json:"title" binding:"required,notblank,max=200" example:"Tamborrada"`
	Date  string `json:"date" binding:"required,datetime=2006-01-02" example:"2026-01-20"`
	Time  string `json:"time" binding:"max=20" example:"00:00"`
	Place string `json:"place" binding:"max=200" example:"Plaza de la Constitución"`
	Info  string `json:"info" binding:"max=5000" example:"Drums all night."`
}

// EventResponse wraps one event
type EventResponse struct {
	Success bool          `json:"success" example:"true"`
	Event   *models.Event `json:"event"`
}

// EventsResponse lists events
type EventsResponse struct {
	Events []*models.Event `json:"events"`
}

// CalendarEntriesResponse lists the entries of a day or the upcoming ones
type CalendarEntriesResponse struct {
	Entries []models.CalendarEntry `json:"entries"`
}

// CalendarMonthResponse lists the days of a month that have entries
type CalendarMonthResponse struct {
	Month string               `json:"month" example:"2026-01"`
	Days  []models.CalendarDay `json:"days"`
}
