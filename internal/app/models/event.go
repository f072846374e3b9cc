package models

import "time"

// Event is a dedicated calendar entry
type Event struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Date       string    `json:"date"`
	Time       string    `json:"time,omitempty"`
	Place      string    `json:"place,omitempty"`
	Info       string    `json:"info,omitempty"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Verified   bool      `json:"verified"`
	Timestamp  time.Time `json:"timestamp"`
}

// CalendarSource tells where a calendar entry comes from
type CalendarSource string

const (
	SourceEvent CalendarSource = "event"
	SourceTrip  CalendarSource = "trip"
)

// CalendarEntry is one dated item of the calendar projection
type CalendarEntry struct {
	Date       string         `json:"date"`
	Source     CalendarSource `json:"source"`
	SourceID   string         `json:"sourceId"`
	Title      string         `json:"title"`
	Info       string         `json:"info,omitempty"`
	Time       string         `json:"time,omitempty"`
	Place      string         `json:"place,omitempty"`
	AuthorID   string         `json:"authorId"`
	AuthorName string         `json:"authorName"`
	Verified   bool           `json:"verified"`
}

// CalendarDay groups the entries of one date
type CalendarDay struct {
	Date    string          `json:"date"`
	Entries []CalendarEntry `json:"entries"`
}
