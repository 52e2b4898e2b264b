package model

import (
	"fmt"
	"time"

	"github.com/smirnovds/townsquare/internal/common"
)

// Event is a scheduled community event. EventTime is a free-form
// time-of-day label ("18:30", "evening"); the temporal partition
// (past vs. upcoming) is derived from EventDate, never stored.
type Event struct {
	ID          string
	Title       string
	Description string
	EventDate   time.Time
	EventTime   string
	Location    string
	ImageURL    string
	AuthorID    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsUpcoming reports whether the event is today or later relative to now.
func (e *Event) IsUpcoming(now time.Time) bool {
	return !e.EventDate.Before(startOfDay(now))
}

// EventInput carries the client-supplied fields for creating or updating
// an event.
type EventInput struct {
	Title       string
	Description string
	EventDate   time.Time
	EventTime   string
	Location    string
	Image       *ImageBlob
}

// Validate checks required fields and rejects event dates strictly before
// today. It runs before any image upload or row write is attempted.
func (in *EventInput) Validate(now time.Time) error {
	if in.Title == "" {
		return errRequired("title")
	}
	if in.Description == "" {
		return errRequired("description")
	}
	if in.Location == "" {
		return errRequired("location")
	}
	if in.EventDate.IsZero() {
		return errRequired("event date")
	}
	if in.EventDate.Before(startOfDay(now)) {
		return fmt.Errorf("%w: event date cannot be in the past", common.ErrorValidation)
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func errRequired(field string) error {
	return fmt.Errorf("%w: %s is required", common.ErrorValidation, field)
}
