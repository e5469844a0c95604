package calendar

import (
	"context"
	"errors"
	"time"

	"bookline/models"
)

// ErrEventGone signals a delete against an event that no longer exists on the
// calendar. Cancellation treats it as success.
var ErrEventGone = errors.New("calendar event already gone")

// Event is the payload for a calendar insert.
type Event struct {
	Summary     string
	Description string
	Start       time.Time // UTC
	End         time.Time // UTC
	Timezone    string
}

// BusySource answers busy-interval queries for one or more calendars in a
// single call.
type BusySource interface {
	BusyIntervals(ctx context.Context, calendarIDs []string, start, end time.Time) (map[string][]models.BusyInterval, error)
}

// EventSink creates and deletes calendar events.
type EventSink interface {
	CreateEvent(ctx context.Context, calendarID string, ev Event) (string, error)
	// DeleteEvent returns ErrEventGone when the event was already removed.
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}
