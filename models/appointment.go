package models

import "time"

// Appointment statuses.
const (
	StatusBooked    = "booked"
	StatusCompleted = "completed"
)

// Booking sources.
const (
	SourceAgent     = "agent"
	SourceTestDrive = "testdrive"
)

// Appointment is the persisted booking record. The idempotency key
// (business + source + start instant + normalized name) makes retried identical
// requests non-duplicating; EventID is attached after the calendar event exists.
type Appointment struct {
	ID             string    `bson:"id" json:"id"`
	BusinessID     string    `bson:"businessId" json:"businessId"`
	VehicleID      string    `bson:"vehicleId,omitempty" json:"vehicleId,omitempty"`
	CustomerName   string    `bson:"customerName" json:"customerName"`
	CustomerEmail  string    `bson:"customerEmail,omitempty" json:"customerEmail,omitempty"`
	CustomerPhone  string    `bson:"customerPhone,omitempty" json:"customerPhone,omitempty"`
	Start          time.Time `bson:"start" json:"start"` // UTC
	End            time.Time `bson:"end" json:"end"`     // UTC
	LocalStart     string    `bson:"localStart" json:"localStart"`
	Timezone       string    `bson:"timezone" json:"timezone"`
	Status         string    `bson:"status" json:"status"`
	Source         string    `bson:"source" json:"source"`
	Notes          string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CalendarID     string    `bson:"calendarId" json:"calendarId"`
	EventID        string    `bson:"eventId,omitempty" json:"eventId,omitempty"`
	IdempotencyKey string    `bson:"idempotencyKey" json:"-"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
