// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"bookline/database"
	"bookline/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrOverlap is the typed constraint-violation signal: another booked
// appointment for the same vehicle intersects the requested window. The
// allocator's retry loop branches on this, never on error text.
var ErrOverlap = errors.New("appointment overlaps an existing booking for this vehicle")

type AppointmentRepository interface {
	// Upsert inserts the appointment, or returns the existing record when one
	// with the same idempotency key is already persisted. The boolean reports
	// whether a new record was created. Returns ErrOverlap (wrapped) when the
	// vehicle is already booked for an intersecting window.
	Upsert(ctx context.Context, appt *models.Appointment) (*models.Appointment, bool, error)
	AttachEventID(ctx context.Context, id, eventID string) error
	Delete(ctx context.Context, id string) error
	// FindUpcoming returns booked appointments for the business starting at or
	// after from, soonest first, bounded to limit.
	FindUpcoming(ctx context.Context, businessID string, from time.Time, limit int64) ([]models.Appointment, error)
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// MarkCompletedBefore transitions booked appointments ending before cutoff
	// to completed. Used by the nightly sweep.
	MarkCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new instance of MongoAppointmentRepo.
func NewMongoAppointmentRepo() AppointmentRepository {
	return &MongoAppointmentRepo{
		coll: database.DB().Collection("appointments"),
	}
}
