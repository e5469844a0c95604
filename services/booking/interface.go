package booking

import (
	"context"

	"bookline/models"
)

// BookingService is the engine behind the agent-facing endpoints.
type BookingService interface {
	Book(ctx context.Context, req models.BookingRequest) (*models.BookingConfirmation, error)
	Cancel(ctx context.Context, req models.BookingRequest) (*models.CancellationResult, error)
	FindNearest(ctx context.Context, req models.BookingRequest) (*models.NearestSlot, error)
}

// ReminderScheduler enqueues an appointment reminder. Best-effort from the
// orchestrator's perspective.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, appt *models.Appointment) error
}
