package tasks

import (
	"context"
	"encoding/json"
	"time"

	"bookline/models"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

// ReminderPayload is the task body for an appointment reminder.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	BusinessID    string `json:"businessId"`
	CustomerName  string `json:"customerName"`
	StartLocal    string `json:"startLocal"`
	Timezone      string `json:"timezone"`
}

// NewReminderTask builds a reminder task scheduled for fireAt.
func NewReminderTask(payload ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// AsynqReminderScheduler enqueues reminders on the shared asynq client. It
// satisfies the booking engine's ReminderScheduler.
type AsynqReminderScheduler struct {
	Client *asynq.Client
	Lead   time.Duration
}

func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, appt *models.Appointment) error {
	fireAt := appt.Start.Add(-s.Lead)
	if fireAt.Before(time.Now()) {
		// Appointment starts inside the lead window; fire immediately.
		fireAt = time.Now()
	}
	task, opts, err := NewReminderTask(ReminderPayload{
		AppointmentID: appt.ID,
		BusinessID:    appt.BusinessID,
		CustomerName:  appt.CustomerName,
		StartLocal:    appt.LocalStart,
		Timezone:      appt.Timezone,
	}, fireAt)
	if err != nil {
		return err
	}
	_, err = s.Client.EnqueueContext(ctx, task, opts...)
	return err
}
