package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	appointmentRepo "bookline/database/repository/appointment"
	businessRepo "bookline/database/repository/business"
	vehicleRepo "bookline/database/repository/vehicle"
	"bookline/models"
	"bookline/services/calendar"
	"bookline/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService is the production booking engine. All collaborators
// are injected so tests substitute fakes.
type DefaultBookingService struct {
	Businesses   businessRepo.BusinessRepository
	Vehicles     vehicleRepo.VehicleRepository
	Appointments appointmentRepo.AppointmentRepository
	Busy         calendar.BusySource
	Events       calendar.EventSink
	Reminders    ReminderScheduler // optional
	Policy       Policy
	Clock        func() time.Time // nil means time.Now
}

func (s *DefaultBookingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// Book runs the full pipeline: normalize, lead-time and office-hours checks,
// availability probe, allocation/persist, calendar event, reminder. Cheap
// local checks run before any external call.
func (s *DefaultBookingService) Book(ctx context.Context, req models.BookingRequest) (*models.BookingConfirmation, error) {
	logger := utils.GetLogger()

	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}

	biz, err := s.resolveBusiness(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = biz.Timezone
	}

	win, err := NormalizeWindow(req.StartTime, timezone, s.durationFor(req, biz))
	if err != nil {
		return nil, err
	}

	now := s.now()
	if rej := CheckLeadTime(win, now, s.Policy.MinLeadTime); rej != nil {
		return nil, rej
	}
	if rej := CheckOfficeHours(win, biz.OfficeStart, biz.OfficeEnd); rej != nil {
		return nil, rej
	}

	primaryID, blockingID := calendarsFor(req, biz)

	// Probe failures propagate as transient failures: the caller re-requests
	// rather than this service guessing the slot is open. The store's overlap
	// constraint still backstops vehicle allocation either way.
	if err := s.probeSlot(ctx, win, primaryID, blockingID, biz.Capacity); err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		ID:             uuid.New().String(),
		BusinessID:     req.BusinessID,
		CustomerName:   strings.TrimSpace(req.Name),
		CustomerEmail:  strings.TrimSpace(req.Email),
		CustomerPhone:  strings.TrimSpace(req.Phone),
		Start:          win.Start,
		End:            win.End,
		LocalStart:     win.Local().Format("2006-01-02T15:04"),
		Timezone:       win.Timezone,
		Status:         models.StatusBooked,
		Source:         sourceFor(req),
		Notes:          req.Notes,
		CalendarID:     primaryID,
		IdempotencyKey: idempotencyKey(req.BusinessID, sourceFor(req), win.Start, req.Name),
		CreatedAt:      now,
	}

	rec, created, err := s.allocate(ctx, req, appt)
	if err != nil {
		return nil, err
	}
	if !created && rec.EventID != "" {
		// Idempotent replay of a fully completed booking.
		logger.Info("returning existing booking for retried request",
			zap.String("appointmentId", rec.ID), zap.String("businessId", rec.BusinessID))
		return s.confirmation(rec), nil
	}

	eventID, err := s.Events.CreateEvent(ctx, primaryID, calendar.Event{
		Summary:     eventSummary(rec),
		Description: eventDescription(rec),
		Start:       rec.Start,
		End:         rec.End,
		Timezone:    rec.Timezone,
	})
	if err != nil {
		// Compensate: a persisted booking invisible on the calendar is a ghost
		// booking, so the record is rolled back before failing the request.
		if derr := s.Appointments.Delete(ctx, rec.ID); derr != nil {
			logger.Error("consistency failure: appointment persisted but calendar insert and rollback both failed",
				zap.String("appointmentId", rec.ID),
				zap.String("businessId", rec.BusinessID),
				zap.NamedError("calendarError", err),
				zap.NamedError("rollbackError", derr))
		}
		return nil, &CalendarInsertError{Cause: err}
	}

	if err := s.Appointments.AttachEventID(ctx, rec.ID, eventID); err != nil {
		// The inverse inconsistency: event exists, record doesn't reference it.
		// Compensate by removing the event; escalate loudly if that also fails.
		if derr := s.Events.DeleteEvent(ctx, primaryID, eventID); derr != nil && derr != calendar.ErrEventGone {
			logger.Error("consistency failure: calendar event created but store update and event rollback both failed",
				zap.String("appointmentId", rec.ID),
				zap.String("eventId", eventID),
				zap.NamedError("storeError", err),
				zap.NamedError("rollbackError", derr))
		}
		return nil, fmt.Errorf("failed to record calendar event on appointment: %w", err)
	}
	rec.EventID = eventID

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleReminder(ctx, rec); err != nil {
			logger.Warn("failed to schedule reminder", zap.String("appointmentId", rec.ID), zap.Error(err))
		}
	}

	logger.Info("booking confirmed",
		zap.String("appointmentId", rec.ID),
		zap.String("businessId", rec.BusinessID),
		zap.String("vehicleId", rec.VehicleID),
		zap.Time("start", rec.Start))
	return s.confirmation(rec), nil
}

// FindNearest locates the first bookable slot around the requested time.
func (s *DefaultBookingService) FindNearest(ctx context.Context, req models.BookingRequest) (*models.NearestSlot, error) {
	biz, err := s.resolveBusiness(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = biz.Timezone
	}

	win, err := NormalizeWindow(req.StartTime, timezone, s.durationFor(req, biz))
	if err != nil {
		return nil, err
	}

	primaryID, blockingID := calendarsFor(req, biz)
	return s.searchNearest(ctx, win, biz, primaryID, blockingID)
}

func (s *DefaultBookingService) resolveBusiness(ctx context.Context, id string) (*models.BusinessConfig, error) {
	if id == "" {
		return nil, &ValidationError{Field: "businessId", Message: "businessId is required"}
	}
	biz, err := s.Businesses.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("business lookup failed: %w", err)
	}
	if biz == nil {
		return nil, Reject(ReasonNotFound, "unknown business %s", id)
	}
	return biz, nil
}

// durationFor applies the duration policy: test-drive bookings always use the
// business slot length; the general variant accepts a caller duration, clamped.
func (s *DefaultBookingService) durationFor(req models.BookingRequest, biz *models.BusinessConfig) time.Duration {
	slot := time.Duration(biz.SlotMinutes) * time.Minute
	if sourceFor(req) == models.SourceTestDrive || req.DurationMinutes <= 0 {
		return slot
	}
	d := time.Duration(req.DurationMinutes) * time.Minute
	if d < s.Policy.MinDuration {
		return s.Policy.MinDuration
	}
	if d > s.Policy.MaxDuration {
		return s.Policy.MaxDuration
	}
	return d
}

func (s *DefaultBookingService) confirmation(appt *models.Appointment) *models.BookingConfirmation {
	win := models.TimeWindow{Start: appt.Start, End: appt.End, Timezone: appt.Timezone}
	return &models.BookingConfirmation{
		AppointmentID: appt.ID,
		VehicleID:     appt.VehicleID,
		EventID:       appt.EventID,
		StartUTC:      appt.Start.UTC().Format(time.RFC3339),
		EndUTC:        appt.End.UTC().Format(time.RFC3339),
		StartLocal:    win.Local().Format("2006-01-02T15:04"),
		EndLocal:      win.LocalEnd().Format("2006-01-02T15:04"),
		Timezone:      appt.Timezone,
	}
}

func calendarsFor(req models.BookingRequest, biz *models.BusinessConfig) (primaryID, blockingID string) {
	primaryID = biz.CalendarID
	if req.CalendarID != "" {
		primaryID = req.CalendarID
	}
	blockingID = biz.BlockingCalendarID
	if req.BlockingCalendarID != "" {
		blockingID = req.BlockingCalendarID
	}
	if blockingID == "" {
		blockingID = primaryID
	}
	return primaryID, blockingID
}

func sourceFor(req models.BookingRequest) string {
	if req.VehicleID != "" || req.Model != "" {
		return models.SourceTestDrive
	}
	return models.SourceAgent
}

// idempotencyKey derives the retry-safety key from business, booking type,
// start instant and normalized requester name.
func idempotencyKey(businessID, source string, start time.Time, name string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	return fmt.Sprintf("%s:%s:%d:%s", businessID, source, start.Unix(), normalized)
}

func eventSummary(appt *models.Appointment) string {
	if appt.Source == models.SourceTestDrive {
		return fmt.Sprintf("Test drive: %s", appt.CustomerName)
	}
	return fmt.Sprintf("Appointment: %s", appt.CustomerName)
}

func eventDescription(appt *models.Appointment) string {
	var b strings.Builder
	if appt.CustomerEmail != "" {
		fmt.Fprintf(&b, "Email: %s\n", appt.CustomerEmail)
	}
	if appt.CustomerPhone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", appt.CustomerPhone)
	}
	if appt.VehicleID != "" {
		fmt.Fprintf(&b, "Vehicle: %s\n", appt.VehicleID)
	}
	if appt.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", appt.Notes)
	}
	fmt.Fprintf(&b, "Booked via %s", appt.Source)
	return b.String()
}
