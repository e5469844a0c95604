package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookline/models"
	"bookline/services/calendar"
	"bookline/utils"

	"go.uber.org/zap"
)

// Cancel finds the caller's soonest upcoming appointment by identity claims
// (name plus email or phone), enforces the cancellation lead time, deletes the
// calendar event and purges the record. An event already removed from the
// calendar still counts as a successful cancellation.
func (s *DefaultBookingService) Cancel(ctx context.Context, req models.BookingRequest) (*models.CancellationResult, error) {
	logger := utils.GetLogger()

	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(req.Email) == "" && strings.TrimSpace(req.Phone) == "" {
		return nil, &ValidationError{Field: "email", Message: "email or phone is required to cancel"}
	}

	biz, err := s.resolveBusiness(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}
	primaryID, _ := calendarsFor(req, biz)

	now := s.now()
	candidates, err := s.Appointments.FindUpcoming(ctx, req.BusinessID, now, s.Policy.CancelLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming appointments: %w", err)
	}

	identityMatched := false
	for _, appt := range candidates {
		if !identityMatches(appt, req) {
			continue
		}
		identityMatched = true

		// Too close to start: skip to the next match rather than error out.
		if appt.Start.Sub(now) < s.Policy.CancelLeadTime {
			continue
		}

		alreadyGone := false
		if appt.EventID != "" {
			calID := appt.CalendarID
			if calID == "" {
				calID = primaryID
			}
			derr := s.Events.DeleteEvent(ctx, calID, appt.EventID)
			switch {
			case errors.Is(derr, calendar.ErrEventGone):
				alreadyGone = true
			case derr != nil:
				return nil, fmt.Errorf("failed to delete calendar event: %w", derr)
			}
		}

		if err := s.Appointments.Delete(ctx, appt.ID); err != nil {
			logger.Error("consistency failure: calendar event deleted but appointment record remains",
				zap.String("appointmentId", appt.ID),
				zap.String("eventId", appt.EventID),
				zap.Error(err))
			return nil, fmt.Errorf("failed to delete appointment record: %w", err)
		}

		logger.Info("appointment cancelled",
			zap.String("appointmentId", appt.ID),
			zap.String("businessId", appt.BusinessID),
			zap.Bool("eventAlreadyGone", alreadyGone))
		return &models.CancellationResult{
			AppointmentID: appt.ID,
			EventID:       appt.EventID,
			StartLocal:    appt.LocalStart,
			AlreadyGone:   alreadyGone,
		}, nil
	}

	if identityMatched {
		return nil, Reject(ReasonTooCloseToCancel,
			"your appointment starts in less than %d minutes and can no longer be cancelled here",
			int(s.Policy.CancelLeadTime.Minutes()))
	}
	return nil, Reject(ReasonNotFound, "no upcoming appointment found for these details")
}

// identityMatches requires a case-insensitive name match plus a matching email
// or phone.
func identityMatches(appt models.Appointment, req models.BookingRequest) bool {
	if !strings.EqualFold(strings.TrimSpace(appt.CustomerName), strings.TrimSpace(req.Name)) {
		return false
	}
	if req.Email != "" && strings.EqualFold(strings.TrimSpace(appt.CustomerEmail), strings.TrimSpace(req.Email)) {
		return true
	}
	if req.Phone != "" && normalizePhone(appt.CustomerPhone) == normalizePhone(req.Phone) && normalizePhone(req.Phone) != "" {
		return true
	}
	return false
}

// normalizePhone keeps digits only so "+1 (555) 010-0100" matches "15550100100".
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
