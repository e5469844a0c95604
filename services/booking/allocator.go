package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	appointmentRepo "bookline/database/repository/appointment"
	"bookline/models"
	"bookline/utils"

	"go.uber.org/zap"
)

// allocate persists the appointment, picking a vehicle when the request names
// one (by id) or a pool (by model). The per-candidate insert doubles as the
// correctness backstop: even if two concurrent requests race past the
// availability probe, the store's overlap constraint lets at most one insert
// per vehicle succeed.
func (s *DefaultBookingService) allocate(ctx context.Context, req models.BookingRequest, appt *models.Appointment) (*models.Appointment, bool, error) {
	switch {
	case req.VehicleID != "":
		return s.allocateExplicit(ctx, req, appt)
	case req.Model != "":
		return s.allocateFromPool(ctx, req, appt)
	default:
		rec, created, err := s.Appointments.Upsert(ctx, appt)
		if err != nil {
			return nil, false, fmt.Errorf("failed to persist appointment: %w", err)
		}
		return rec, created, nil
	}
}

func (s *DefaultBookingService) allocateExplicit(ctx context.Context, req models.BookingRequest, appt *models.Appointment) (*models.Appointment, bool, error) {
	v, err := s.Vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, false, fmt.Errorf("vehicle lookup failed: %w", err)
	}
	if v == nil || v.BusinessID != req.BusinessID || !v.Active {
		return nil, false, Reject(ReasonVehicleInvalid, "vehicle %s is not available for booking", req.VehicleID)
	}

	appt.VehicleID = v.ID
	rec, created, err := s.Appointments.Upsert(ctx, appt)
	if errors.Is(err, appointmentRepo.ErrOverlap) {
		return nil, false, Reject(ReasonOverlap, "vehicle %s is already booked for this time", v.ID)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to persist appointment: %w", err)
	}
	return rec, created, nil
}

func (s *DefaultBookingService) allocateFromPool(ctx context.Context, req models.BookingRequest, appt *models.Appointment) (*models.Appointment, bool, error) {
	logger := utils.GetLogger()

	candidates, err := s.Vehicles.ListActiveByModel(ctx, req.BusinessID, req.Model)
	if err != nil {
		return nil, false, fmt.Errorf("vehicle inventory lookup failed: %w", err)
	}
	if len(candidates) == 0 {
		return nil, false, Reject(ReasonNoUnitAvailable, "no active vehicles of model %q", req.Model)
	}

	if req.ExactTrim {
		filtered := candidates[:0]
		for _, v := range candidates {
			if strings.EqualFold(v.Trim, req.Trim) {
				filtered = append(filtered, v)
			}
		}
		if len(filtered) == 0 {
			return nil, false, Reject(ReasonExactTrimUnavailable, "no %s units with trim %q", req.Model, req.Trim)
		}
		candidates = filtered
	}

	// Stable attempt order so concurrent requests contend predictably.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	for _, v := range candidates {
		appt.VehicleID = v.ID
		rec, created, err := s.Appointments.Upsert(ctx, appt)
		if errors.Is(err, appointmentRepo.ErrOverlap) {
			logger.Debug("vehicle taken for window, trying next",
				zap.String("vehicleId", v.ID), zap.String("model", req.Model))
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to persist appointment: %w", err)
		}
		return rec, created, nil
	}

	return nil, false, Reject(ReasonNoUnitAvailable, "all %s units are booked for this window", req.Model)
}
