package booking

import (
	"errors"
	"fmt"
)

// Rejection reason codes surfaced to the agent. These are expected business
// outcomes, not server errors.
const (
	ReasonTooSoon              = "too_soon"
	ReasonOutsideOfficeHours   = "outside_office_hours"
	ReasonSlotBlocked          = "slot_blocked"
	ReasonSlotFull             = "slot_full"
	ReasonOverlap              = "overlap"
	ReasonVehicleInvalid       = "vehicle_invalid"
	ReasonNoUnitAvailable      = "no_unit_available"
	ReasonExactTrimUnavailable = "exact_trim_unavailable"
	ReasonTooCloseToCancel     = "too_close_to_cancel"
	ReasonNotFound             = "not_found"
)

// RejectionError is a domain rejection with a stable reason code.
type RejectionError struct {
	Reason  string
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// Reject builds a RejectionError.
func Reject(reason, format string, args ...any) *RejectionError {
	return &RejectionError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// AsRejection unwraps err into a RejectionError if it is one.
func AsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// ValidationError reports a missing or malformed request field. Surfaced
// before any external call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// CalendarInsertError reports that the booking was persisted but the calendar
// event could not be created; the persisted record has been rolled back.
type CalendarInsertError struct {
	Cause error
}

func (e *CalendarInsertError) Error() string {
	return fmt.Sprintf("calendar_insert_failed: %v", e.Cause)
}

func (e *CalendarInsertError) Unwrap() error {
	return e.Cause
}
