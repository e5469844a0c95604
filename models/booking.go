package models

// Agent actions accepted by the appointment endpoint.
const (
	ActionBook        = "book"
	ActionCancel      = "cancel"
	ActionFindNearest = "findNearest"
)

// BookingRequest is the parsed, typed form of an inbound agent payload.
// Optional fields inherit from the business config when empty; the struct is
// not mutated after parsing.
type BookingRequest struct {
	Action     string `json:"action" validate:"omitempty,oneof=book cancel findNearest"`
	BusinessID string `json:"businessId" validate:"required"`

	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`

	// Local wall-clock time, e.g. "2025-01-01T09:00". Required for book and
	// findNearest; ignored for cancel.
	StartTime string `json:"startTime"`
	Timezone  string `json:"timezone"`

	CalendarID         string `json:"calendarId"`
	BlockingCalendarID string `json:"blockingCalendarId"`

	// Vehicle pool fields (test-drive variant). VehicleID pins an exact unit;
	// otherwise Model selects the pool and ExactTrim requires a Trim match.
	VehicleID string `json:"vehicleId"`
	Model     string `json:"model"`
	Trim      string `json:"trim"`
	ExactTrim bool   `json:"exactTrim"`

	// Caller-supplied duration for the general variant; clamped by policy.
	// The test-drive variant ignores it and uses the business slot length.
	DurationMinutes int `json:"durationMinutes"`

	Notes string `json:"notes"`
}

// BookingConfirmation is returned on a successful booking.
type BookingConfirmation struct {
	AppointmentID string `json:"appointmentId"`
	VehicleID     string `json:"vehicleId,omitempty"`
	EventID       string `json:"eventId,omitempty"`
	StartUTC      string `json:"startUtc"`
	EndUTC        string `json:"endUtc"`
	StartLocal    string `json:"startLocal"`
	EndLocal      string `json:"endLocal"`
	Timezone      string `json:"timezone"`
}

// NearestSlot is the result of the nearest-slot search: the first bookable
// window found scanning outward from the requested time.
type NearestSlot struct {
	Window     TimeWindow `json:"window"`
	Direction  string     `json:"direction"` // "exact", "before" or "after"
	OffsetMins int        `json:"offsetMinutes"`
	StartLocal string     `json:"startLocal"`
}

// CancellationResult reports which appointment was cancelled.
type CancellationResult struct {
	AppointmentID string `json:"appointmentId"`
	EventID       string `json:"eventId,omitempty"`
	StartLocal    string `json:"startLocal"`
	AlreadyGone   bool   `json:"alreadyGone,omitempty"` // calendar event was deleted out-of-band
}
