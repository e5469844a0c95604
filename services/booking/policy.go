package booking

import "time"

// Policy carries the deployment-wide scheduling knobs. Per-business values
// (office hours, slot length, capacity) live on BusinessConfig instead.
type Policy struct {
	MinLeadTime    time.Duration // reject bookings starting sooner than this
	CancelLeadTime time.Duration // refuse cancellations closer than this
	SearchStep     time.Duration // nearest-slot scan step
	SearchHorizon  time.Duration // nearest-slot scan bound
	CancelLimit    int64         // candidate rows fetched by the cancellation matcher
	MinDuration    time.Duration // caller-supplied duration clamp, general variant
	MaxDuration    time.Duration
	ReminderLead   time.Duration // how long before start the reminder fires
}

// DefaultPolicy returns the standard deployment policy.
func DefaultPolicy() Policy {
	return Policy{
		MinLeadTime:    30 * time.Minute,
		CancelLeadTime: 60 * time.Minute,
		SearchStep:     15 * time.Minute,
		SearchHorizon:  8 * time.Hour,
		CancelLimit:    10,
		MinDuration:    15 * time.Minute,
		MaxDuration:    3 * time.Hour,
		ReminderLead:   time.Hour,
	}
}
