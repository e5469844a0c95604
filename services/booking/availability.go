package booking

import (
	"context"
	"fmt"

	"bookline/models"
)

// probeSlot runs the two-tier busy check for a window. Decision order:
//  1. any busy interval on the blocking calendar vetoes the slot, always;
//  2. the primary calendar's busy-interval count is compared against the
//     capacity ceiling, allowing N simultaneous bookings.
//
// All busy intervals reported for the primary calendar count toward capacity;
// when blocking and primary are the same calendar a blocking interval has
// already vetoed the slot before counting matters.
func (s *DefaultBookingService) probeSlot(ctx context.Context, win models.TimeWindow, primaryID, blockingID string, capacity int) error {
	ids := []string{primaryID}
	if blockingID != primaryID {
		ids = append(ids, blockingID)
	}

	busy, err := s.Busy.BusyIntervals(ctx, ids, win.Start, win.End)
	if err != nil {
		return fmt.Errorf("availability probe failed: %w", err)
	}

	for _, b := range busy[blockingID] {
		if b.Overlaps(win.Start, win.End) {
			return Reject(ReasonSlotBlocked, "the requested time is blocked on the calendar")
		}
	}

	count := 0
	for _, b := range busy[primaryID] {
		if b.Overlaps(win.Start, win.End) {
			count++
		}
	}
	if count >= capacity {
		return Reject(ReasonSlotFull, "the requested time already has %d bookings (capacity %d)", count, capacity)
	}
	return nil
}
