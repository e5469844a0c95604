package booking

import (
	"context"
	"time"

	"bookline/models"
)

// Directions a found slot can be tagged with.
const (
	DirectionExact  = "exact"
	DirectionBefore = "before"
	DirectionAfter  = "after"
)

// searchNearest scans outward from the requested window in fixed steps,
// alternating before/after at each distance, and returns the first candidate
// that passes lead time, office hours and the availability probe. At each
// distance "before" is tried ahead of "after"; the requested time itself is
// probed once, tagged exact. Exhausting the horizon rejects with not_found.
func (s *DefaultBookingService) searchNearest(ctx context.Context, win models.TimeWindow, biz *models.BusinessConfig, primaryID, blockingID string) (*models.NearestSlot, error) {
	now := s.now()

	for delta := time.Duration(0); delta <= s.Policy.SearchHorizon; delta += s.Policy.SearchStep {
		offsets := []struct {
			direction string
			shift     time.Duration
		}{
			{DirectionBefore, -delta},
			{DirectionAfter, delta},
		}
		if delta == 0 {
			offsets = []struct {
				direction string
				shift     time.Duration
			}{{DirectionExact, 0}}
		}

		for _, o := range offsets {
			cand := win.Shift(o.shift)
			if CheckLeadTime(cand, now, s.Policy.MinLeadTime) != nil {
				continue
			}
			if CheckOfficeHours(cand, biz.OfficeStart, biz.OfficeEnd) != nil {
				continue
			}
			if err := s.probeSlot(ctx, cand, primaryID, blockingID, biz.Capacity); err != nil {
				if _, ok := AsRejection(err); ok {
					continue
				}
				// Probe infrastructure failures propagate; a guess here could
				// hand the caller a slot that was never actually open.
				return nil, err
			}
			return &models.NearestSlot{
				Window:     cand,
				Direction:  o.direction,
				OffsetMins: int(delta.Minutes()),
				StartLocal: cand.Local().Format("2006-01-02T15:04"),
			}, nil
		}
	}

	return nil, Reject(ReasonNotFound, "no open slot within %v of the requested time", s.Policy.SearchHorizon)
}
