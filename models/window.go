package models

import "time"

// TimeWindow is a normalized appointment window. Start and End are UTC instants;
// Timezone is the IANA zone the caller booked in, kept for local rendering.
type TimeWindow struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Timezone string    `json:"timezone"`
}

// Duration returns the window length.
func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Shift returns a copy of the window moved by d, keeping its length and zone.
func (w TimeWindow) Shift(d time.Duration) TimeWindow {
	return TimeWindow{
		Start:    w.Start.Add(d),
		End:      w.End.Add(d),
		Timezone: w.Timezone,
	}
}

// Local returns the window start in its own timezone. Falls back to UTC when
// the zone name no longer resolves.
func (w TimeWindow) Local() time.Time {
	loc, err := time.LoadLocation(w.Timezone)
	if err != nil {
		return w.Start.UTC()
	}
	return w.Start.In(loc)
}

// LocalEnd returns the window end in its own timezone.
func (w TimeWindow) LocalEnd() time.Time {
	loc, err := time.LoadLocation(w.Timezone)
	if err != nil {
		return w.End.UTC()
	}
	return w.End.In(loc)
}

// BusyInterval is a single busy stretch reported by a calendar. Ephemeral,
// never persisted.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether the busy interval intersects [start, end).
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && b.End.After(start)
}
