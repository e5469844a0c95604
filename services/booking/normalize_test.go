package booking

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeWindow(t *testing.T) {
	tests := []struct {
		name      string
		local     string
		timezone  string
		duration  time.Duration
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "naive minute layout in chicago winter",
			local:     "2025-01-15T09:00",
			timezone:  "America/Chicago",
			duration:  30 * time.Minute,
			wantStart: time.Date(2025, 1, 15, 15, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 1, 15, 15, 30, 0, 0, time.UTC),
		},
		{
			name:      "naive seconds layout",
			local:     "2025-01-15T09:00:00",
			timezone:  "America/Chicago",
			duration:  30 * time.Minute,
			wantStart: time.Date(2025, 1, 15, 15, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 1, 15, 15, 30, 0, 0, time.UTC),
		},
		{
			name:      "dst shifts the offset",
			local:     "2025-07-15T09:00",
			timezone:  "America/Chicago",
			duration:  time.Hour,
			wantStart: time.Date(2025, 7, 15, 14, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 7, 15, 15, 0, 0, 0, time.UTC),
		},
		{
			name:      "rfc3339 keeps its own offset",
			local:     "2025-01-15T09:00:00+02:00",
			timezone:  "America/Chicago",
			duration:  30 * time.Minute,
			wantStart: time.Date(2025, 1, 15, 7, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 1, 15, 7, 30, 0, 0, time.UTC),
		},
		{
			name:      "utc timezone passthrough",
			local:     "2025-01-15T12:30",
			timezone:  "UTC",
			duration:  45 * time.Minute,
			wantStart: time.Date(2025, 1, 15, 12, 30, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 1, 15, 13, 15, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			win, err := NormalizeWindow(tc.local, tc.timezone, tc.duration)
			if err != nil {
				t.Fatalf("NormalizeWindow returned error: %v", err)
			}
			if !win.Start.Equal(tc.wantStart) {
				t.Errorf("start = %v, want %v", win.Start, tc.wantStart)
			}
			if !win.End.Equal(tc.wantEnd) {
				t.Errorf("end = %v, want %v", win.End, tc.wantEnd)
			}
			if win.Timezone != tc.timezone {
				t.Errorf("timezone = %q, want %q", win.Timezone, tc.timezone)
			}
		})
	}
}

func TestNormalizeWindowErrors(t *testing.T) {
	tests := []struct {
		name      string
		local     string
		timezone  string
		wantField string
	}{
		{"unknown timezone", "2025-01-15T09:00", "America/Nowhere", "timezone"},
		{"unparseable time", "next tuesday at nine", "UTC", "startTime"},
		{"empty time", "", "UTC", "startTime"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizeWindow(tc.local, tc.timezone, 30*time.Minute)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if verr.Field != tc.wantField {
				t.Errorf("field = %q, want %q", verr.Field, tc.wantField)
			}
		})
	}
}
