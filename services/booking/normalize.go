package booking

import (
	"time"

	"bookline/models"
)

// Wall-clock layouts accepted from the agent, tried in order. RFC3339 inputs
// carry their own offset; the naive layouts are interpreted in the business
// timezone.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// NormalizeWindow converts a caller-supplied local wall-clock time string plus
// IANA timezone into a UTC TimeWindow of the given duration. Pure function.
func NormalizeWindow(local, timezone string, duration time.Duration) (models.TimeWindow, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return models.TimeWindow{}, &ValidationError{Field: "timezone", Message: "unknown timezone " + timezone}
	}

	var start time.Time
	if t, perr := time.Parse(time.RFC3339, local); perr == nil {
		start = t
	} else {
		for _, layout := range localLayouts {
			if t, perr := time.ParseInLocation(layout, local, loc); perr == nil {
				start = t
				break
			}
		}
	}
	if start.IsZero() {
		return models.TimeWindow{}, &ValidationError{Field: "startTime", Message: "cannot parse time " + local}
	}

	startUTC := start.UTC()
	return models.TimeWindow{
		Start:    startUTC,
		End:      startUTC.Add(duration),
		Timezone: timezone,
	}, nil
}
