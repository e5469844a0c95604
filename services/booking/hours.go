package booking

import (
	"time"

	"bookline/models"
)

// CheckLeadTime rejects windows starting sooner than minLead from now.
// Evaluated before the office-hours check.
func CheckLeadTime(win models.TimeWindow, now time.Time, minLead time.Duration) *RejectionError {
	if win.Start.Sub(now) < minLead {
		return Reject(ReasonTooSoon, "appointments must be booked at least %d minutes in advance", int(minLead.Minutes()))
	}
	return nil
}

// CheckOfficeHours validates that the window fits inside the business's
// [officeStart, officeEnd] fractional-hour range in its local zone. Ending
// exactly at closing is allowed: an end of 17:00 passes against officeEnd 17,
// an end of 17:15 does not.
func CheckOfficeHours(win models.TimeWindow, officeStart, officeEnd float64) *RejectionError {
	localStart := win.Local()
	localEnd := win.LocalEnd()

	startHour := float64(localStart.Hour()) + float64(localStart.Minute())/60.0
	endHour := float64(localEnd.Hour()) + float64(localEnd.Minute())/60.0
	if localEnd.Day() != localStart.Day() {
		// Window runs past midnight; an end of 00:00 reads as hour 24, not 0.
		endHour += 24
	}

	if startHour < officeStart || startHour >= officeEnd || endHour > officeEnd {
		return Reject(ReasonOutsideOfficeHours,
			"requested window %s-%s falls outside office hours",
			localStart.Format("15:04"), localEnd.Format("15:04"))
	}
	return nil
}
