package models

// BusinessConfig is the per-business booking policy, owned by the business
// collection and cached in Redis. Zero-valued fields are filled by ApplyDefaults.
type BusinessConfig struct {
	ID                 string  `bson:"id" json:"id"`
	Name               string  `bson:"name" json:"name"`
	Timezone           string  `bson:"timezone" json:"timezone"`
	OfficeStart        float64 `bson:"officeStart" json:"officeStart"` // fractional hour, 7.5 = 7:30
	OfficeEnd          float64 `bson:"officeEnd" json:"officeEnd"`
	SlotMinutes        int     `bson:"slotMinutes" json:"slotMinutes"`
	Capacity           int     `bson:"capacity" json:"capacity"` // max simultaneous bookings on the primary calendar
	CalendarID         string  `bson:"calendarId" json:"calendarId"`
	BlockingCalendarID string  `bson:"blockingCalendarId" json:"blockingCalendarId"`
}

// Default policy values used when a business record leaves fields unset.
const (
	DefaultTimezone    = "UTC"
	DefaultOfficeStart = 9.0
	DefaultOfficeEnd   = 17.0
	DefaultSlotMinutes = 30
	DefaultCapacity    = 3
)

// ApplyDefaults fills unset fields with the documented defaults. The blocking
// calendar defaults to the primary calendar.
func (b *BusinessConfig) ApplyDefaults() {
	if b.Timezone == "" {
		b.Timezone = DefaultTimezone
	}
	if b.OfficeStart == 0 && b.OfficeEnd == 0 {
		b.OfficeStart = DefaultOfficeStart
		b.OfficeEnd = DefaultOfficeEnd
	}
	if b.SlotMinutes == 0 {
		b.SlotMinutes = DefaultSlotMinutes
	}
	if b.Capacity == 0 {
		b.Capacity = DefaultCapacity
	}
	if b.BlockingCalendarID == "" {
		b.BlockingCalendarID = b.CalendarID
	}
}
