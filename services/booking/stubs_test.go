package booking

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bookline/models"
	"bookline/services/calendar"

	appointmentRepo "bookline/database/repository/appointment"

	"go.mongodb.org/mongo-driver/mongo"
)

// testNow is 08:00 America/Chicago (14:00 UTC) on 2025-01-01.
var testNow = time.Date(2025, 1, 1, 14, 0, 0, 0, time.UTC)

func testBusiness() *models.BusinessConfig {
	biz := &models.BusinessConfig{
		ID:                 "biz-1",
		Name:               "Test Dealership",
		Timezone:           "America/Chicago",
		OfficeStart:        9,
		OfficeEnd:          17,
		SlotMinutes:        30,
		Capacity:           5,
		CalendarID:         "primary-cal",
		BlockingCalendarID: "blocking-cal",
	}
	biz.ApplyDefaults()
	return biz
}

type stubBusinessRepo struct {
	biz *models.BusinessConfig
	err error
}

func (s *stubBusinessRepo) GetByID(ctx context.Context, id string) (*models.BusinessConfig, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.biz == nil || s.biz.ID != id {
		return nil, nil
	}
	return s.biz, nil
}

type stubVehicleRepo struct {
	vehicles []models.Vehicle
	err      error
}

func (s *stubVehicleRepo) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.vehicles {
		if s.vehicles[i].ID == id {
			v := s.vehicles[i]
			return &v, nil
		}
	}
	return nil, nil
}

func (s *stubVehicleRepo) ListActiveByModel(ctx context.Context, businessID, model string) ([]models.Vehicle, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Vehicle
	for _, v := range s.vehicles {
		if v.BusinessID == businessID && v.Active && strings.EqualFold(v.Model, model) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// memoryApptRepo is an in-memory AppointmentRepository enforcing the same
// idempotency and overlap constraints as the Mongo implementation, serialized
// by a mutex so concurrent tests exercise the exactly-one-wins invariant.
type memoryApptRepo struct {
	mu        sync.Mutex
	appts     map[string]models.Appointment
	upsertErr error
	deleteErr error
	attachErr error
	deletedID []string
}

func newMemoryApptRepo() *memoryApptRepo {
	return &memoryApptRepo{appts: make(map[string]models.Appointment)}
}

func (r *memoryApptRepo) Upsert(ctx context.Context, appt *models.Appointment) (*models.Appointment, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.upsertErr != nil {
		return nil, false, r.upsertErr
	}
	for _, existing := range r.appts {
		if existing.IdempotencyKey == appt.IdempotencyKey {
			out := existing
			return &out, false, nil
		}
	}
	if appt.VehicleID != "" {
		for _, existing := range r.appts {
			if existing.BusinessID == appt.BusinessID &&
				existing.VehicleID == appt.VehicleID &&
				existing.Status == models.StatusBooked &&
				existing.Start.Before(appt.End) && existing.End.After(appt.Start) {
				return nil, false, appointmentRepo.ErrOverlap
			}
		}
	}
	r.appts[appt.ID] = *appt
	out := *appt
	return &out, true, nil
}

func (r *memoryApptRepo) AttachEventID(ctx context.Context, id, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.attachErr != nil {
		return r.attachErr
	}
	appt, ok := r.appts[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	appt.EventID = eventID
	r.appts[id] = appt
	return nil
}

func (r *memoryApptRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.appts, id)
	r.deletedID = append(r.deletedID, id)
	return nil
}

func (r *memoryApptRepo) FindUpcoming(ctx context.Context, businessID string, from time.Time, limit int64) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appts {
		if a.BusinessID == businessID && a.Status == models.StatusBooked && !a.Start.Before(from) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryApptRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.appts[id]; ok {
		out := a
		return &out, nil
	}
	return nil, nil
}

func (r *memoryApptRepo) MarkCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, a := range r.appts {
		if a.Status == models.StatusBooked && a.End.Before(cutoff) {
			a.Status = models.StatusCompleted
			r.appts[id] = a
			n++
		}
	}
	return n, nil
}

func (r *memoryApptRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.appts)
}

// stubBusySource answers FreeBusy queries from a fixed map or a custom
// function for per-window behavior.
type stubBusySource struct {
	busy    map[string][]models.BusyInterval
	err     error
	fn      func(ids []string, start, end time.Time) (map[string][]models.BusyInterval, error)
	queried [][]string
	queryMu sync.Mutex
}

func (s *stubBusySource) BusyIntervals(ctx context.Context, calendarIDs []string, start, end time.Time) (map[string][]models.BusyInterval, error) {
	s.queryMu.Lock()
	s.queried = append(s.queried, calendarIDs)
	s.queryMu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.fn != nil {
		return s.fn(calendarIDs, start, end)
	}
	out := make(map[string][]models.BusyInterval, len(calendarIDs))
	for _, id := range calendarIDs {
		out[id] = s.busy[id]
	}
	return out, nil
}

type createdEvent struct {
	calendarID string
	event      calendar.Event
	id         string
}

type stubEventSink struct {
	mu        sync.Mutex
	created   []createdEvent
	deleted   []string
	createErr error
	deleteErr error
}

func (s *stubEventSink) CreateEvent(ctx context.Context, calendarID string, ev calendar.Event) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return "", s.createErr
	}
	id := "evt-" + time.Now().Format("150405.000000") + "-" + string(rune('a'+len(s.created)))
	s.created = append(s.created, createdEvent{calendarID: calendarID, event: ev, id: id})
	return id, nil
}

func (s *stubEventSink) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, eventID)
	return nil
}

type stubReminderScheduler struct {
	mu        sync.Mutex
	scheduled []string
	err       error
}

func (s *stubReminderScheduler) ScheduleReminder(ctx context.Context, appt *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.scheduled = append(s.scheduled, appt.ID)
	return nil
}

type testDeps struct {
	svc       *DefaultBookingService
	appts     *memoryApptRepo
	busy      *stubBusySource
	events    *stubEventSink
	vehicles  *stubVehicleRepo
	reminders *stubReminderScheduler
}

func newTestService(biz *models.BusinessConfig) *testDeps {
	d := &testDeps{
		appts:     newMemoryApptRepo(),
		busy:      &stubBusySource{},
		events:    &stubEventSink{},
		vehicles:  &stubVehicleRepo{},
		reminders: &stubReminderScheduler{},
	}
	d.svc = &DefaultBookingService{
		Businesses:   &stubBusinessRepo{biz: biz},
		Vehicles:     d.vehicles,
		Appointments: d.appts,
		Busy:         d.busy,
		Events:       d.events,
		Reminders:    d.reminders,
		Policy:       DefaultPolicy(),
		Clock:        func() time.Time { return testNow },
	}
	return d
}

func expectReason(err error) string {
	if rej, ok := AsRejection(err); ok {
		return rej.Reason
	}
	return ""
}
