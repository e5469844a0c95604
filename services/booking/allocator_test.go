package booking

import (
	"context"
	"testing"
	"time"

	"bookline/models"
)

func testFleet() []models.Vehicle {
	return []models.Vehicle{
		{ID: "veh-1", BusinessID: "biz-1", Model: "Model Y", Trim: "Long Range", Active: true},
		{ID: "veh-2", BusinessID: "biz-1", Model: "Model Y", Trim: "Performance", Active: true},
		{ID: "veh-3", BusinessID: "biz-1", Model: "Model Y", Trim: "Long Range", Active: false},
		{ID: "veh-4", BusinessID: "biz-1", Model: "Model 3", Trim: "Standard", Active: true},
		{ID: "veh-9", BusinessID: "biz-other", Model: "Model Y", Trim: "Long Range", Active: true},
	}
}

func testDriveAppt(start time.Time) *models.Appointment {
	return &models.Appointment{
		ID:             "appt-test",
		BusinessID:     "biz-1",
		CustomerName:   "Ada Lovelace",
		Start:          start,
		End:            start.Add(30 * time.Minute),
		Timezone:       "UTC",
		Status:         models.StatusBooked,
		Source:         models.SourceTestDrive,
		IdempotencyKey: idempotencyKey("biz-1", models.SourceTestDrive, start, "Ada Lovelace"),
	}
}

func TestAllocateExplicitVehicle(t *testing.T) {
	start := testNow.Add(2 * time.Hour)

	tests := []struct {
		name       string
		vehicleID  string
		wantReason string
	}{
		{"active vehicle allocates", "veh-1", ""},
		{"unknown vehicle", "veh-404", ReasonVehicleInvalid},
		{"inactive vehicle", "veh-3", ReasonVehicleInvalid},
		{"other business's vehicle", "veh-9", ReasonVehicleInvalid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := newTestService(testBusiness())
			d.vehicles.vehicles = testFleet()

			req := models.BookingRequest{BusinessID: "biz-1", Name: "Ada Lovelace", VehicleID: tc.vehicleID}
			rec, created, err := d.svc.allocate(context.Background(), req, testDriveAppt(start))

			if tc.wantReason != "" {
				if reason := expectReason(err); reason != tc.wantReason {
					t.Fatalf("want %s, got %v", tc.wantReason, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("allocate failed: %v", err)
			}
			if !created {
				t.Fatal("want a newly created record")
			}
			if rec.VehicleID != tc.vehicleID {
				t.Fatalf("vehicleId = %q, want %q", rec.VehicleID, tc.vehicleID)
			}
		})
	}
}

func TestAllocateExplicitVehicleOverlap(t *testing.T) {
	start := testNow.Add(2 * time.Hour)
	d := newTestService(testBusiness())
	d.vehicles.vehicles = testFleet()

	first := testDriveAppt(start)
	first.ID = "appt-first"
	first.VehicleID = "veh-1"
	if _, _, err := d.appts.Upsert(context.Background(), first); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	req := models.BookingRequest{BusinessID: "biz-1", Name: "Grace Hopper", VehicleID: "veh-1"}
	second := testDriveAppt(start.Add(15 * time.Minute))
	second.ID = "appt-second"
	second.CustomerName = "Grace Hopper"
	second.IdempotencyKey = idempotencyKey("biz-1", models.SourceTestDrive, second.Start, "Grace Hopper")

	_, _, err := d.svc.allocate(context.Background(), req, second)
	if reason := expectReason(err); reason != ReasonOverlap {
		t.Fatalf("want overlap, got %v", err)
	}
}

func TestAllocateFromPool(t *testing.T) {
	start := testNow.Add(2 * time.Hour)

	t.Run("picks lowest id first", func(t *testing.T) {
		d := newTestService(testBusiness())
		d.vehicles.vehicles = testFleet()

		req := models.BookingRequest{BusinessID: "biz-1", Name: "Ada Lovelace", Model: "Model Y"}
		rec, _, err := d.svc.allocate(context.Background(), req, testDriveAppt(start))
		if err != nil {
			t.Fatalf("allocate failed: %v", err)
		}
		if rec.VehicleID != "veh-1" {
			t.Fatalf("vehicleId = %q, want veh-1", rec.VehicleID)
		}
	})

	t.Run("skips taken unit", func(t *testing.T) {
		d := newTestService(testBusiness())
		d.vehicles.vehicles = testFleet()

		taken := testDriveAppt(start)
		taken.ID = "appt-taken"
		taken.VehicleID = "veh-1"
		taken.IdempotencyKey = "other-key"
		if _, _, err := d.appts.Upsert(context.Background(), taken); err != nil {
			t.Fatalf("seed insert failed: %v", err)
		}

		req := models.BookingRequest{BusinessID: "biz-1", Name: "Ada Lovelace", Model: "Model Y"}
		rec, _, err := d.svc.allocate(context.Background(), req, testDriveAppt(start))
		if err != nil {
			t.Fatalf("allocate failed: %v", err)
		}
		if rec.VehicleID != "veh-2" {
			t.Fatalf("vehicleId = %q, want veh-2", rec.VehicleID)
		}
	})

	t.Run("model match is case-insensitive", func(t *testing.T) {
		d := newTestService(testBusiness())
		d.vehicles.vehicles = testFleet()

		req := models.BookingRequest{BusinessID: "biz-1", Name: "Ada Lovelace", Model: "model y"}
		rec, _, err := d.svc.allocate(context.Background(), req, testDriveAppt(start))
		if err != nil {
			t.Fatalf("allocate failed: %v", err)
		}
		if rec.VehicleID != "veh-1" {
			t.Fatalf("vehicleId = %q, want veh-1", rec.VehicleID)
		}
	})

	t.Run("no units of model", func(t *testing.T) {
		d := newTestService(testBusiness())
		d.vehicles.vehicles = testFleet()

		req := models.BookingRequest{BusinessID: "biz-1", Name: "Ada Lovelace", Model: "Cybertruck"}
		_, _, err := d.svc.allocate(context.Background(), req, testDriveAppt(start))
		if reason := expectReason(err); reason != ReasonNoUnitAvailable {
			t.Fatalf("want no_unit_available, got %v", err)
		}
	})

	t.Run("all units taken", func(t *testing.T) {
		d := newTestService(testBusiness())
		d.vehicles.vehicles = testFleet()

		for i, vid := range []string{"veh-1", "veh-2"} {
			taken := testDriveAppt(start)
			taken.ID = "appt-taken-" + vid
			taken.VehicleID = vid
			taken.IdempotencyKey = "other-key-" + string(rune('a'+i))
			if _, _, err := d.appts.Upsert(context.Background(), taken); err != nil {
				t.Fatalf("seed insert failed: %v", err)
			}
		}

		req := models.BookingRequest{BusinessID: "biz-1", Name: "Ada Lovelace", Model: "Model Y"}
		_, _, err := d.svc.allocate(context.Background(), req, testDriveAppt(start))
		if reason := expectReason(err); reason != ReasonNoUnitAvailable {
			t.Fatalf("want no_unit_available, got %v", err)
		}
	})
}

func TestAllocateExactTrim(t *testing.T) {
	start := testNow.Add(2 * time.Hour)

	t.Run("trim preference is soft by default", func(t *testing.T) {
		d := newTestService(testBusiness())
		d.vehicles.vehicles = testFleet()

		req := models.BookingRequest{BusinessID: "biz-1", Name: "Ada Lovelace", Model: "Model Y", Trim: "Plaid"}
		rec, _, err := d.svc.allocate(context.Background(), req, testDriveAppt(start))
		if err != nil {
			t.Fatalf("allocate failed: %v", err)
		}
		if rec.VehicleID == "" {
			t.Fatal("want a vehicle despite the unmatched trim")
		}
	})

	t.Run("exact trim narrows the pool", func(t *testing.T) {
		d := newTestService(testBusiness())
		d.vehicles.vehicles = testFleet()

		req := models.BookingRequest{BusinessID: "biz-1", Name: "Ada Lovelace", Model: "Model Y", Trim: "performance", ExactTrim: true}
		rec, _, err := d.svc.allocate(context.Background(), req, testDriveAppt(start))
		if err != nil {
			t.Fatalf("allocate failed: %v", err)
		}
		if rec.VehicleID != "veh-2" {
			t.Fatalf("vehicleId = %q, want veh-2", rec.VehicleID)
		}
	})

	t.Run("exact trim with no match rejects", func(t *testing.T) {
		d := newTestService(testBusiness())
		d.vehicles.vehicles = testFleet()

		req := models.BookingRequest{BusinessID: "biz-1", Name: "Ada Lovelace", Model: "Model Y", Trim: "Plaid", ExactTrim: true}
		_, _, err := d.svc.allocate(context.Background(), req, testDriveAppt(start))
		if reason := expectReason(err); reason != ReasonExactTrimUnavailable {
			t.Fatalf("want exact_trim_unavailable, got %v", err)
		}
	})
}
