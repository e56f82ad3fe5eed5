package entity

import (
	"errors"
	"testing"
	"time"
)

func TestAppointmentStatusTransitions(t *testing.T) {
	all := []AppointmentStatus{AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled}
	allowed := map[[2]AppointmentStatus]bool{
		{AppointmentStatusScheduled, AppointmentStatusCompleted}: true,
		{AppointmentStatusScheduled, AppointmentStatusCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			a := &Appointment{Status: from}
			err := a.TransitionTo(to)
			if allowed[[2]AppointmentStatus{from, to}] {
				if err != nil {
					t.Errorf("%s -> %s: unexpected error %v", from, to, err)
				}
				if a.Status != to {
					t.Errorf("%s -> %s: status = %s", from, to, a.Status)
				}
				continue
			}
			if !errors.Is(err, ErrInvalidStatusTransition) {
				t.Errorf("%s -> %s: err = %v, want ErrInvalidStatusTransition", from, to, err)
			}
			if a.Status != from {
				t.Errorf("%s -> %s: status changed to %s on rejected transition", from, to, a.Status)
			}
		}
	}
}

func TestAppointmentStatusTerminal(t *testing.T) {
	if AppointmentStatusScheduled.IsTerminal() {
		t.Error("scheduled must not be terminal")
	}
	if !AppointmentStatusCompleted.IsTerminal() || !AppointmentStatusCancelled.IsTerminal() {
		t.Error("completed and cancelled must be terminal")
	}
	if AppointmentStatus("pending").Valid() {
		t.Error("unknown status reported valid")
	}
	if AppointmentStatus("pending").CanTransitionTo(AppointmentStatusCancelled) {
		t.Error("unknown status must not transition")
	}
}

func TestAppointmentSupplyIDsIsACopy(t *testing.T) {
	a := &Appointment{RequiredSupplies: []int64{1, 2}}
	ids := a.SupplyIDs()
	ids[0] = 99
	if a.RequiredSupplies[0] != 1 {
		t.Error("SupplyIDs must not alias the frozen snapshot")
	}
}

func TestAppointmentTypeCatalog(t *testing.T) {
	catalog := DefaultAppointmentTypes()

	if got := catalog.RequiredSupplies("Emergency"); len(got) != 4 {
		t.Errorf("Emergency supplies = %v", got)
	}
	if got := catalog.RequiredSupplies("Unknown"); len(got) != 0 {
		t.Errorf("unknown type supplies = %v, want none", got)
	}
	if !catalog.Has("Therapy") || len(catalog.RequiredSupplies("Therapy")) != 0 {
		t.Error("Therapy should exist with no supplies")
	}

	ids := catalog.RequiredSupplies("Consultation")
	ids[0] = 42
	all := catalog.All()
	all["Consultation"][1] = 42
	if got := catalog.RequiredSupplies("Consultation"); got[0] != 1 || got[1] != 2 {
		t.Errorf("catalog mutated through a copy: %v", got)
	}
	if len(all) != 8 || catalog.Has("Unknown") {
		t.Errorf("catalog has %d types, Has(Unknown) = %v", len(all), catalog.Has("Unknown"))
	}
}

func TestAvailabilityForDate(t *testing.T) {
	availability := Availability{
		"monday": {Start: "09:00", End: "17:00"},
	}
	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	hours, ok := availability.ForDate(monday)
	if !ok || hours.Start != "09:00" {
		t.Fatalf("ForDate(monday) = %v, %v", hours, ok)
	}
	if _, ok := availability.ForDate(monday.AddDate(0, 0, 1)); ok {
		t.Error("tuesday should have no hours")
	}
}

func TestAvailabilityValidate(t *testing.T) {
	tests := []struct {
		name    string
		a       Availability
		wantErr bool
	}{
		{"valid", Availability{"friday": {"08:00", "14:00"}}, false},
		{"unknown day", Availability{"funday": {"08:00", "14:00"}}, true},
		{"bad time", Availability{"monday": {"8am", "14:00"}}, true},
		{"end before start", Availability{"monday": {"17:00", "09:00"}}, true},
	}
	for _, tt := range tests {
		if err := tt.a.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() err = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestWorkingHoursJSON(t *testing.T) {
	var h WorkingHours
	if err := h.UnmarshalJSON([]byte(`["09:00","17:00"]`)); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if h.Start != "09:00" || h.End != "17:00" {
		t.Errorf("got %+v", h)
	}
	out, err := h.MarshalJSON()
	if err != nil || string(out) != `["09:00","17:00"]` {
		t.Errorf("MarshalJSON = %s, %v", out, err)
	}
	if err := h.UnmarshalJSON([]byte(`["09:00"]`)); err == nil {
		t.Error("single element should fail")
	}
}
