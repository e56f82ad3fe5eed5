package seed

import (
	"testing"
	"time"

	"medilink/internal/domain/entity"
)

func TestDemoDataIsConsistent(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	data := demoData(now, "hash")

	users := make(map[string]entity.User)
	for _, u := range data.users {
		if _, dup := users[u.Email]; dup {
			t.Fatalf("duplicate email %s", u.Email)
		}
		if u.Password != "hash" {
			t.Errorf("%s: password not set from hash", u.Email)
		}
		users[u.ID.String()] = u
	}

	for _, d := range data.doctors {
		u, ok := users[d.UserID.String()]
		if !ok || u.Role != entity.RoleDoctor {
			t.Errorf("doctor %s is not linked to a doctor user", d.LicenseNumber)
		}
		if err := d.WeeklyAvailability().Validate(); err != nil {
			t.Errorf("doctor %s availability: %v", d.LicenseNumber, err)
		}
	}

	types := entity.DefaultAppointmentTypes()
	for _, a := range data.appointments {
		if int(a.DoctorID) >= len(data.doctors) {
			t.Errorf("appointment doctor index %d out of range", a.DoctorID)
		}
		for _, idx := range a.RequiredSupplies {
			if int(idx) >= len(data.supplies) {
				t.Errorf("appointment supply index %d out of range", idx)
			}
		}
		if u := users[a.PatientID.String()]; u.Role != entity.RolePatient {
			t.Errorf("appointment patient %s is not a patient", a.PatientID)
		}
		if !types.Has(a.AppointmentType) {
			t.Errorf("unknown appointment type %q", a.AppointmentType)
		}
		if !a.AppointmentDate.After(now) {
			t.Errorf("seeded appointment is not upcoming: %s", a.AppointmentDate)
		}
	}
}

func TestDemoSuppliesCoverEveryBand(t *testing.T) {
	data := demoData(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), "hash")

	seen := make(map[entity.SupplyStatus]bool)
	expiring := 0
	for _, s := range data.supplies {
		seen[s.Status()] = true
		if s.ExpiryDate != nil {
			expiring++
		}
	}

	if !seen[entity.SupplyStatusAvailable] || !seen[entity.SupplyStatusLowStock] {
		t.Errorf("expected available and low stock supplies, got %v", seen)
	}
	if expiring == 0 {
		t.Error("expected supplies with an expiry date")
	}
}
