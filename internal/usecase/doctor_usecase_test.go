package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"medilink/internal/delivery/dto"
	"medilink/internal/domain/entity"
)

func doctorRequest(email, license string) *dto.CreateDoctorRequest {
	return &dto.CreateDoctorRequest{
		Email:          email,
		Password:       "secret123",
		FirstName:      "Gregory",
		LastName:       "House",
		Specialization: "Diagnostics",
		LicenseNumber:  license,
		Availability:   entity.Availability{"tuesday": {Start: "08:00", End: "12:00"}},
	}
}

func TestDoctorCreate(t *testing.T) {
	c := newClinic()
	ctx := context.Background()

	doctor, err := c.doctors.Create(ctx, doctorRequest("House@Medilink.com", "MD100"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if doctor.Email != "house@medilink.com" {
		t.Errorf("Email = %q, want lowercased", doctor.Email)
	}
	user := c.store.users[doctor.UserID]
	if user.Role != entity.RoleDoctor || user.Password == "secret123" {
		t.Errorf("stored user = %+v", user)
	}

	tests := []struct {
		name    string
		req     *dto.CreateDoctorRequest
		wantErr error
	}{
		{"duplicate email", doctorRequest("house@medilink.com", "MD200"), ErrEmailAlreadyExists},
		{"duplicate license", doctorRequest("wilson@medilink.com", "MD100"), ErrLicenseAlreadyExists},
		{"bad hours", func() *dto.CreateDoctorRequest {
			req := doctorRequest("cuddy@medilink.com", "MD300")
			req.Availability = entity.Availability{"monday": {Start: "17:00", End: "09:00"}}
			return req
		}(), ErrInvalidAvailability},
		{"unknown weekday", func() *dto.CreateDoctorRequest {
			req := doctorRequest("chase@medilink.com", "MD400")
			req.Availability = entity.Availability{"funday": {Start: "09:00", End: "10:00"}}
			return req
		}(), ErrInvalidAvailability},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.doctors.Create(ctx, tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("Create error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if len(c.store.users) != 1 || len(c.store.doctors) != 1 {
		t.Errorf("users=%d doctors=%d after rejected creates", len(c.store.users), len(c.store.doctors))
	}
}

func TestDoctorUpdate(t *testing.T) {
	c := newClinic()
	admin := c.addUser(entity.RoleAdmin, "admin@medilink.com")
	doctorUser, doctor := c.addDoctor("doctor@medilink.com", "MD001")
	otherUser, other := c.addDoctor("other@medilink.com", "MD002")
	ctx := context.Background()

	bio := "Twenty years in practice"
	resp, err := c.doctors.Update(ctx, actorOf(doctorUser), doctor.ID, &dto.UpdateDoctorRequest{Bio: &bio})
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if resp.Bio != bio || c.store.doctors[doctor.ID].Bio != bio {
		t.Errorf("bio not saved")
	}

	if _, err := c.doctors.Update(ctx, actorOf(otherUser), doctor.ID, &dto.UpdateDoctorRequest{Bio: &bio}); !errors.Is(err, ErrForbidden) {
		t.Errorf("other doctor error = %v", err)
	}

	license := other.LicenseNumber
	if _, err := c.doctors.Update(ctx, actorOf(admin), doctor.ID, &dto.UpdateDoctorRequest{LicenseNumber: &license}); !errors.Is(err, ErrLicenseAlreadyExists) {
		t.Errorf("duplicate license error = %v", err)
	}
	if c.store.doctors[doctor.ID].LicenseNumber != "MD001" {
		t.Errorf("license changed despite conflict")
	}

	email := otherUser.Email
	if _, err := c.doctors.Update(ctx, actorOf(admin), doctor.ID, &dto.UpdateDoctorRequest{Email: &email}); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("duplicate email error = %v", err)
	}

	if _, err := c.doctors.Update(ctx, actorOf(admin), 999, &dto.UpdateDoctorRequest{}); !errors.Is(err, ErrDoctorNotFound) {
		t.Errorf("unknown doctor error = %v", err)
	}
}

func TestDoctorAvailability(t *testing.T) {
	c := newClinic()
	patient := c.addUser(entity.RolePatient, "patient@medilink.com")
	doctorUser, doctor := c.addDoctor("doctor@medilink.com", "MD001")
	now := time.Now()
	c.addAppointment(patient, doctor, now.Add(48*time.Hour), entity.AppointmentStatusScheduled)
	c.addAppointment(patient, doctor, now.Add(72*time.Hour), entity.AppointmentStatusCancelled)
	c.addAppointment(patient, doctor, now.Add(40*24*time.Hour), entity.AppointmentStatusScheduled)
	c.addAppointment(patient, doctor, now.Add(-time.Hour), entity.AppointmentStatusScheduled)
	ctx := context.Background()

	resp, err := c.doctors.GetAvailability(ctx, doctor.ID)
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(resp.BookedSlots) != 1 {
		t.Errorf("BookedSlots = %v, want the one within 30 days", resp.BookedSlots)
	}
	if _, ok := resp.Availability["monday"]; !ok {
		t.Errorf("Availability = %v", resp.Availability)
	}

	updated, err := c.doctors.UpdateAvailability(ctx, actorOf(doctorUser), doctor.ID, entity.Availability{
		"friday": {Start: "10:00", End: "14:00"},
	})
	if err != nil {
		t.Fatalf("UpdateAvailability: %v", err)
	}
	if _, ok := updated.Availability["monday"]; ok {
		t.Errorf("availability not replaced: %v", updated.Availability)
	}

	if _, err := c.doctors.UpdateAvailability(ctx, actorOf(patient), doctor.ID, entity.Availability{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("patient update error = %v", err)
	}
}

func TestDoctorDeleteReleasesScheduledStock(t *testing.T) {
	c := newClinic()
	admin := c.addUser(entity.RoleAdmin, "admin@medilink.com")
	patient := c.addUser(entity.RolePatient, "patient@medilink.com")
	doctorUser, doctor := c.addDoctor("doctor@medilink.com", "MD001")
	a := c.addSupply("Stethoscope", 5, 1)
	c.addAppointment(patient, doctor, tomorrow, entity.AppointmentStatusScheduled, a.ID)
	c.addAppointment(patient, doctor, tomorrow, entity.AppointmentStatusCompleted, a.ID)
	ctx := context.Background()

	if err := c.doctors.Delete(ctx, actorOf(admin), doctor.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, ok := c.store.doctors[doctor.ID]; ok {
		t.Error("doctor record still present")
	}
	if _, ok := c.store.users[doctorUser.ID]; !ok {
		t.Error("doctor user account removed")
	}
	if len(c.store.appointments) != 0 {
		t.Errorf("appointments left: %d", len(c.store.appointments))
	}
	if c.stock(a.ID) != 6 {
		t.Errorf("stock = %d, want 6", c.stock(a.ID))
	}
	if err := c.doctors.Delete(ctx, actorOf(admin), doctor.ID); !errors.Is(err, ErrDoctorNotFound) {
		t.Errorf("second Delete error = %v", err)
	}
}

func TestDoctorGetAll(t *testing.T) {
	c := newClinic()
	c.addDoctor("a@medilink.com", "MD001")
	c.addDoctor("b@medilink.com", "MD002")

	resp, err := c.doctors.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if resp.Total != 2 || resp.Doctors[0].Email != "a@medilink.com" {
		t.Errorf("GetAll = %+v", resp)
	}
}
