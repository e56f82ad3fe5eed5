package dto

import (
	"time"

	"medilink/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

// CreateDoctorRequest creates the user account and its doctor record together.
type CreateDoctorRequest struct {
	Email          string              `json:"email" validate:"required,email"`
	Password       string              `json:"password" validate:"required,min=6"`
	FirstName      string              `json:"first_name" validate:"required"`
	LastName       string              `json:"last_name" validate:"required"`
	Phone          string              `json:"phone" validate:"omitempty,max=30"`
	Specialization string              `json:"specialization" validate:"required"`
	LicenseNumber  string              `json:"license_number" validate:"required"`
	Bio            string              `json:"bio"`
	Availability   entity.Availability `json:"availability"`
}

type UpdateDoctorRequest struct {
	FirstName      *string             `json:"first_name" validate:"omitempty,min=1"`
	LastName       *string             `json:"last_name" validate:"omitempty,min=1"`
	Email          *string             `json:"email" validate:"omitempty,email"`
	Phone          *string             `json:"phone" validate:"omitempty,max=30"`
	Specialization *string             `json:"specialization" validate:"omitempty,min=1"`
	LicenseNumber  *string             `json:"license_number" validate:"omitempty,min=1"`
	Bio            *string             `json:"bio"`
	Availability   entity.Availability `json:"availability"`
}

type UpdateAvailabilityRequest struct {
	Availability entity.Availability `json:"availability" validate:"required"`
}

// Response DTOs

type DoctorResponse struct {
	ID             int64               `json:"id"`
	UserID         uuid.UUID           `json:"user_id"`
	FirstName      string              `json:"first_name,omitempty"`
	LastName       string              `json:"last_name,omitempty"`
	Email          string              `json:"email,omitempty"`
	Phone          string              `json:"phone,omitempty"`
	Specialization string              `json:"specialization"`
	LicenseNumber  string              `json:"license_number"`
	Bio            string              `json:"bio,omitempty"`
	Availability   entity.Availability `json:"availability"`
	CreatedAt      time.Time           `json:"created_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

// DoctorAvailabilityResponse is the weekly availability plus the scheduled
// appointments of the next 30 days.
type DoctorAvailabilityResponse struct {
	DoctorID     int64               `json:"doctor_id"`
	Availability entity.Availability `json:"availability"`
	BookedSlots  []time.Time         `json:"booked_slots"`
}

// DoctorDayAvailabilityResponse is the calendar view of a single day.
type DoctorDayAvailabilityResponse struct {
	Date         string               `json:"date"`
	Availability *entity.WorkingHours `json:"availability"`
	BookedSlots  []time.Time          `json:"booked_slots"`
}
