package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PatientID        *uuid.UUID `json:"patient_id"`
	DoctorID         int64      `json:"doctor_id" validate:"required,gt=0"`
	AppointmentDate  time.Time  `json:"appointment_date" validate:"required"`
	AppointmentType  string     `json:"appointment_type" validate:"required,max=100"`
	Notes            string     `json:"notes"`
	RequiredSupplies []int64    `json:"required_supplies" validate:"omitempty,dive,gt=0"`
}

// UpdateAppointmentRequest carries the editable fields. RequiredSupplies is
// only decoded so that an attempt to change the reserved snapshot can be
// rejected.
type UpdateAppointmentRequest struct {
	AppointmentDate  *time.Time `json:"appointment_date"`
	AppointmentType  *string    `json:"appointment_type" validate:"omitempty,min=1,max=100"`
	Notes            *string    `json:"notes"`
	Status           *string    `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	RequiredSupplies *[]int64   `json:"required_supplies"`
}

type AppointmentListFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
}

// Response DTOs

type AppointmentResponse struct {
	ID               int64     `json:"id"`
	PatientID        uuid.UUID `json:"patient_id"`
	PatientFirstName string    `json:"patient_first_name,omitempty"`
	PatientLastName  string    `json:"patient_last_name,omitempty"`
	DoctorID         int64     `json:"doctor_id"`
	DoctorFirstName  string    `json:"doctor_first_name,omitempty"`
	DoctorLastName   string    `json:"doctor_last_name,omitempty"`
	Specialization   string    `json:"specialization,omitempty"`
	AppointmentDate  time.Time `json:"appointment_date"`
	AppointmentType  string    `json:"appointment_type"`
	Status           string    `json:"status"`
	Notes            string    `json:"notes,omitempty"`
	RequiredSupplies []int64   `json:"required_supplies"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type CreateAppointmentResponse struct {
	ID          int64                `json:"id"`
	Message     string               `json:"message"`
	Warnings    []string             `json:"warnings"`
	Appointment *AppointmentResponse `json:"appointment"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type SupplyCheckResponse struct {
	Available        bool                  `json:"available"`
	Message          string                `json:"message"`
	Supplies         []SupplyStockResponse `json:"supplies"`
	UnavailableCount int                   `json:"unavailable_count"`
	LowStockCount    int                   `json:"low_stock_count"`
	AvailableCount   int                   `json:"available_count"`
}
