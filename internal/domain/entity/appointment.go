package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var ErrInvalidStatusTransition = errors.New("invalid appointment status transition")

// AppointmentStatus is the lifecycle state of an appointment.
// scheduled is initial; completed and cancelled are terminal.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// CanTransitionTo reports whether next is reachable from s in one step:
// only a scheduled appointment moves, and only into a terminal state.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	return s.Valid() && !s.IsTerminal() && next.IsTerminal()
}

// Appointment links one patient and one doctor. RequiredSupplies is the
// snapshot of supply ids reserved at booking time.
type Appointment struct {
	ID               int64                      `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID        uuid.UUID                  `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID         int64                      `gorm:"not null;index" json:"doctor_id"`
	AppointmentDate  time.Time                  `gorm:"not null;index" json:"appointment_date"`
	AppointmentType  string                     `gorm:"type:varchar(100);not null" json:"appointment_type"`
	Status           AppointmentStatus          `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Notes            string                     `gorm:"type:text" json:"notes,omitempty"`
	RequiredSupplies datatypes.JSONSlice[int64] `gorm:"type:jsonb" json:"required_supplies"`
	CreatedAt        time.Time                  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time                  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient User   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// TransitionTo moves the appointment to next or returns
// ErrInvalidStatusTransition, leaving the status untouched.
func (a *Appointment) TransitionTo(next AppointmentStatus) error {
	if !a.Status.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}
	a.Status = next
	return nil
}

func (a *Appointment) IsScheduled() bool {
	return a.Status == AppointmentStatusScheduled
}

// SupplyIDs returns a copy of the frozen required-supply list.
func (a *Appointment) SupplyIDs() []int64 {
	ids := make([]int64, len(a.RequiredSupplies))
	copy(ids, a.RequiredSupplies)
	return ids
}
