package repository

import (
	"context"
	"time"

	"medilink/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentFilter narrows List. Zero fields do not filter.
type AppointmentFilter struct {
	PatientID *uuid.UUID
	DoctorID  *int64
	Status    entity.AppointmentStatus
	From      *time.Time
	To        *time.Time
	Limit     int
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id int64) (*entity.Appointment, error)
	// List returns matches ordered by appointment_date ascending.
	List(ctx context.Context, filter AppointmentFilter) ([]entity.Appointment, error)
	// ListCancelled returns cancelled appointments, most recently updated first.
	ListCancelled(ctx context.Context, limit int) ([]entity.Appointment, error)
	// UpdateDetails persists notes, date and type only.
	UpdateDetails(ctx context.Context, appointment *entity.Appointment) error
	// TransitionStatus sets status to `to` only if it is currently `from`.
	// Returns affected rows: 1 = transitioned, 0 = status had moved on.
	TransitionStatus(ctx context.Context, id int64, from, to entity.AppointmentStatus) (int64, error)
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
	DeleteByDoctor(ctx context.Context, doctorID int64) error

	CountByStatus(ctx context.Context) (map[entity.AppointmentStatus]int64, error)
	MonthlyCounts(ctx context.Context, since time.Time) ([]entity.MonthlyCount, error)
	SupplyUsage(ctx context.Context) ([]entity.SupplyUsage, error)
}
