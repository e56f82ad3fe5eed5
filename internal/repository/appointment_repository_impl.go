package repository

import (
	"context"
	"errors"
	"time"

	"medilink/internal/domain/entity"
	domainRepo "medilink/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return conn(ctx, r.db).Omit("Patient", "Doctor").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, id int64) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := conn(ctx, r.db).
		Preload("Patient").
		Preload("Doctor.User").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, filter domainRepo.AppointmentFilter) ([]entity.Appointment, error) {
	query := conn(ctx, r.db).Preload("Patient").Preload("Doctor.User")

	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.DoctorID != nil {
		query = query.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("appointment_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("appointment_date < ?", *filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var appointments []entity.Appointment
	if err := query.Order("appointment_date ASC, id ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) ListCancelled(ctx context.Context, limit int) ([]entity.Appointment, error) {
	query := conn(ctx, r.db).
		Preload("Patient").
		Preload("Doctor.User").
		Where("status = ?", entity.AppointmentStatusCancelled).
		Order("updated_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var appointments []entity.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateDetails(ctx context.Context, appointment *entity.Appointment) error {
	return conn(ctx, r.db).Model(appointment).
		Select("notes", "appointment_date", "appointment_type", "updated_at").
		Updates(appointment).Error
}

// TransitionStatus atomically moves an appointment out of `from`. Two
// concurrent cancels of the same appointment cannot both succeed.
func (r *appointmentRepository) TransitionStatus(ctx context.Context, id int64, from, to entity.AppointmentStatus) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	return conn(ctx, r.db).Where("patient_id = ?", patientID).Delete(&entity.Appointment{}).Error
}

func (r *appointmentRepository) DeleteByDoctor(ctx context.Context, doctorID int64) error {
	return conn(ctx, r.db).Where("doctor_id = ?", doctorID).Delete(&entity.Appointment{}).Error
}

func (r *appointmentRepository) CountByStatus(ctx context.Context) (map[entity.AppointmentStatus]int64, error) {
	var rows []struct {
		Status entity.AppointmentStatus
		Count  int64
	}
	err := conn(ctx, r.db).Model(&entity.Appointment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.AppointmentStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *appointmentRepository) MonthlyCounts(ctx context.Context, since time.Time) ([]entity.MonthlyCount, error) {
	var counts []entity.MonthlyCount
	err := conn(ctx, r.db).Raw(`
		SELECT to_char(date_trunc('month', appointment_date), 'YYYY-MM') AS month, COUNT(*) AS count
		FROM appointments
		WHERE appointment_date >= ?
		GROUP BY 1
		ORDER BY 1`, since).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// SupplyUsage expands the required_supplies jsonb snapshot of every completed
// appointment and counts it per supply.
func (r *appointmentRepository) SupplyUsage(ctx context.Context) ([]entity.SupplyUsage, error) {
	var usage []entity.SupplyUsage
	err := conn(ctx, r.db).Raw(`
		SELECT s.id AS supply_id, s.name AS supply_name, COUNT(*) AS usage_count
		FROM appointments a
		CROSS JOIN LATERAL jsonb_array_elements_text(a.required_supplies) AS rs(supply_id)
		JOIN supplies s ON s.id = rs.supply_id::bigint
		WHERE a.status = ?
		GROUP BY s.id, s.name
		ORDER BY usage_count DESC, s.name`, entity.AppointmentStatusCompleted).
		Scan(&usage).Error
	if err != nil {
		return nil, err
	}
	return usage, nil
}
