package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"medilink/internal/converter"
	"medilink/internal/delivery/dto"
	"medilink/internal/domain/entity"
	"medilink/internal/domain/repository"
	"medilink/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrPatientNotFound         = errors.New("patient not found")
	ErrRequiredSuppliesLocked  = errors.New("required supplies are reserved at booking and cannot be changed")
	ErrAppointmentNotEditable  = errors.New("only scheduled appointments can be rescheduled")
	ErrAppointmentTypeRequired = errors.New("appointment type is required")
	ErrInvalidStatusFilter     = errors.New("invalid status filter")
	ErrInvalidDate             = errors.New("invalid date format, use YYYY-MM-DD")
)

// ShortageAlerter is told about bookings that consumed low-stock supplies.
type ShortageAlerter interface {
	SendSupplyShortageAlert(ctx context.Context, appointment *entity.Appointment, supplies []entity.Supply) error
}

type AppointmentUsecase interface {
	GetAll(ctx context.Context, actor entity.Actor, filter dto.AppointmentListFilter) (*dto.AppointmentListResponse, error)
	GetByID(ctx context.Context, actor entity.Actor, id int64) (*dto.AppointmentResponse, error)
	Create(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error)
	Update(ctx context.Context, actor entity.Actor, id int64, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, actor entity.Actor, id int64) error

	Types(ctx context.Context) map[string][]int64
	CheckTypeAvailability(ctx context.Context, appointmentType string) (*dto.SupplyCheckResponse, error)
	DoctorDayAvailability(ctx context.Context, doctorID int64, date string) (*dto.DoctorDayAvailabilityResponse, error)

	PurgeForPatient(ctx context.Context, patientID uuid.UUID) error
	PurgeForDoctor(ctx context.Context, doctorID int64) error
}

type appointmentUsecase struct {
	log             *logrus.Logger
	uow             repository.UnitOfWork
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	userRepo        repository.UserRepository
	supplyUsecase   SupplyUsecase
	shortageAlerter ShortageAlerter
	auditService    service.AuditService
	catalog         *entity.AppointmentTypeCatalog
	location        *time.Location
	now             func() time.Time
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	uow repository.UnitOfWork,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	supplyUsecase SupplyUsecase,
	shortageAlerter ShortageAlerter,
	auditService service.AuditService,
	catalog *entity.AppointmentTypeCatalog,
	location *time.Location,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		uow:             uow,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		userRepo:        userRepo,
		supplyUsecase:   supplyUsecase,
		shortageAlerter: shortageAlerter,
		auditService:    auditService,
		catalog:         catalog,
		location:        location,
		now:             time.Now,
	}
}

// GetAll lists appointments visible to the actor, earliest first.
func (u *appointmentUsecase) GetAll(ctx context.Context, actor entity.Actor, filter dto.AppointmentListFilter) (*dto.AppointmentListResponse, error) {
	query := repository.AppointmentFilter{From: filter.From, To: filter.To}
	if filter.Status != "" {
		status := entity.AppointmentStatus(filter.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatusFilter
		}
		query.Status = status
	}

	switch actor.Role {
	case entity.RoleAdmin:
	case entity.RoleDoctor:
		doctor, err := u.doctorRepo.FindByUserID(ctx, actor.UserID)
		if err != nil {
			u.log.Warnf("Failed to find doctor for user %s: %+v", actor.UserID, err)
			return nil, err
		}
		if doctor == nil {
			return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}}, nil
		}
		query.DoctorID = &doctor.ID
	default:
		query.PatientID = &actor.UserID
	}

	appointments, err := u.appointmentRepo.List(ctx, query)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) GetByID(ctx context.Context, actor entity.Actor, id int64) (*dto.AppointmentResponse, error) {
	appointment, err := u.findOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

// Create books an appointment.
//
// Flow, inside one unit of work:
// 1. Check the requested supplies; any unavailable one rejects the booking
// 2. Reserve one unit per requested id (conditional decrement)
// 3. Insert the appointment with a frozen copy of the ids
// 4. Write the audit entry
// After commit, low-stock supplies trigger a shortage alert.
func (u *appointmentUsecase) Create(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error) {
	patientID := actor.UserID
	if !actor.IsPatient() && req.PatientID != nil {
		patientID = *req.PatientID
	}
	if patientID != actor.UserID {
		patient, err := u.userRepo.FindByID(ctx, patientID)
		if err != nil {
			u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
			return nil, err
		}
		if patient == nil || patient.Role != entity.RolePatient {
			return nil, ErrPatientNotFound
		}
	}

	doctor, err := u.doctorRepo.FindByID(ctx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	appointment := &entity.Appointment{
		PatientID:        patientID,
		DoctorID:         doctor.ID,
		AppointmentDate:  req.AppointmentDate,
		AppointmentType:  req.AppointmentType,
		Status:           entity.AppointmentStatusScheduled,
		Notes:            req.Notes,
		RequiredSupplies: append([]int64{}, req.RequiredSupplies...),
	}

	var check *SupplyCheck
	err = u.uow.Do(ctx, func(ctx context.Context) error {
		var err error
		check, err = u.supplyUsecase.CheckAvailability(ctx, appointment.RequiredSupplies)
		if err != nil {
			return err
		}
		if len(check.Missing) > 0 {
			return fmt.Errorf("%w: %v", ErrUnknownSupply, check.Missing)
		}
		if len(check.Blocking) > 0 {
			return &SuppliesUnavailableError{Supplies: check.Blocking}
		}

		if err := u.supplyUsecase.Reserve(ctx, appointment.RequiredSupplies); err != nil {
			return err
		}

		if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
			if isForeignKeyError(err, "doctor") {
				return ErrDoctorNotFound
			}
			if isForeignKeyError(err, "patient") {
				return ErrPatientNotFound
			}
			u.log.Warnf("Failed to create appointment: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, &actor.UserID, entity.AuditActionAppointmentCreate, "appointment",
			strconv.FormatInt(appointment.ID, 10), appointmentSnapshot(appointment))
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Appointment created: id=%d, doctor=%d, supplies=%v", appointment.ID, appointment.DoctorID, appointment.RequiredSupplies)

	warnings := make([]string, 0, len(check.Warning))
	for _, supply := range check.Warning {
		warnings = append(warnings, fmt.Sprintf("%s is running low", supply.Name))
	}
	if len(check.Warning) > 0 {
		if err := u.shortageAlerter.SendSupplyShortageAlert(ctx, appointment, check.Warning); err != nil {
			u.log.Warnf("Failed to send supply shortage alert for appointment %d: %+v", appointment.ID, err)
		}
	}

	full, err := u.appointmentRepo.FindByID(ctx, appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %d: %+v", appointment.ID, err)
		full = appointment
	}

	return &dto.CreateAppointmentResponse{
		ID:          appointment.ID,
		Message:     "Appointment created successfully",
		Warnings:    warnings,
		Appointment: converter.AppointmentToResponse(full),
	}, nil
}

// Update edits notes, date and type, and moves the status through the state
// machine. Cancelling through Update releases stock like Cancel does.
func (u *appointmentUsecase) Update(ctx context.Context, actor entity.Actor, id int64, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.findOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.RequiredSupplies != nil && !sameIDs(*req.RequiredSupplies, appointment.RequiredSupplies) {
		return nil, ErrRequiredSuppliesLocked
	}

	before := appointmentSnapshot(appointment)
	detailsChanged := false
	if req.AppointmentDate != nil && !req.AppointmentDate.Equal(appointment.AppointmentDate) {
		appointment.AppointmentDate = *req.AppointmentDate
		detailsChanged = true
	}
	if req.AppointmentType != nil && *req.AppointmentType != appointment.AppointmentType {
		appointment.AppointmentType = *req.AppointmentType
		detailsChanged = true
	}
	if detailsChanged && !appointment.IsScheduled() {
		return nil, ErrAppointmentNotEditable
	}
	if req.Notes != nil && *req.Notes != appointment.Notes {
		appointment.Notes = *req.Notes
		detailsChanged = true
	}

	var next entity.AppointmentStatus
	if req.Status != nil && entity.AppointmentStatus(*req.Status) != appointment.Status {
		next = entity.AppointmentStatus(*req.Status)
		if !appointment.Status.CanTransitionTo(next) {
			return nil, entity.ErrInvalidStatusTransition
		}
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if detailsChanged {
			if err := u.appointmentRepo.UpdateDetails(ctx, appointment); err != nil {
				u.log.Warnf("Failed to update appointment %d: %+v", id, err)
				return err
			}
		}

		switch next {
		case entity.AppointmentStatusCancelled:
			if err := u.cancel(ctx, appointment); err != nil {
				return err
			}
		case entity.AppointmentStatusCompleted:
			if err := u.transition(ctx, appointment, next); err != nil {
				return err
			}
		}

		if !detailsChanged && next == "" {
			return nil
		}
		return u.auditService.LogUpdate(ctx, &actor.UserID, entity.AuditActionAppointmentUpdate, "appointment",
			strconv.FormatInt(id, 10), before, appointmentSnapshot(appointment))
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Appointment updated: id=%d, status=%s", id, appointment.Status)
	return converter.AppointmentToResponse(appointment), nil
}

// Cancel moves a scheduled appointment to cancelled and returns its reserved
// supplies. A second cancel fails and leaves stock untouched.
func (u *appointmentUsecase) Cancel(ctx context.Context, actor entity.Actor, id int64) error {
	appointment, err := u.findOwned(ctx, actor, id)
	if err != nil {
		return err
	}
	if !appointment.Status.CanTransitionTo(entity.AppointmentStatusCancelled) {
		return entity.ErrInvalidStatusTransition
	}

	before := appointmentSnapshot(appointment)
	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.cancel(ctx, appointment); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, &actor.UserID, entity.AuditActionAppointmentCancel, "appointment",
			strconv.FormatInt(id, 10), before, appointmentSnapshot(appointment))
	})
	if err != nil {
		return err
	}

	u.log.Infof("Appointment cancelled: id=%d, released=%v", id, appointment.RequiredSupplies)
	return nil
}

// cancel must run inside a unit of work.
func (u *appointmentUsecase) cancel(ctx context.Context, appointment *entity.Appointment) error {
	if err := u.transition(ctx, appointment, entity.AppointmentStatusCancelled); err != nil {
		return err
	}
	return u.supplyUsecase.Release(ctx, appointment.SupplyIDs())
}

// transition applies the status change only if the row is still in the
// status it was read with.
func (u *appointmentUsecase) transition(ctx context.Context, appointment *entity.Appointment, next entity.AppointmentStatus) error {
	from := appointment.Status
	if err := appointment.TransitionTo(next); err != nil {
		return err
	}

	affected, err := u.appointmentRepo.TransitionStatus(ctx, appointment.ID, from, next)
	if err != nil {
		u.log.Warnf("Failed to set appointment %d status to %s: %+v", appointment.ID, next, err)
		return err
	}
	if affected == 0 {
		appointment.Status = from
		return entity.ErrInvalidStatusTransition
	}
	return nil
}

func (u *appointmentUsecase) Types(ctx context.Context) map[string][]int64 {
	return u.catalog.All()
}

// CheckTypeAvailability reports the stock of the supplies an appointment
// type needs. Unknown types need no supplies.
func (u *appointmentUsecase) CheckTypeAvailability(ctx context.Context, appointmentType string) (*dto.SupplyCheckResponse, error) {
	if appointmentType == "" {
		return nil, ErrAppointmentTypeRequired
	}

	ids := u.catalog.RequiredSupplies(appointmentType)
	if len(ids) == 0 {
		message := "No supplies required for this appointment type"
		if !u.catalog.Has(appointmentType) {
			message = "Unknown appointment type, no supplies required"
		}
		return &dto.SupplyCheckResponse{
			Available: true,
			Message:   message,
			Supplies:  []dto.SupplyStockResponse{},
		}, nil
	}

	check, err := u.supplyUsecase.CheckAvailability(ctx, ids)
	if err != nil {
		return nil, err
	}

	available := len(check.Blocking) == 0 && len(check.Missing) == 0
	response := &dto.SupplyCheckResponse{
		Available:        available,
		Message:          "All required supplies are available",
		Supplies:         converter.SuppliesToStock(check.Supplies),
		UnavailableCount: len(check.Blocking) + len(check.Missing),
		LowStockCount:    len(check.Warning),
		AvailableCount:   len(check.Supplies) - len(check.Blocking) - len(check.Warning),
	}
	if !available {
		response.Message = "Some supplies are unavailable"
	}
	return response, nil
}

// DoctorDayAvailability returns the doctor's working hours on date
// (YYYY-MM-DD, default today) and the scheduled appointments of that day.
func (u *appointmentUsecase) DoctorDayAvailability(ctx context.Context, doctorID int64, date string) (*dto.DoctorDayAvailabilityResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	day := u.now().In(u.location)
	if date != "" {
		day, err = time.ParseInLocation("2006-01-02", date, u.location)
		if err != nil {
			return nil, ErrInvalidDate
		}
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, u.location)
	end := start.AddDate(0, 0, 1)

	appointments, err := u.appointmentRepo.List(ctx, repository.AppointmentFilter{
		DoctorID: &doctor.ID,
		Status:   entity.AppointmentStatusScheduled,
		From:     &start,
		To:       &end,
	})
	if err != nil {
		u.log.Warnf("Failed to list appointments of doctor %d: %+v", doctorID, err)
		return nil, err
	}

	response := &dto.DoctorDayAvailabilityResponse{
		Date:        start.Format("2006-01-02"),
		BookedSlots: make([]time.Time, len(appointments)),
	}
	if hours, ok := doctor.WeeklyAvailability().ForDate(start); ok {
		response.Availability = &hours
	}
	for i, appointment := range appointments {
		response.BookedSlots[i] = appointment.AppointmentDate
	}
	return response, nil
}

// PurgeForPatient deletes every appointment of the patient, returning the
// stock still reserved by scheduled ones.
func (u *appointmentUsecase) PurgeForPatient(ctx context.Context, patientID uuid.UUID) error {
	return u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.releaseScheduled(ctx, repository.AppointmentFilter{PatientID: &patientID}); err != nil {
			return err
		}
		if err := u.appointmentRepo.DeleteByPatient(ctx, patientID); err != nil {
			u.log.Warnf("Failed to delete appointments of patient %s: %+v", patientID, err)
			return err
		}
		return nil
	})
}

// PurgeForDoctor deletes every appointment of the doctor, returning the
// stock still reserved by scheduled ones.
func (u *appointmentUsecase) PurgeForDoctor(ctx context.Context, doctorID int64) error {
	return u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.releaseScheduled(ctx, repository.AppointmentFilter{DoctorID: &doctorID}); err != nil {
			return err
		}
		if err := u.appointmentRepo.DeleteByDoctor(ctx, doctorID); err != nil {
			u.log.Warnf("Failed to delete appointments of doctor %d: %+v", doctorID, err)
			return err
		}
		return nil
	})
}

func (u *appointmentUsecase) releaseScheduled(ctx context.Context, filter repository.AppointmentFilter) error {
	filter.Status = entity.AppointmentStatusScheduled
	appointments, err := u.appointmentRepo.List(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list scheduled appointments: %+v", err)
		return err
	}
	for _, appointment := range appointments {
		if err := u.supplyUsecase.Release(ctx, appointment.SupplyIDs()); err != nil {
			return err
		}
	}
	return nil
}

// findOwned loads an appointment and checks the actor may act on it:
// admins on all, patients on their own, doctors on those booked with them.
func (u *appointmentUsecase) findOwned(ctx context.Context, actor entity.Actor, id int64) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	switch actor.Role {
	case entity.RoleAdmin:
		return appointment, nil
	case entity.RoleDoctor:
		doctor, err := u.doctorRepo.FindByUserID(ctx, actor.UserID)
		if err != nil {
			u.log.Warnf("Failed to find doctor for user %s: %+v", actor.UserID, err)
			return nil, err
		}
		if doctor != nil && doctor.ID == appointment.DoctorID {
			return appointment, nil
		}
	case entity.RolePatient:
		if appointment.PatientID == actor.UserID {
			return appointment, nil
		}
	}
	return nil, ErrForbidden
}

func appointmentSnapshot(a *entity.Appointment) map[string]interface{} {
	return map[string]interface{}{
		"patient_id":        a.PatientID,
		"doctor_id":         a.DoctorID,
		"appointment_date":  a.AppointmentDate,
		"appointment_type":  a.AppointmentType,
		"status":            a.Status,
		"notes":             a.Notes,
		"required_supplies": a.SupplyIDs(),
	}
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
