package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"medilink/internal/converter"
	"medilink/internal/delivery/dto"
	"medilink/internal/domain/entity"
	"medilink/internal/domain/repository"
	"medilink/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrDoctorNotFound       = errors.New("doctor not found")
	ErrLicenseAlreadyExists = errors.New("license number already exists")
	ErrInvalidAvailability  = errors.New("invalid availability")
)

// bookedSlotsWindow is how far ahead GetAvailability reports booked slots.
const bookedSlotsWindow = 30 * 24 * time.Hour

type DoctorUsecase interface {
	GetAll(ctx context.Context) (*dto.DoctorListResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.DoctorResponse, error)
	Create(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	Update(ctx context.Context, actor entity.Actor, id int64, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	Delete(ctx context.Context, actor entity.Actor, id int64) error
	GetAvailability(ctx context.Context, id int64) (*dto.DoctorAvailabilityResponse, error)
	UpdateAvailability(ctx context.Context, actor entity.Actor, id int64, availability entity.Availability) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	log                *logrus.Logger
	uow                repository.UnitOfWork
	userRepo           repository.UserRepository
	doctorRepo         repository.DoctorRepository
	appointmentRepo    repository.AppointmentRepository
	appointmentUsecase AppointmentUsecase
	auditService       service.AuditService
	now                func() time.Time
}

func NewDoctorUsecase(
	log *logrus.Logger,
	uow repository.UnitOfWork,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	appointmentUsecase AppointmentUsecase,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		log:                log,
		uow:                uow,
		userRepo:           userRepo,
		doctorRepo:         doctorRepo,
		appointmentRepo:    appointmentRepo,
		appointmentUsecase: appointmentUsecase,
		auditService:       auditService,
		now:                time.Now,
	}
}

func (u *doctorUsecase) GetAll(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) GetByID(ctx context.Context, id int64) (*dto.DoctorResponse, error) {
	doctor, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.DoctorToResponse(doctor), nil
}

// Create registers the user account and its doctor record in one transaction.
func (u *doctorUsecase) Create(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	if err := req.Availability.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAvailability, err)
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Email:     strings.ToLower(req.Email),
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      entity.RoleDoctor,
	}
	doctor := &entity.Doctor{
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
		Bio:            req.Bio,
	}
	doctor.SetAvailability(req.Availability)

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		return u.createDoctorAccount(ctx, user, doctor)
	})
	if err != nil {
		return nil, err
	}

	doctor.User = *user
	u.log.Infof("Doctor created: id=%d, user=%s", doctor.ID, user.ID)
	return converter.DoctorToResponse(doctor), nil
}

// createDoctorAccount inserts user then doctor. Must run inside a unit of work.
func (u *doctorUsecase) createDoctorAccount(ctx context.Context, user *entity.User, doctor *entity.Doctor) error {
	existing, err := u.userRepo.FindByEmail(ctx, user.Email)
	if err != nil {
		u.log.Warnf("Failed to check email %s: %+v", user.Email, err)
		return err
	}
	if existing != nil {
		return ErrEmailAlreadyExists
	}

	taken, err := u.doctorRepo.FindByLicenseNumber(ctx, doctor.LicenseNumber)
	if err != nil {
		u.log.Warnf("Failed to check license number: %+v", err)
		return err
	}
	if taken != nil {
		return ErrLicenseAlreadyExists
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return err
	}

	doctor.UserID = user.ID
	if err := u.doctorRepo.Create(ctx, doctor); err != nil {
		if isDuplicateKeyError(err, "license") {
			return ErrLicenseAlreadyExists
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return err
	}
	return nil
}

// Update changes the doctor record and the user's contact details. Allowed
// for admins and the doctor themselves.
func (u *doctorUsecase) Update(ctx context.Context, actor entity.Actor, id int64, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && doctor.UserID != actor.UserID {
		return nil, ErrForbidden
	}

	if req.Availability != nil {
		if err := req.Availability.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAvailability, err)
		}
		doctor.SetAvailability(req.Availability)
	}
	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.LicenseNumber != nil {
		doctor.LicenseNumber = *req.LicenseNumber
	}
	if req.Bio != nil {
		doctor.Bio = *req.Bio
	}

	user := &doctor.User
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = strings.ToLower(*req.Email)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.userRepo.Update(ctx, user); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			u.log.Warnf("Failed to update user %s: %+v", user.ID, err)
			return err
		}
		if err := u.doctorRepo.Update(ctx, doctor); err != nil {
			if isDuplicateKeyError(err, "license") {
				return ErrLicenseAlreadyExists
			}
			u.log.Warnf("Failed to update doctor %d: %+v", id, err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

// Delete removes the doctor record and all of its appointments. The user
// account stays.
func (u *doctorUsecase) Delete(ctx context.Context, actor entity.Actor, id int64) error {
	doctor, err := u.find(ctx, id)
	if err != nil {
		return err
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.appointmentUsecase.PurgeForDoctor(ctx, doctor.ID); err != nil {
			return err
		}
		if err := u.doctorRepo.Delete(ctx, doctor.ID); err != nil {
			u.log.Warnf("Failed to delete doctor %d: %+v", id, err)
			return err
		}
		return u.auditService.LogDelete(ctx, &actor.UserID, entity.AuditActionDoctorDelete, "doctor",
			strconv.FormatInt(id, 10), map[string]interface{}{
				"user_id":        doctor.UserID,
				"license_number": doctor.LicenseNumber,
			})
	})
	if err != nil {
		return err
	}

	u.log.Infof("Doctor deleted: id=%d", id)
	return nil
}

// GetAvailability returns the weekly availability and the scheduled
// appointments of the next 30 days.
func (u *doctorUsecase) GetAvailability(ctx context.Context, id int64) (*dto.DoctorAvailabilityResponse, error) {
	doctor, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}

	from := u.now()
	to := from.Add(bookedSlotsWindow)
	appointments, err := u.appointmentRepo.List(ctx, repository.AppointmentFilter{
		DoctorID: &doctor.ID,
		Status:   entity.AppointmentStatusScheduled,
		From:     &from,
		To:       &to,
	})
	if err != nil {
		u.log.Warnf("Failed to list appointments of doctor %d: %+v", id, err)
		return nil, err
	}

	slots := make([]time.Time, len(appointments))
	for i, appointment := range appointments {
		slots[i] = appointment.AppointmentDate
	}

	return &dto.DoctorAvailabilityResponse{
		DoctorID:     doctor.ID,
		Availability: doctor.WeeklyAvailability(),
		BookedSlots:  slots,
	}, nil
}

func (u *doctorUsecase) UpdateAvailability(ctx context.Context, actor entity.Actor, id int64, availability entity.Availability) (*dto.DoctorResponse, error) {
	doctor, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && doctor.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	if err := availability.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAvailability, err)
	}

	doctor.SetAvailability(availability)
	if err := u.doctorRepo.Update(ctx, doctor); err != nil {
		u.log.Warnf("Failed to update availability of doctor %d: %+v", id, err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) find(ctx context.Context, id int64) (*entity.Doctor, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}
