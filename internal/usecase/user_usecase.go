package usecase

import (
	"context"
	"errors"
	"strings"

	"medilink/internal/converter"
	"medilink/internal/delivery/dto"
	"medilink/internal/domain/entity"
	"medilink/internal/domain/repository"
	"medilink/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
	ErrRoleChangeDenied = errors.New("only admins can change roles")
)

type UserUsecase interface {
	GetAll(ctx context.Context) (*dto.UserListResponse, error)
	Profile(ctx context.Context, actor entity.Actor) (*dto.UserResponse, error)
	GetByID(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.UserResponse, error)
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	Update(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, actor entity.Actor, id uuid.UUID) error
}

type userUsecase struct {
	log                *logrus.Logger
	uow                repository.UnitOfWork
	userRepo           repository.UserRepository
	doctorRepo         repository.DoctorRepository
	tokenRepo          repository.TokenRepository
	doctorUsecase      DoctorUsecase
	appointmentUsecase AppointmentUsecase
	auditService       service.AuditService
}

func NewUserUsecase(
	log *logrus.Logger,
	uow repository.UnitOfWork,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	tokenRepo repository.TokenRepository,
	doctorUsecase DoctorUsecase,
	appointmentUsecase AppointmentUsecase,
	auditService service.AuditService,
) UserUsecase {
	return &userUsecase{
		log:                log,
		uow:                uow,
		userRepo:           userRepo,
		doctorRepo:         doctorRepo,
		tokenRepo:          tokenRepo,
		doctorUsecase:      doctorUsecase,
		appointmentUsecase: appointmentUsecase,
		auditService:       auditService,
	}
}

// GetAll lists every account ordered by first name.
func (u *userUsecase) GetAll(ctx context.Context) (*dto.UserListResponse, error) {
	users, err := u.userRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find users: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(users),
		Total: len(users),
	}, nil
}

func (u *userUsecase) Profile(ctx context.Context, actor entity.Actor) (*dto.UserResponse, error) {
	user, err := u.find(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return converter.UserToResponse(user), nil
}

func (u *userUsecase) GetByID(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.UserResponse, error) {
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, ErrForbidden
	}

	user, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.UserToResponse(user), nil
}

// Create adds an account of any role. Doctor accounts get their doctor
// record in the same transaction.
func (u *userUsecase) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if entity.Role(req.Role) == entity.RoleDoctor {
		doctor, err := u.doctorUsecase.Create(ctx, &dto.CreateDoctorRequest{
			Email:          req.Email,
			Password:       req.Password,
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			Phone:          req.Phone,
			Specialization: req.Specialization,
			LicenseNumber:  req.LicenseNumber,
			Bio:            req.Bio,
		})
		if err != nil {
			return nil, err
		}
		return &dto.UserResponse{
			ID:        doctor.UserID,
			Email:     doctor.Email,
			FirstName: doctor.FirstName,
			LastName:  doctor.LastName,
			Phone:     doctor.Phone,
			Role:      string(entity.RoleDoctor),
			Doctor:    doctor,
			CreatedAt: doctor.CreatedAt,
			UpdatedAt: doctor.CreatedAt,
		}, nil
	}

	email := strings.ToLower(req.Email)
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Email:     email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      entity.Role(req.Role),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	u.log.Infof("User created: id=%s, role=%s", user.ID, user.Role)
	return converter.UserToResponse(user), nil
}

// Update is allowed for admins and the account owner. Only admins change
// roles; the password changes only when a new one is given.
func (u *userUsecase) Update(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, ErrForbidden
	}

	user, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}

	// sessions carry the role and were issued against the old password
	revokeSessions := false

	if req.Role != nil && entity.Role(*req.Role) != user.Role {
		if !actor.IsAdmin() {
			return nil, ErrRoleChangeDenied
		}
		user.Role = entity.Role(*req.Role)
		revokeSessions = true
	}
	if req.Email != nil {
		email := strings.ToLower(*req.Email)
		if email != user.Email {
			taken, err := u.userRepo.FindByEmail(ctx, email)
			if err != nil {
				u.log.Warnf("Failed to find user by email: %+v", err)
				return nil, err
			}
			if taken != nil && taken.ID != user.ID {
				return nil, ErrEmailAlreadyExists
			}
			user.Email = email
		}
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Password != nil && *req.Password != "" {
		hashedPassword, err := hashPassword(*req.Password)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		user.Password = hashedPassword
		revokeSessions = true
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to update user %s: %+v", id, err)
		return nil, err
	}

	if revokeSessions {
		if err := u.tokenRepo.RevokeAll(ctx, user.ID); err != nil {
			u.log.Warnf("Failed to revoke tokens of user %s: %+v", id, err)
			return nil, err
		}
	}

	return converter.UserToResponse(user), nil
}

// Delete removes an account with its doctor record and every appointment it
// takes part in. Reserved stock of scheduled appointments is returned.
func (u *userUsecase) Delete(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	if actor.UserID == id {
		return ErrCannotDeleteSelf
	}

	user, err := u.find(ctx, id)
	if err != nil {
		return err
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.appointmentUsecase.PurgeForPatient(ctx, user.ID); err != nil {
			return err
		}

		doctor, err := u.doctorRepo.FindByUserID(ctx, user.ID)
		if err != nil {
			u.log.Warnf("Failed to find doctor for user %s: %+v", id, err)
			return err
		}
		if doctor != nil {
			if err := u.appointmentUsecase.PurgeForDoctor(ctx, doctor.ID); err != nil {
				return err
			}
			if err := u.doctorRepo.Delete(ctx, doctor.ID); err != nil {
				u.log.Warnf("Failed to delete doctor %d: %+v", doctor.ID, err)
				return err
			}
		}

		if err := u.userRepo.Delete(ctx, user.ID); err != nil {
			u.log.Warnf("Failed to delete user %s: %+v", id, err)
			return err
		}

		return u.auditService.LogDelete(ctx, &actor.UserID, entity.AuditActionUserDelete, "user",
			user.ID.String(), map[string]interface{}{
				"email": user.Email,
				"role":  user.Role,
			})
	})
	if err != nil {
		return err
	}

	if err := u.tokenRepo.RevokeAll(ctx, user.ID); err != nil {
		u.log.Warnf("Failed to revoke tokens of user %s: %+v", id, err)
	}

	u.log.Infof("User deleted: id=%s", id)
	return nil
}

func (u *userUsecase) find(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := u.userRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", id, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
