package repository

import (
	"context"
	"errors"

	"medilink/internal/domain/entity"
	domainRepo "medilink/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) domainRepo.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	return conn(ctx, r.db).Omit("User").Create(doctor).Error
}

func (r *doctorRepository) FindByID(ctx context.Context, id int64) (*entity.Doctor, error) {
	return r.findOne(ctx, "doctors.id = ?", id)
}

func (r *doctorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Doctor, error) {
	return r.findOne(ctx, "doctors.user_id = ?", userID)
}

func (r *doctorRepository) FindByLicenseNumber(ctx context.Context, license string) (*entity.Doctor, error) {
	return r.findOne(ctx, "doctors.license_number = ?", license)
}

func (r *doctorRepository) findOne(ctx context.Context, query string, arg interface{}) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := conn(ctx, r.db).Preload("User").Where(query, arg).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(ctx context.Context) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := conn(ctx, r.db).
		Joins("User").
		Order(`"User".first_name, "User".last_name`).
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	return conn(ctx, r.db).Model(doctor).Omit("User").
		Select("specialization", "license_number", "bio", "availability", "updated_at").
		Updates(doctor).Error
}

func (r *doctorRepository) Delete(ctx context.Context, id int64) error {
	return conn(ctx, r.db).Where("id = ?", id).Delete(&entity.Doctor{}).Error
}
