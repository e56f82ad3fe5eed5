package repository

import (
	"context"
	"errors"
	"time"

	"medilink/internal/domain/entity"
	domainRepo "medilink/internal/domain/repository"

	"gorm.io/gorm"
)

type supplyRepository struct {
	db *gorm.DB
}

func NewSupplyRepository(db *gorm.DB) domainRepo.SupplyRepository {
	return &supplyRepository{db: db}
}

func (r *supplyRepository) Create(ctx context.Context, supply *entity.Supply) error {
	return conn(ctx, r.db).Create(supply).Error
}

func (r *supplyRepository) FindByID(ctx context.Context, id int64) (*entity.Supply, error) {
	var supply entity.Supply
	err := conn(ctx, r.db).Where("id = ?", id).First(&supply).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &supply, nil
}

func (r *supplyRepository) FindByIDs(ctx context.Context, ids []int64) ([]entity.Supply, error) {
	var supplies []entity.Supply
	if len(ids) == 0 {
		return supplies, nil
	}
	err := conn(ctx, r.db).Where("id IN ?", ids).Order("id").Find(&supplies).Error
	if err != nil {
		return nil, err
	}
	return supplies, nil
}

func (r *supplyRepository) FindAll(ctx context.Context) ([]entity.Supply, error) {
	var supplies []entity.Supply
	err := conn(ctx, r.db).Order("name").Find(&supplies).Error
	if err != nil {
		return nil, err
	}
	return supplies, nil
}

func (r *supplyRepository) Update(ctx context.Context, supply *entity.Supply) error {
	return conn(ctx, r.db).Model(supply).
		Select("name", "description", "current_stock", "minimum_stock", "expiry_date", "unit_price", "supplier", "updated_at").
		Updates(supply).Error
}

func (r *supplyRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&entity.Supply{})
	return result.RowsAffected, result.Error
}

// DecrementIfInStock is a conditional update so that concurrent bookings can
// never drive stock below zero.
func (r *supplyRepository) DecrementIfInStock(ctx context.Context, id int64) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Supply{}).
		Where("id = ? AND current_stock > 0", id).
		Updates(map[string]interface{}{
			"current_stock": gorm.Expr("current_stock - 1"),
			"updated_at":    time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *supplyRepository) IncrementStock(ctx context.Context, id int64, quantity int) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Supply{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_stock": gorm.Expr("current_stock + ?", quantity),
			"updated_at":    time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *supplyRepository) LowStock(ctx context.Context) ([]entity.Supply, error) {
	var supplies []entity.Supply
	err := conn(ctx, r.db).
		Where("current_stock <= minimum_stock").
		Order("current_stock, name").
		Find(&supplies).Error
	if err != nil {
		return nil, err
	}
	return supplies, nil
}

func (r *supplyRepository) ExpiringBetween(ctx context.Context, from, to time.Time) ([]entity.Supply, error) {
	var supplies []entity.Supply
	err := conn(ctx, r.db).
		Where("expiry_date > ? AND expiry_date <= ?", from, to).
		Order("expiry_date").
		Find(&supplies).Error
	if err != nil {
		return nil, err
	}
	return supplies, nil
}
