package repository

import (
	"context"
	"time"

	"medilink/internal/domain/entity"
)

type SupplyRepository interface {
	Create(ctx context.Context, supply *entity.Supply) error
	FindByID(ctx context.Context, id int64) (*entity.Supply, error)
	FindByIDs(ctx context.Context, ids []int64) ([]entity.Supply, error)
	FindAll(ctx context.Context) ([]entity.Supply, error)
	Update(ctx context.Context, supply *entity.Supply) error
	Delete(ctx context.Context, id int64) (int64, error)

	// DecrementIfInStock takes one unit only while current stock is positive.
	// Returns affected rows: 1 = reserved, 0 = out of stock or missing.
	DecrementIfInStock(ctx context.Context, id int64) (int64, error)
	// IncrementStock adds quantity units. Returns affected rows.
	IncrementStock(ctx context.Context, id int64, quantity int) (int64, error)

	// LowStock returns supplies at or below their minimum, lowest stock first.
	LowStock(ctx context.Context) ([]entity.Supply, error)
	// ExpiringBetween returns supplies with from < expiry_date <= to.
	ExpiringBetween(ctx context.Context, from, to time.Time) ([]entity.Supply, error)
}
