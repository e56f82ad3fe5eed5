package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyStatus classifies the stock level of a supply. The three bands are
// mutually exclusive and exhaustive.
type SupplyStatus string

const (
	SupplyStatusAvailable   SupplyStatus = "available"
	SupplyStatusLowStock    SupplyStatus = "low_stock"
	SupplyStatusUnavailable SupplyStatus = "unavailable"
)

// MaxStockQuantity bounds a single stock level or reorder quantity.
const MaxStockQuantity = 100000

// Supply is a consumable inventory item
type Supply struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description,omitempty"`
	CurrentStock int             `gorm:"not null;default:0" json:"current_stock"`
	MinimumStock int             `gorm:"not null;default:10" json:"minimum_stock"`
	ExpiryDate   *time.Time      `gorm:"type:date" json:"expiry_date,omitempty"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"unit_price"`
	Supplier     string          `gorm:"type:varchar(255)" json:"supplier,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Supply) TableName() string {
	return "supplies"
}

// Status is determined solely by current stock against zero and the
// minimum stock threshold.
func (s *Supply) Status() SupplyStatus {
	switch {
	case s.CurrentStock <= 0:
		return SupplyStatusUnavailable
	case s.CurrentStock <= s.MinimumStock:
		return SupplyStatusLowStock
	default:
		return SupplyStatusAvailable
	}
}

// StockValue is current stock times unit price.
func (s *Supply) StockValue() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.CurrentStock)))
}
