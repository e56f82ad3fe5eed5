package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateSupplyRequest struct {
	Name         string           `json:"name" validate:"required,max=255"`
	Description  string           `json:"description"`
	CurrentStock int              `json:"current_stock" validate:"gte=0,lte=100000"`
	MinimumStock int              `json:"minimum_stock" validate:"gte=0,lte=100000"`
	ExpiryDate   string           `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	Supplier     string           `json:"supplier" validate:"omitempty,max=255"`
}

// UpdateSupplyRequest changes only the fields that are present. An empty
// expiry_date clears it.
type UpdateSupplyRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description  *string          `json:"description"`
	CurrentStock *int             `json:"current_stock" validate:"omitempty,gte=0,lte=100000"`
	MinimumStock *int             `json:"minimum_stock" validate:"omitempty,gte=0,lte=100000"`
	ExpiryDate   *string          `json:"expiry_date"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	Supplier     *string          `json:"supplier" validate:"omitempty,max=255"`
}

type ReorderRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0,lte=100000"`
}

// Response DTOs

type SupplyResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	CurrentStock int             `json:"current_stock"`
	MinimumStock int             `json:"minimum_stock"`
	Status       string          `json:"status"`
	ExpiryDate   string          `json:"expiry_date,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Supplier     string          `json:"supplier,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type SupplyListResponse struct {
	Supplies []SupplyResponse `json:"supplies"`
	Total    int              `json:"total"`
}

type ReorderResponse struct {
	Message  string `json:"message"`
	SupplyID int64  `json:"supply_id"`
	Quantity int    `json:"quantity"`
	NewStock int    `json:"new_stock"`
}

// SupplyStockResponse is the stock summary used in availability checks and
// error details.
type SupplyStockResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CurrentStock int    `json:"current_stock"`
	MinimumStock int    `json:"minimum_stock,omitempty"`
	Status       string `json:"status,omitempty"`
}
