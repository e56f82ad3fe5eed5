package dto

import (
	"medilink/internal/domain/entity"

	"github.com/shopspring/decimal"
)

type LowStockReportResponse struct {
	Supplies     []SupplyResponse `json:"supplies"`
	Total        int              `json:"total"`
	Unavailable  int              `json:"unavailable"`
	ReorderValue decimal.Decimal  `json:"reorder_value"`
	StockValue   decimal.Decimal  `json:"stock_value"`
}

type SupplyUsageReportResponse struct {
	Usage []entity.SupplyUsage `json:"usage"`
}

type AppointmentStatsResponse struct {
	Total        int64                 `json:"total"`
	ByStatus     map[string]int64      `json:"by_status"`
	Monthly      []entity.MonthlyCount `json:"monthly"`
	UpcomingWeek int                   `json:"upcoming_week"`
}
