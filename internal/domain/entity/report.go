package entity

// SupplyUsage counts completed appointments that consumed a supply.
type SupplyUsage struct {
	SupplyID   int64  `json:"supply_id"`
	SupplyName string `json:"supply_name"`
	UsageCount int64  `json:"usage_count"`
}

// MonthlyCount is the number of appointments in one calendar month (YYYY-MM).
type MonthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}
