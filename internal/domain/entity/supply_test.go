package entity

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSupplyStatus(t *testing.T) {
	tests := []struct {
		name    string
		current int
		minimum int
		want    SupplyStatus
	}{
		{"zero stock", 0, 5, SupplyStatusUnavailable},
		{"negative stock", -2, 5, SupplyStatusUnavailable},
		{"zero stock zero minimum", 0, 0, SupplyStatusUnavailable},
		{"one below minimum", 4, 5, SupplyStatusLowStock},
		{"at minimum", 5, 5, SupplyStatusLowStock},
		{"single unit", 1, 5, SupplyStatusLowStock},
		{"above minimum", 6, 5, SupplyStatusAvailable},
		{"zero minimum", 1, 0, SupplyStatusAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Supply{CurrentStock: tt.current, MinimumStock: tt.minimum}
			if got := s.Status(); got != tt.want {
				t.Errorf("Status() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSupplyStatusBandsAreExhaustive(t *testing.T) {
	for minimum := 0; minimum <= 10; minimum++ {
		for current := -3; current <= 15; current++ {
			s := &Supply{CurrentStock: current, MinimumStock: minimum}
			matches := 0
			if current <= 0 {
				matches++
			}
			if current > 0 && current <= minimum {
				matches++
			}
			if current > minimum && current > 0 {
				matches++
			}
			if matches != 1 {
				t.Fatalf("current=%d minimum=%d falls into %d bands", current, minimum, matches)
			}
			switch s.Status() {
			case SupplyStatusAvailable, SupplyStatusLowStock, SupplyStatusUnavailable:
			default:
				t.Fatalf("unexpected status %q", s.Status())
			}
		}
	}
}

func TestSupplyStockValue(t *testing.T) {
	s := &Supply{CurrentStock: 4, UnitPrice: decimal.RequireFromString("0.25")}
	if got := s.StockValue(); !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("StockValue() = %s, want 1", got)
	}
}
