package converter

import (
	"medilink/internal/delivery/dto"
	"medilink/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func SupplyToResponse(supply *entity.Supply) *dto.SupplyResponse {
	if supply == nil {
		return nil
	}

	response := &dto.SupplyResponse{
		ID:           supply.ID,
		Name:         supply.Name,
		Description:  supply.Description,
		CurrentStock: supply.CurrentStock,
		MinimumStock: supply.MinimumStock,
		Status:       string(supply.Status()),
		UnitPrice:    supply.UnitPrice,
		Supplier:     supply.Supplier,
		CreatedAt:    supply.CreatedAt,
		UpdatedAt:    supply.UpdatedAt,
	}
	if supply.ExpiryDate != nil {
		response.ExpiryDate = supply.ExpiryDate.Format(dateLayout)
	}

	return response
}

func SuppliesToResponses(supplies []entity.Supply) []dto.SupplyResponse {
	responses := make([]dto.SupplyResponse, len(supplies))
	for i := range supplies {
		responses[i] = *SupplyToResponse(&supplies[i])
	}
	return responses
}

// SuppliesToStock converts supplies to the short stock summary.
func SuppliesToStock(supplies []entity.Supply) []dto.SupplyStockResponse {
	responses := make([]dto.SupplyStockResponse, len(supplies))
	for i, supply := range supplies {
		responses[i] = dto.SupplyStockResponse{
			ID:           supply.ID,
			Name:         supply.Name,
			CurrentStock: supply.CurrentStock,
			MinimumStock: supply.MinimumStock,
			Status:       string(supply.Status()),
		}
	}
	return responses
}
