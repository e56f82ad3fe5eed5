package handler

import (
	"net/http"

	"medilink/internal/delivery/dto"
	"medilink/internal/usecase"
	"medilink/pkg/response"
	"medilink/pkg/validator"

	"github.com/sirupsen/logrus"
)

type SupplyHandler struct {
	log           *logrus.Logger
	supplyUsecase usecase.SupplyUsecase
	validator     *validator.CustomValidator
}

func NewSupplyHandler(log *logrus.Logger, supplyUsecase usecase.SupplyUsecase, validator *validator.CustomValidator) *SupplyHandler {
	return &SupplyHandler{
		log:           log,
		supplyUsecase: supplyUsecase,
		validator:     validator,
	}
}

func (h *SupplyHandler) GetAllSupplies(w http.ResponseWriter, r *http.Request) {
	supplies, err := h.supplyUsecase.GetAll(r.Context())
	if err != nil {
		writeError(w, h.log, "get supplies", err)
		return
	}

	response.Success(w, http.StatusOK, supplies)
}

func (h *SupplyHandler) GetLowStock(w http.ResponseWriter, r *http.Request) {
	supplies, err := h.supplyUsecase.LowStock(r.Context())
	if err != nil {
		writeError(w, h.log, "get low stock supplies", err)
		return
	}

	response.Success(w, http.StatusOK, supplies)
}

func (h *SupplyHandler) GetSupply(w http.ResponseWriter, r *http.Request) {
	supplyID, ok := pathInt64(w, r, "id", "supply")
	if !ok {
		return
	}

	supply, err := h.supplyUsecase.GetByID(r.Context(), supplyID)
	if err != nil {
		writeError(w, h.log, "get supply", err)
		return
	}

	response.Success(w, http.StatusOK, supply)
}

func (h *SupplyHandler) CreateSupply(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSupplyRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	supply, err := h.supplyUsecase.Create(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, "create supply", err)
		return
	}

	response.Success(w, http.StatusCreated, supply)
}

func (h *SupplyHandler) UpdateSupply(w http.ResponseWriter, r *http.Request) {
	supplyID, ok := pathInt64(w, r, "id", "supply")
	if !ok {
		return
	}

	var req dto.UpdateSupplyRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	supply, err := h.supplyUsecase.Update(r.Context(), supplyID, &req)
	if err != nil {
		writeError(w, h.log, "update supply", err)
		return
	}

	response.Success(w, http.StatusOK, supply)
}

func (h *SupplyHandler) DeleteSupply(w http.ResponseWriter, r *http.Request) {
	supplyID, ok := pathInt64(w, r, "id", "supply")
	if !ok {
		return
	}

	if err := h.supplyUsecase.Delete(r.Context(), supplyID); err != nil {
		writeError(w, h.log, "delete supply", err)
		return
	}

	response.Message(w, http.StatusOK, "Supply deleted successfully")
}

// Reorder adds quantity units to the supply's stock.
func (h *SupplyHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	supplyID, ok := pathInt64(w, r, "id", "supply")
	if !ok {
		return
	}

	var req dto.ReorderRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	reorder, err := h.supplyUsecase.Reorder(r.Context(), actor, supplyID, req.Quantity)
	if err != nil {
		writeError(w, h.log, "reorder supply", err)
		return
	}

	response.Success(w, http.StatusOK, reorder)
}
