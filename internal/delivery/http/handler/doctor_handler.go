package handler

import (
	"net/http"

	"medilink/internal/delivery/dto"
	"medilink/internal/usecase"
	"medilink/pkg/response"
	"medilink/pkg/validator"

	"github.com/sirupsen/logrus"
)

type DoctorHandler struct {
	log           *logrus.Logger
	doctorUsecase usecase.DoctorUsecase
	validator     *validator.CustomValidator
}

func NewDoctorHandler(log *logrus.Logger, doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		log:           log,
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDoctorRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	doctor, err := h.doctorUsecase.Create(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, "create doctor", err)
		return
	}

	response.Success(w, http.StatusCreated, doctor)
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathInt64(w, r, "id", "doctor")
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.GetByID(r.Context(), doctorID)
	if err != nil {
		writeError(w, h.log, "get doctor", err)
		return
	}

	response.Success(w, http.StatusOK, doctor)
}

func (h *DoctorHandler) GetAllDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctorUsecase.GetAll(r.Context())
	if err != nil {
		writeError(w, h.log, "get doctors", err)
		return
	}

	response.Success(w, http.StatusOK, doctors)
}

func (h *DoctorHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	doctorID, ok := pathInt64(w, r, "id", "doctor")
	if !ok {
		return
	}

	var req dto.UpdateDoctorRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	doctor, err := h.doctorUsecase.Update(r.Context(), actor, doctorID, &req)
	if err != nil {
		writeError(w, h.log, "update doctor", err)
		return
	}

	response.Success(w, http.StatusOK, doctor)
}

func (h *DoctorHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	doctorID, ok := pathInt64(w, r, "id", "doctor")
	if !ok {
		return
	}

	if err := h.doctorUsecase.Delete(r.Context(), actor, doctorID); err != nil {
		writeError(w, h.log, "delete doctor", err)
		return
	}

	response.Message(w, http.StatusOK, "Doctor deleted successfully")
}

func (h *DoctorHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathInt64(w, r, "id", "doctor")
	if !ok {
		return
	}

	availability, err := h.doctorUsecase.GetAvailability(r.Context(), doctorID)
	if err != nil {
		writeError(w, h.log, "get doctor availability", err)
		return
	}

	response.Success(w, http.StatusOK, availability)
}

func (h *DoctorHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	doctorID, ok := pathInt64(w, r, "id", "doctor")
	if !ok {
		return
	}

	var req dto.UpdateAvailabilityRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	doctor, err := h.doctorUsecase.UpdateAvailability(r.Context(), actor, doctorID, req.Availability)
	if err != nil {
		writeError(w, h.log, "update doctor availability", err)
		return
	}

	response.Success(w, http.StatusOK, doctor)
}
