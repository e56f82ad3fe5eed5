package handler

import (
	"net/http"
	"time"

	"medilink/internal/delivery/dto"
	"medilink/internal/usecase"
	"medilink/pkg/response"
	"medilink/pkg/validator"

	"github.com/sirupsen/logrus"
)

type AppointmentHandler struct {
	log                 *logrus.Logger
	appointmentUsecase  usecase.AppointmentUsecase
	notificationUsecase usecase.NotificationUsecase
	validator           *validator.CustomValidator
}

func NewAppointmentHandler(
	log *logrus.Logger,
	appointmentUsecase usecase.AppointmentUsecase,
	notificationUsecase usecase.NotificationUsecase,
	validator *validator.CustomValidator,
) *AppointmentHandler {
	return &AppointmentHandler{
		log:                 log,
		appointmentUsecase:  appointmentUsecase,
		notificationUsecase: notificationUsecase,
		validator:           validator,
	}
}

// GetAllAppointments lists the caller's appointments. Optional query
// parameters: status, from, to (RFC 3339 or YYYY-MM-DD).
func (h *AppointmentHandler) GetAllAppointments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := dto.AppointmentListFilter{Status: query.Get("status")}
	var err error
	if filter.From, err = parseTimeParam(query.Get("from")); err != nil {
		response.BadRequest(w, "Invalid from parameter")
		return
	}
	if filter.To, err = parseTimeParam(query.Get("to")); err != nil {
		response.BadRequest(w, "Invalid to parameter")
		return
	}

	appointments, err := h.appointmentUsecase.GetAll(r.Context(), actor, filter)
	if err != nil {
		writeError(w, h.log, "get appointments", err)
		return
	}

	response.Success(w, http.StatusOK, appointments)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathInt64(w, r, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetByID(r.Context(), actor, appointmentID)
	if err != nil {
		writeError(w, h.log, "get appointment", err)
		return
	}

	response.Success(w, http.StatusOK, appointment)
}

// CreateAppointment books an appointment and reserves its supplies. A booking
// that needs an out-of-stock supply is rejected with the list of those
// supplies.
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.CreateAppointmentRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	created, err := h.appointmentUsecase.Create(r.Context(), actor, &req)
	if err != nil {
		writeError(w, h.log, "create appointment", err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathInt64(w, r, "id", "appointment")
	if !ok {
		return
	}

	var req dto.UpdateAppointmentRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Update(r.Context(), actor, appointmentID, &req)
	if err != nil {
		writeError(w, h.log, "update appointment", err)
		return
	}

	response.Success(w, http.StatusOK, appointment)
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathInt64(w, r, "id", "appointment")
	if !ok {
		return
	}

	if err := h.appointmentUsecase.Cancel(r.Context(), actor, appointmentID); err != nil {
		writeError(w, h.log, "cancel appointment", err)
		return
	}

	response.Message(w, http.StatusOK, "Appointment cancelled successfully")
}

func (h *AppointmentHandler) SendReminder(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathInt64(w, r, "id", "appointment")
	if !ok {
		return
	}

	if err := h.notificationUsecase.SendAppointmentReminder(r.Context(), appointmentID); err != nil {
		writeError(w, h.log, "send appointment reminder", err)
		return
	}

	response.Message(w, http.StatusOK, "Reminder sent")
}

func (h *AppointmentHandler) GetTypes(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, h.appointmentUsecase.Types(r.Context()))
}

func (h *AppointmentHandler) CheckSupplyAvailability(w http.ResponseWriter, r *http.Request) {
	check, err := h.appointmentUsecase.CheckTypeAvailability(r.Context(), r.URL.Query().Get("appointment_type"))
	if err != nil {
		writeError(w, h.log, "check supply availability", err)
		return
	}

	response.Success(w, http.StatusOK, check)
}

func (h *AppointmentHandler) GetDoctorAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathInt64(w, r, "id", "doctor")
	if !ok {
		return
	}

	availability, err := h.appointmentUsecase.DoctorDayAvailability(r.Context(), doctorID, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, h.log, "get doctor day availability", err)
		return
	}

	response.Success(w, http.StatusOK, availability)
}

// parseTimeParam returns nil for an empty parameter.
func parseTimeParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		if t, err = time.Parse("2006-01-02", raw); err != nil {
			return nil, err
		}
	}
	return &t, nil
}
