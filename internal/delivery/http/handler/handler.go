package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"medilink/internal/converter"
	"medilink/internal/delivery/http/middleware"
	"medilink/internal/domain/entity"
	"medilink/internal/usecase"
	"medilink/pkg/response"
	"medilink/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// errorStatus maps usecase errors to the status returned to clients. Errors
// not listed are internal.
var errorStatus = []struct {
	err    error
	status int
}{
	{usecase.ErrInvalidCredentials, http.StatusUnauthorized},
	{usecase.ErrInvalidToken, http.StatusUnauthorized},
	{usecase.ErrTokenRevoked, http.StatusUnauthorized},

	{usecase.ErrForbidden, http.StatusForbidden},
	{usecase.ErrRoleChangeDenied, http.StatusForbidden},

	{usecase.ErrAppointmentNotFound, http.StatusNotFound},
	{usecase.ErrDoctorNotFound, http.StatusNotFound},
	{usecase.ErrPatientNotFound, http.StatusNotFound},
	{usecase.ErrUserNotFound, http.StatusNotFound},
	{usecase.ErrSupplyNotFound, http.StatusNotFound},
	{usecase.ErrAuditLogNotFound, http.StatusNotFound},

	{usecase.ErrEmailAlreadyExists, http.StatusConflict},
	{usecase.ErrLicenseAlreadyExists, http.StatusConflict},
	{entity.ErrInvalidStatusTransition, http.StatusConflict},
	{usecase.ErrNotificationsDisabled, http.StatusConflict},

	{usecase.ErrUnknownSupply, http.StatusBadRequest},
	{usecase.ErrRequiredSuppliesLocked, http.StatusBadRequest},
	{usecase.ErrAppointmentNotEditable, http.StatusBadRequest},
	{usecase.ErrAppointmentTypeRequired, http.StatusBadRequest},
	{usecase.ErrInvalidStatusFilter, http.StatusBadRequest},
	{usecase.ErrInvalidDate, http.StatusBadRequest},
	{usecase.ErrInvalidAvailability, http.StatusBadRequest},
	{usecase.ErrInvalidQuantity, http.StatusBadRequest},
	{usecase.ErrInvalidUnitPrice, http.StatusBadRequest},
	{usecase.ErrInvalidExpiry, http.StatusBadRequest},
	{usecase.ErrCannotDeleteSelf, http.StatusBadRequest},
}

// writeError turns a usecase error into a JSON error response. Unknown
// errors are logged with action and answered with a generic 500.
func writeError(w http.ResponseWriter, log *logrus.Logger, action string, err error) {
	var unavailable *usecase.SuppliesUnavailableError
	if errors.As(err, &unavailable) {
		response.ErrorWithFields(w, http.StatusBadRequest, "Appointment cannot be booked due to unavailable supplies",
			map[string]interface{}{"unavailable_supplies": converter.SuppliesToStock(unavailable.Supplies)})
		return
	}

	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			response.Error(w, e.status, err.Error())
			return
		}
	}

	log.WithField("action", action).Errorf("Failed to %s: %+v", action, err)
	response.InternalServerError(w)
}

// decode reads a JSON body into req and validates it. It writes the error
// response itself and reports whether the handler may continue.
func decode(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return false
	}
	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

func pathInt64(w http.ResponseWriter, r *http.Request, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func actorFrom(w http.ResponseWriter, r *http.Request) (entity.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
	}
	return actor, ok
}
