package handler

import (
	"net/http"

	"medilink/internal/delivery/dto"
	"medilink/internal/usecase"
	"medilink/pkg/response"
	"medilink/pkg/validator"

	"github.com/sirupsen/logrus"
)

type SettingsHandler struct {
	log             *logrus.Logger
	settingsUsecase usecase.SettingsUsecase
	validator       *validator.CustomValidator
}

func NewSettingsHandler(log *logrus.Logger, settingsUsecase usecase.SettingsUsecase, validator *validator.CustomValidator) *SettingsHandler {
	return &SettingsHandler{
		log:             log,
		settingsUsecase: settingsUsecase,
		validator:       validator,
	}
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsUsecase.Get(r.Context())
	if err != nil {
		writeError(w, h.log, "get settings", err)
		return
	}

	response.Success(w, http.StatusOK, settings)
}

func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.SettingsRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	settings, err := h.settingsUsecase.Update(r.Context(), actor, &req)
	if err != nil {
		writeError(w, h.log, "update settings", err)
		return
	}

	response.Success(w, http.StatusOK, dto.SettingsUpdateResponse{
		Message:  "Settings updated successfully",
		Settings: settings,
	})
}
