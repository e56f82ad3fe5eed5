package handler

import (
	"net/http"

	"medilink/internal/usecase"
	"medilink/pkg/response"

	"github.com/sirupsen/logrus"
)

type ReportHandler struct {
	log           *logrus.Logger
	reportUsecase usecase.ReportUsecase
}

func NewReportHandler(log *logrus.Logger, reportUsecase usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{
		log:           log,
		reportUsecase: reportUsecase,
	}
}

func (h *ReportHandler) UpcomingAppointments(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportUsecase.UpcomingAppointments(r.Context())
	if err != nil {
		writeError(w, h.log, "build upcoming appointments report", err)
		return
	}
	response.Success(w, http.StatusOK, report)
}

func (h *ReportHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportUsecase.LowStock(r.Context())
	if err != nil {
		writeError(w, h.log, "build low stock report", err)
		return
	}
	response.Success(w, http.StatusOK, report)
}

func (h *ReportHandler) Cancellations(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportUsecase.Cancellations(r.Context())
	if err != nil {
		writeError(w, h.log, "build cancellations report", err)
		return
	}
	response.Success(w, http.StatusOK, report)
}

func (h *ReportHandler) SupplyUsage(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportUsecase.SupplyUsage(r.Context())
	if err != nil {
		writeError(w, h.log, "build supply usage report", err)
		return
	}
	response.Success(w, http.StatusOK, report)
}

func (h *ReportHandler) AppointmentStats(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportUsecase.AppointmentStats(r.Context())
	if err != nil {
		writeError(w, h.log, "build appointment stats", err)
		return
	}
	response.Success(w, http.StatusOK, report)
}
