package dto

import "medilink/internal/domain/entity"

type SettingsRequest struct {
	SystemName                 string `json:"systemName" validate:"required,max=100"`
	DefaultAppointmentDuration int    `json:"defaultAppointmentDuration" validate:"min=15,max=120"`
	LowStockThreshold          int    `json:"lowStockThreshold" validate:"min=1,max=50"`
	EmailNotifications         bool   `json:"emailNotifications"`
	LowStockAlerts             bool   `json:"lowStockAlerts"`
	AppointmentReminders       bool   `json:"appointmentReminders"`
}

type SettingsUpdateResponse struct {
	Message  string           `json:"message"`
	Settings *entity.Settings `json:"settings"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks"`
}
