package entity

// Settings are the system-wide admin preferences.
type Settings struct {
	SystemName                 string `json:"systemName" validate:"required"`
	DefaultAppointmentDuration int    `json:"defaultAppointmentDuration" validate:"required,min=15,max=120"`
	LowStockThreshold          int    `json:"lowStockThreshold" validate:"required,min=1,max=50"`
	EmailNotifications         bool   `json:"emailNotifications"`
	LowStockAlerts             bool   `json:"lowStockAlerts"`
	AppointmentReminders       bool   `json:"appointmentReminders"`
}

func DefaultSettings() Settings {
	return Settings{
		SystemName:                 "MediLink Healthcare",
		DefaultAppointmentDuration: 30,
		LowStockThreshold:          20,
		EmailNotifications:         true,
		LowStockAlerts:             true,
		AppointmentReminders:       true,
	}
}
