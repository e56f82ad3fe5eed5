package usecase

import (
	"context"

	"medilink/internal/delivery/dto"
	"medilink/internal/domain/entity"
	"medilink/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

type SettingsUsecase interface {
	// Get returns the saved settings, or the defaults when none were saved.
	Get(ctx context.Context) (*entity.Settings, error)
	Update(ctx context.Context, actor entity.Actor, req *dto.SettingsRequest) (*entity.Settings, error)
}

type settingsUsecase struct {
	log          *logrus.Logger
	settingsRepo repository.SettingsRepository
}

func NewSettingsUsecase(log *logrus.Logger, settingsRepo repository.SettingsRepository) SettingsUsecase {
	return &settingsUsecase{
		log:          log,
		settingsRepo: settingsRepo,
	}
}

func (u *settingsUsecase) Get(ctx context.Context) (*entity.Settings, error) {
	settings, err := u.settingsRepo.Get(ctx)
	if err != nil {
		u.log.Warnf("Failed to load settings: %+v", err)
		return nil, err
	}
	if settings == nil {
		defaults := entity.DefaultSettings()
		return &defaults, nil
	}
	return settings, nil
}

func (u *settingsUsecase) Update(ctx context.Context, actor entity.Actor, req *dto.SettingsRequest) (*entity.Settings, error) {
	settings := &entity.Settings{
		SystemName:                 req.SystemName,
		DefaultAppointmentDuration: req.DefaultAppointmentDuration,
		LowStockThreshold:          req.LowStockThreshold,
		EmailNotifications:         req.EmailNotifications,
		LowStockAlerts:             req.LowStockAlerts,
		AppointmentReminders:       req.AppointmentReminders,
	}

	if err := u.settingsRepo.Save(ctx, settings); err != nil {
		u.log.Warnf("Failed to save settings: %+v", err)
		return nil, err
	}

	u.log.WithField("user_id", actor.UserID).Info("Settings updated")
	return settings, nil
}
