package repository

import (
	"context"

	"medilink/internal/domain/entity"
)

// SettingsRepository stores the single system settings document.
// Get returns (nil, nil) when nothing was saved yet.
type SettingsRepository interface {
	Get(ctx context.Context) (*entity.Settings, error)
	Save(ctx context.Context, settings *entity.Settings) error
}
