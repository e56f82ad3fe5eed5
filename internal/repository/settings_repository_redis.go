package repository

import (
	"context"
	"encoding/json"
	"errors"

	"medilink/internal/domain/entity"
	domainRepo "medilink/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

const settingsKey = "settings:system"

type settingsRepository struct {
	client *redis.Client
}

func NewSettingsRepository(client *redis.Client) domainRepo.SettingsRepository {
	return &settingsRepository{client: client}
}

func (r *settingsRepository) Get(ctx context.Context) (*entity.Settings, error) {
	raw, err := r.client.Get(ctx, settingsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var settings entity.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings *entity.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, settingsKey, raw, 0).Err()
}
