package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenRepository is the allow-list of issued access tokens. A token whose id
// is absent has been revoked or has expired.
type TokenRepository interface {
	Store(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID, tokenID string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}
