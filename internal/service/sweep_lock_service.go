package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	sweepLockKeyPrefix = "sweep:"

	// A claim outlives its day so late instances still see it.
	sweepLockTTL = 25 * time.Hour
)

// releaseIfOwnerScript deletes the claim only when it still holds our token.
// Redis runs the script through EVALSHA after the first call.
var releaseIfOwnerScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// SweepLockService claims a sweep run for one calendar day. Every instance
// that fires the same sweep on the same day races for a single key; the
// winner runs, the rest skip. The claim is kept after a successful run so a
// re-run the same day is a no-op, and handed back after a failed one so it
// can be retried.
type SweepLockService struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewSweepLockService(client *redis.Client, log *logrus.Logger) *SweepLockService {
	return &SweepLockService{client: client, log: log}
}

func sweepLockKey(name string, day time.Time) string {
	return fmt.Sprintf("%s%s:%s", sweepLockKeyPrefix, name, day.Format("2006-01-02"))
}

// Acquire returns the claim token, or ok=false when the run was already
// claimed for day.
func (s *SweepLockService) Acquire(ctx context.Context, name string, day time.Time) (string, bool, error) {
	token := uuid.New().String()
	ok, err := s.client.SetNX(ctx, sweepLockKey(name, day), token, sweepLockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("claim sweep %s: %w", name, err)
	}
	return token, ok, nil
}

// Release gives the claim back. A claim that expired or was taken over is
// left alone.
func (s *SweepLockService) Release(ctx context.Context, name string, day time.Time, token string) error {
	n, err := releaseIfOwnerScript.Run(ctx, s.client, []string{sweepLockKey(name, day)}, token).Int()
	if err != nil {
		return fmt.Errorf("release sweep %s: %w", name, err)
	}
	if n == 0 {
		s.log.Debugf("Sweep claim %s was no longer ours", sweepLockKey(name, day))
	}
	return nil
}
