package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// runTimeout bounds a single task run.
const runTimeout = 10 * time.Minute

// Task is one run of a periodic job.
type Task func(ctx context.Context) error

// Scheduler fires task every day at hour:minute.
type Scheduler interface {
	RegisterDaily(hour, minute int, name string, task Task) error
}

// Locker claims a named run for one calendar day across instances.
type Locker interface {
	Acquire(ctx context.Context, name string, day time.Time) (string, bool, error)
	Release(ctx context.Context, name string, day time.Time, token string) error
}

// CronScheduler runs tasks on a cron in a fixed time zone. A task still
// running when its next tick comes is not started twice, and each day's run
// is claimed through the locker first.
type CronScheduler struct {
	cron     *cron.Cron
	log      *logrus.Logger
	locker   Locker
	location *time.Location
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

func NewCronScheduler(log *logrus.Logger, location *time.Location, locker Locker) *CronScheduler {
	logger := cron.PrintfLogger(log)
	ctx, cancel := context.WithCancel(context.Background())

	return &CronScheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		log:      log,
		locker:   locker,
		location: location,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *CronScheduler) RegisterDaily(hour, minute int, name string, task Task) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid time %02d:%02d for %s", hour, minute, name)
	}

	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(s.ctx, runTimeout)
		defer cancel()

		if err := s.Run(ctx, name, task); err != nil {
			s.log.WithField("task", name).Errorf("Scheduled task failed: %+v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}

	s.log.WithField("task", name).Infof("Scheduled daily at %02d:%02d %s", hour, minute, s.location)
	return nil
}

// Run executes task once under today's claim. A run already claimed today is
// skipped; a failed run hands its claim back so it can be retried.
func (s *CronScheduler) Run(ctx context.Context, name string, task Task) error {
	day := s.now().In(s.location)
	entry := s.log.WithField("task", name)

	token, ok, err := s.locker.Acquire(ctx, name, day)
	if err != nil {
		return err
	}
	if !ok {
		entry.Info("Already ran today, skipping")
		return nil
	}

	started := s.now()
	if err := task(ctx); err != nil {
		if releaseErr := s.locker.Release(ctx, name, day, token); releaseErr != nil {
			entry.Warnf("Failed to release claim: %+v", releaseErr)
		}
		return err
	}

	entry.WithField("duration", s.now().Sub(started).String()).Info("Task finished")
	return nil
}

func (s *CronScheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs, cancels running ones and waits for them to return
// or for ctx to expire.
func (s *CronScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
