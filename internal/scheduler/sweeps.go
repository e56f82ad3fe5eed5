package scheduler

import (
	"context"

	"medilink/internal/usecase"

	"github.com/sourcegraph/conc/pool"
)

// Sweep is a daily read-and-notify job.
type Sweep struct {
	Name   string
	Hour   int
	Minute int
	Task   Task
}

const (
	SweepUpcomingSupplies = "upcoming-supplies"
	SweepDailyReminders   = "daily-reminders"
	SweepLowStock         = "low-stock"
	SweepExpiringSupplies = "expiring-supplies"
)

// Sweeps lists the notification sweeps in firing order. They do not depend
// on each other.
func Sweeps(notifications usecase.NotificationUsecase) []Sweep {
	return []Sweep{
		{Name: SweepUpcomingSupplies, Hour: 7, Task: notifications.CheckUpcomingAppointmentSupplies},
		{Name: SweepDailyReminders, Hour: 8, Task: notifications.SendDailyReminders},
		{Name: SweepLowStock, Hour: 9, Task: notifications.CheckLowStockAlerts},
		{Name: SweepExpiringSupplies, Hour: 10, Task: notifications.CheckExpiringSupplies},
	}
}

func RegisterSweeps(s Scheduler, sweeps []Sweep) error {
	for _, sweep := range sweeps {
		if err := s.RegisterDaily(sweep.Hour, sweep.Minute, sweep.Name, sweep.Task); err != nil {
			return err
		}
	}
	return nil
}

// FindSweep looks a sweep up by name.
func FindSweep(sweeps []Sweep, name string) (Sweep, bool) {
	for _, sweep := range sweeps {
		if sweep.Name == name {
			return sweep, true
		}
	}
	return Sweep{}, false
}

// RunSweeps runs every sweep concurrently through run. A failing sweep does
// not cancel the others; all failures are returned together.
func RunSweeps(ctx context.Context, sweeps []Sweep, run func(ctx context.Context, sweep Sweep) error) error {
	p := pool.New().WithErrors().WithContext(ctx)
	for _, sweep := range sweeps {
		p.Go(func(ctx context.Context) error {
			return run(ctx, sweep)
		})
	}
	return p.Wait()
}
