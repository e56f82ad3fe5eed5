package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"medilink/internal/domain/entity"
)

type registration struct {
	hour, minute int
	name         string
}

type recordingScheduler struct {
	registered []registration
	tasks      map[string]Task
}

func (s *recordingScheduler) RegisterDaily(hour, minute int, name string, task Task) error {
	s.registered = append(s.registered, registration{hour, minute, name})
	if s.tasks == nil {
		s.tasks = map[string]Task{}
	}
	s.tasks[name] = task
	return nil
}

// countingNotifications counts sweep invocations.
type countingNotifications struct {
	mu    sync.Mutex
	calls map[string]int
}

func (n *countingNotifications) hit(name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.calls == nil {
		n.calls = map[string]int{}
	}
	n.calls[name]++
	return nil
}

func (n *countingNotifications) CheckUpcomingAppointmentSupplies(ctx context.Context) error {
	return n.hit(SweepUpcomingSupplies)
}

func (n *countingNotifications) SendDailyReminders(ctx context.Context) error {
	return n.hit(SweepDailyReminders)
}

func (n *countingNotifications) CheckLowStockAlerts(ctx context.Context) error {
	return n.hit(SweepLowStock)
}

func (n *countingNotifications) CheckExpiringSupplies(ctx context.Context) error {
	return n.hit(SweepExpiringSupplies)
}

func (n *countingNotifications) SendSupplyShortageAlert(ctx context.Context, appointment *entity.Appointment, supplies []entity.Supply) error {
	return nil
}

func (n *countingNotifications) SendAppointmentReminder(ctx context.Context, appointmentID int64) error {
	return nil
}

func TestRegisterSweepsSchedule(t *testing.T) {
	notifications := &countingNotifications{}
	s := &recordingScheduler{}

	if err := RegisterSweeps(s, Sweeps(notifications)); err != nil {
		t.Fatalf("RegisterSweeps: %v", err)
	}

	want := []registration{
		{7, 0, SweepUpcomingSupplies},
		{8, 0, SweepDailyReminders},
		{9, 0, SweepLowStock},
		{10, 0, SweepExpiringSupplies},
	}
	if len(s.registered) != len(want) {
		t.Fatalf("registered %d sweeps, want %d", len(s.registered), len(want))
	}
	for i, w := range want {
		if s.registered[i] != w {
			t.Errorf("registration %d = %+v, want %+v", i, s.registered[i], w)
		}
	}

	// Each registered task calls its own sweep and nothing else.
	for _, w := range want {
		if err := s.tasks[w.name](context.Background()); err != nil {
			t.Fatalf("%s: %v", w.name, err)
		}
	}
	for _, w := range want {
		if notifications.calls[w.name] != 1 {
			t.Errorf("%s called %d times, want 1", w.name, notifications.calls[w.name])
		}
	}
}

func TestFindSweep(t *testing.T) {
	sweeps := Sweeps(&countingNotifications{})

	if sweep, ok := FindSweep(sweeps, SweepLowStock); !ok || sweep.Hour != 9 {
		t.Errorf("FindSweep(low-stock) = %+v, %v", sweep, ok)
	}
	if _, ok := FindSweep(sweeps, "unknown"); ok {
		t.Error("FindSweep(unknown) found a sweep")
	}
}

func TestRunSweepsFailureIsIsolated(t *testing.T) {
	sweeps := Sweeps(&countingNotifications{})
	boom := errors.New("smtp unreachable")

	var mu sync.Mutex
	var ran []string
	err := RunSweeps(context.Background(), sweeps, func(ctx context.Context, sweep Sweep) error {
		mu.Lock()
		ran = append(ran, sweep.Name)
		mu.Unlock()
		if sweep.Name == SweepDailyReminders {
			return boom
		}
		return nil
	})

	if !errors.Is(err, boom) {
		t.Fatalf("RunSweeps error = %v, want %v", err, boom)
	}
	sort.Strings(ran)
	if len(ran) != 4 {
		t.Fatalf("ran %v, want all four sweeps", ran)
	}
}
