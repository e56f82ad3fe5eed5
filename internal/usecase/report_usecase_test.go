package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"medilink/internal/delivery/dto"
	"medilink/internal/domain/entity"

	"github.com/shopspring/decimal"
)

func TestLowStockReport(t *testing.T) {
	c := newClinic()
	for _, s := range []struct {
		name     string
		current  int
		minimum  int
		unitCost string
	}{
		{"Syringes", 0, 10, "0.50"},
		{"Gloves", 4, 10, "0.25"},
		{"Bandages", 10, 10, "2.00"},
		{"Scalpels", 40, 10, "3.00"},
	} {
		supply := c.addSupply(s.name, s.current, s.minimum)
		supply.UnitPrice = decimal.RequireFromString(s.unitCost)
		c.store.supplies[supply.ID] = supply
	}

	report, err := c.reports.LowStock(context.Background())
	if err != nil {
		t.Fatalf("LowStock: %v", err)
	}
	if report.Total != 3 || report.Unavailable != 1 {
		t.Errorf("Total = %d, Unavailable = %d", report.Total, report.Unavailable)
	}
	// 10 × 0.50 + 6 × 0.25
	if want := decimal.RequireFromString("6.5"); !report.ReorderValue.Equal(want) {
		t.Errorf("ReorderValue = %s, want %s", report.ReorderValue, want)
	}
	// 4 × 0.25 + 10 × 2.00, the healthy Scalpels are not counted
	if want := decimal.RequireFromString("21"); !report.StockValue.Equal(want) {
		t.Errorf("StockValue = %s, want %s", report.StockValue, want)
	}
}

func TestAppointmentReports(t *testing.T) {
	c := newClinic()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	c.reports.now = func() time.Time { return now }

	patient := c.addUser(entity.RolePatient, "patient@medilink.com")
	_, doctor := c.addDoctor("doctor@medilink.com", "MD001")
	stethoscope := c.addSupply("Stethoscope", 10, 1)
	gloves := c.addSupply("Gloves", 10, 1)

	c.addAppointment(patient, doctor, now.Add(24*time.Hour), entity.AppointmentStatusScheduled)
	c.addAppointment(patient, doctor, now.AddDate(0, 0, 10), entity.AppointmentStatusScheduled)
	c.addAppointment(patient, doctor, now.AddDate(0, 0, -3), entity.AppointmentStatusScheduled)
	c.addAppointment(patient, doctor, now.AddDate(0, -1, 0), entity.AppointmentStatusCompleted, stethoscope.ID, gloves.ID)
	c.addAppointment(patient, doctor, now.AddDate(0, -2, 0), entity.AppointmentStatusCompleted, stethoscope.ID)
	c.addAppointment(patient, doctor, now.AddDate(-2, 0, 0), entity.AppointmentStatusCancelled, gloves.ID)
	ctx := context.Background()

	upcoming, err := c.reports.UpcomingAppointments(ctx)
	if err != nil || upcoming.Total != 2 {
		t.Errorf("UpcomingAppointments = %+v, %v", upcoming, err)
	}

	cancelled, err := c.reports.Cancellations(ctx)
	if err != nil || cancelled.Total != 1 {
		t.Errorf("Cancellations = %+v, %v", cancelled, err)
	}

	usage, err := c.reports.SupplyUsage(ctx)
	if err != nil {
		t.Fatalf("SupplyUsage: %v", err)
	}
	if len(usage.Usage) != 2 || usage.Usage[0].SupplyName != "Stethoscope" || usage.Usage[0].UsageCount != 2 {
		t.Errorf("Usage = %+v", usage.Usage)
	}

	stats, err := c.reports.AppointmentStats(ctx)
	if err != nil {
		t.Fatalf("AppointmentStats: %v", err)
	}
	if stats.Total != 6 || stats.ByStatus["scheduled"] != 3 || stats.ByStatus["completed"] != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.UpcomingWeek != 1 {
		t.Errorf("UpcomingWeek = %d, want 1", stats.UpcomingWeek)
	}
	// The two-year-old cancellation is outside the twelve-month window.
	var monthly int64
	for _, m := range stats.Monthly {
		monthly += m.Count
	}
	if monthly != 5 {
		t.Errorf("monthly total = %d, want 5 (%+v)", monthly, stats.Monthly)
	}
}

func TestSupplyUsageEmpty(t *testing.T) {
	c := newClinic()
	usage, err := c.reports.SupplyUsage(context.Background())
	if err != nil {
		t.Fatalf("SupplyUsage: %v", err)
	}
	if usage.Usage == nil {
		t.Error("Usage is nil, want empty slice")
	}
}

func TestSettings(t *testing.T) {
	c := newClinic()
	admin := c.addUser(entity.RoleAdmin, "admin@medilink.com")
	ctx := context.Background()

	settings, err := c.settings.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if *settings != entity.DefaultSettings() {
		t.Errorf("Get = %+v, want defaults", settings)
	}

	updated, err := c.settings.Update(ctx, actorOf(admin), &dto.SettingsRequest{
		SystemName:                 "Riverside Clinic",
		DefaultAppointmentDuration: 45,
		LowStockThreshold:          5,
		EmailNotifications:         true,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.LowStockAlerts || updated.AppointmentReminders {
		t.Errorf("Update = %+v", updated)
	}

	settings, _ = c.settings.Get(ctx)
	if settings.SystemName != "Riverside Clinic" {
		t.Errorf("saved settings = %+v", settings)
	}

	c.settingsRepo.err = errors.New("timeout")
	if _, err := c.settings.Get(ctx); err == nil {
		t.Error("Get succeeded while the store is failing")
	}
}

func TestAuditLogs(t *testing.T) {
	c := newClinic()
	admin := c.addUser(entity.RoleAdmin, "admin@medilink.com")
	supply := c.addSupply("Gloves", 1, 10)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.supplies.Reorder(ctx, actorOf(admin), supply.ID, 5); err != nil {
			t.Fatalf("Reorder: %v", err)
		}
	}

	logs, err := c.auditLogs.GetAllAuditLogs(ctx)
	if err != nil {
		t.Fatalf("GetAllAuditLogs: %v", err)
	}
	if logs.Total != 2 || logs.Logs[0].ID < logs.Logs[1].ID {
		t.Errorf("logs = %+v, want newest first", logs)
	}

	one, err := c.auditLogs.GetAuditLog(ctx, logs.Logs[1].ID)
	if err != nil || one.ID != logs.Logs[1].ID {
		t.Errorf("GetAuditLog = %+v, %v", one, err)
	}
	if _, err := c.auditLogs.GetAuditLog(ctx, 31337); !errors.Is(err, ErrAuditLogNotFound) {
		t.Errorf("missing log error = %v", err)
	}
}
