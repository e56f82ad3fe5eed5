package usecase

import (
	"context"
	"time"

	"medilink/internal/converter"
	"medilink/internal/delivery/dto"
	"medilink/internal/domain/entity"
	"medilink/internal/domain/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

const statsMonths = 12

type ReportUsecase interface {
	UpcomingAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	LowStock(ctx context.Context) (*dto.LowStockReportResponse, error)
	Cancellations(ctx context.Context) (*dto.AppointmentListResponse, error)
	SupplyUsage(ctx context.Context) (*dto.SupplyUsageReportResponse, error)
	AppointmentStats(ctx context.Context) (*dto.AppointmentStatsResponse, error)
}

type reportUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	supplyRepo      repository.SupplyRepository
	location        *time.Location
	now             func() time.Time
}

func NewReportUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	supplyRepo repository.SupplyRepository,
	location *time.Location,
) ReportUsecase {
	return &reportUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		supplyRepo:      supplyRepo,
		location:        location,
		now:             time.Now,
	}
}

func (u *reportUsecase) UpcomingAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	from := u.now()
	appointments, err := u.appointmentRepo.List(ctx, repository.AppointmentFilter{
		Status: entity.AppointmentStatusScheduled,
		From:   &from,
	})
	if err != nil {
		u.log.Warnf("Failed to list upcoming appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// LowStock lists supplies at or below minimum, the value still on hand and
// what it costs to bring each one back to its minimum.
func (u *reportUsecase) LowStock(ctx context.Context) (*dto.LowStockReportResponse, error) {
	supplies, err := u.supplyRepo.LowStock(ctx)
	if err != nil {
		u.log.Warnf("Failed to find low stock supplies: %+v", err)
		return nil, err
	}

	report := &dto.LowStockReportResponse{
		Supplies:     converter.SuppliesToResponses(supplies),
		Total:        len(supplies),
		ReorderValue: decimal.Zero,
		StockValue:   decimal.Zero,
	}
	for _, supply := range supplies {
		report.StockValue = report.StockValue.Add(supply.StockValue())
		if supply.Status() == entity.SupplyStatusUnavailable {
			report.Unavailable++
		}
		if missing := supply.MinimumStock - supply.CurrentStock; missing > 0 {
			report.ReorderValue = report.ReorderValue.Add(supply.UnitPrice.Mul(decimal.NewFromInt(int64(missing))))
		}
	}
	return report, nil
}

func (u *reportUsecase) Cancellations(ctx context.Context) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.ListCancelled(ctx, 0)
	if err != nil {
		u.log.Warnf("Failed to list cancelled appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// SupplyUsage counts, per supply, the completed appointments that required it.
func (u *reportUsecase) SupplyUsage(ctx context.Context) (*dto.SupplyUsageReportResponse, error) {
	usage, err := u.appointmentRepo.SupplyUsage(ctx)
	if err != nil {
		u.log.Warnf("Failed to compute supply usage: %+v", err)
		return nil, err
	}
	if usage == nil {
		usage = []entity.SupplyUsage{}
	}
	return &dto.SupplyUsageReportResponse{Usage: usage}, nil
}

// AppointmentStats runs its three queries concurrently.
func (u *reportUsecase) AppointmentStats(ctx context.Context) (*dto.AppointmentStatsResponse, error) {
	now := u.now().In(u.location)
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, u.location).AddDate(0, -(statsMonths - 1), 0)
	weekEnd := now.AddDate(0, 0, 7)

	var (
		byStatus map[entity.AppointmentStatus]int64
		monthly  []entity.MonthlyCount
		upcoming []entity.Appointment
	)

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		byStatus, err = u.appointmentRepo.CountByStatus(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		monthly, err = u.appointmentRepo.MonthlyCounts(ctx, since)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		upcoming, err = u.appointmentRepo.List(ctx, repository.AppointmentFilter{
			Status: entity.AppointmentStatusScheduled,
			From:   &now,
			To:     &weekEnd,
		})
		return err
	})
	if err := p.Wait(); err != nil {
		u.log.Warnf("Failed to compute appointment stats: %+v", err)
		return nil, err
	}

	stats := &dto.AppointmentStatsResponse{
		ByStatus:     make(map[string]int64, len(byStatus)),
		Monthly:      monthly,
		UpcomingWeek: len(upcoming),
	}
	if stats.Monthly == nil {
		stats.Monthly = []entity.MonthlyCount{}
	}
	for status, count := range byStatus {
		stats.ByStatus[string(status)] = count
		stats.Total += count
	}
	return stats, nil
}
