package usecase

import (
	"context"
	"errors"
	"time"

	"medilink/internal/domain/entity"
	"medilink/internal/domain/repository"
	"medilink/internal/service"

	"github.com/sirupsen/logrus"
)

var ErrNotificationsDisabled = errors.New("email notifications are disabled")

const (
	upcomingSupplyWindow = 24 * time.Hour
	expiryWindow         = 30 * 24 * time.Hour
)

// NotificationUsecase is the notification dispatcher. Sweeps only read
// state; a failed send is reported but does not stop the remaining sends.
type NotificationUsecase interface {
	CheckUpcomingAppointmentSupplies(ctx context.Context) error
	SendDailyReminders(ctx context.Context) error
	CheckLowStockAlerts(ctx context.Context) error
	CheckExpiringSupplies(ctx context.Context) error
	SendSupplyShortageAlert(ctx context.Context, appointment *entity.Appointment, supplies []entity.Supply) error
	SendAppointmentReminder(ctx context.Context, appointmentID int64) error
}

type notificationUsecase struct {
	log             *logrus.Logger
	notifier        service.Notifier
	appointmentRepo repository.AppointmentRepository
	supplyRepo      repository.SupplyRepository
	userRepo        repository.UserRepository
	doctorRepo      repository.DoctorRepository
	settingsUsecase SettingsUsecase
	location        *time.Location
	now             func() time.Time
}

func NewNotificationUsecase(
	log *logrus.Logger,
	notifier service.Notifier,
	appointmentRepo repository.AppointmentRepository,
	supplyRepo repository.SupplyRepository,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	settingsUsecase SettingsUsecase,
	location *time.Location,
) NotificationUsecase {
	return &notificationUsecase{
		log:             log,
		notifier:        notifier,
		appointmentRepo: appointmentRepo,
		supplyRepo:      supplyRepo,
		userRepo:        userRepo,
		doctorRepo:      doctorRepo,
		settingsUsecase: settingsUsecase,
		location:        location,
		now:             time.Now,
	}
}

// settings falls back to the defaults when the store cannot be read, so a
// settings outage does not silence the sweeps.
func (u *notificationUsecase) settings(ctx context.Context) entity.Settings {
	settings, err := u.settingsUsecase.Get(ctx)
	if err != nil {
		u.log.Warnf("Failed to load settings, using defaults: %+v", err)
		return entity.DefaultSettings()
	}
	return *settings
}

// CheckUpcomingAppointmentSupplies alerts about scheduled appointments of the
// next 24 hours whose required supplies are out of stock.
func (u *notificationUsecase) CheckUpcomingAppointmentSupplies(ctx context.Context) error {
	if !u.settings(ctx).EmailNotifications {
		u.log.Info("Notifications disabled, skipping upcoming supply check")
		return nil
	}

	from := u.now()
	to := from.Add(upcomingSupplyWindow)
	appointments, err := u.appointmentRepo.List(ctx, repository.AppointmentFilter{
		Status: entity.AppointmentStatusScheduled,
		From:   &from,
		To:     &to,
	})
	if err != nil {
		u.log.Warnf("Failed to list upcoming appointments: %+v", err)
		return err
	}

	var errs []error
	affected := 0
	for i := range appointments {
		appointment := &appointments[i]
		ids := appointment.SupplyIDs()
		if len(ids) == 0 {
			continue
		}

		supplies, err := u.supplyRepo.FindByIDs(ctx, uniqueIDs(ids))
		if err != nil {
			u.log.Warnf("Failed to find supplies of appointment %d: %+v", appointment.ID, err)
			errs = append(errs, err)
			continue
		}

		var unavailable []entity.Supply
		for _, supply := range supplies {
			if supply.Status() == entity.SupplyStatusUnavailable {
				unavailable = append(unavailable, supply)
			}
		}
		if len(unavailable) == 0 {
			continue
		}

		affected++
		if err := u.sendShortage(ctx, appointment, unavailable); err != nil {
			errs = append(errs, err)
		}
	}

	u.log.Infof("Upcoming supply check done: appointments=%d, at_risk=%d", len(appointments), affected)
	return errors.Join(errs...)
}

// SendDailyReminders reminds patient and doctor of every scheduled
// appointment tomorrow.
func (u *notificationUsecase) SendDailyReminders(ctx context.Context) error {
	settings := u.settings(ctx)
	if !settings.EmailNotifications || !settings.AppointmentReminders {
		u.log.Info("Appointment reminders disabled, skipping")
		return nil
	}

	today := u.now().In(u.location)
	from := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, u.location).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1)
	appointments, err := u.appointmentRepo.List(ctx, repository.AppointmentFilter{
		Status: entity.AppointmentStatusScheduled,
		From:   &from,
		To:     &to,
	})
	if err != nil {
		u.log.Warnf("Failed to list tomorrow's appointments: %+v", err)
		return err
	}

	var errs []error
	for _, appointment := range appointments {
		for _, recipient := range []entity.User{appointment.Patient, appointment.Doctor.User} {
			if recipient.Email == "" {
				continue
			}
			if err := u.notifier.AppointmentReminder(ctx, recipient, appointment); err != nil {
				u.log.Warnf("Failed to send reminder for appointment %d to %s: %+v", appointment.ID, recipient.Email, err)
				errs = append(errs, err)
			}
		}
	}

	u.log.Infof("Daily reminders sent: appointments=%d", len(appointments))
	return errors.Join(errs...)
}

// CheckLowStockAlerts sends the admins the list of supplies at or below
// their minimum stock.
func (u *notificationUsecase) CheckLowStockAlerts(ctx context.Context) error {
	settings := u.settings(ctx)
	if !settings.EmailNotifications || !settings.LowStockAlerts {
		u.log.Info("Low stock alerts disabled, skipping")
		return nil
	}

	supplies, err := u.supplyRepo.LowStock(ctx)
	if err != nil {
		u.log.Warnf("Failed to find low stock supplies: %+v", err)
		return err
	}
	if len(supplies) == 0 {
		return nil
	}

	return u.alertAdmins(ctx, "low stock", func(admin entity.User) error {
		return u.notifier.LowStockAlert(ctx, admin, supplies)
	})
}

// CheckExpiringSupplies sends the admins the supplies expiring within the
// next 30 days.
func (u *notificationUsecase) CheckExpiringSupplies(ctx context.Context) error {
	if !u.settings(ctx).EmailNotifications {
		u.log.Info("Notifications disabled, skipping expiry check")
		return nil
	}

	now := u.now()
	supplies, err := u.supplyRepo.ExpiringBetween(ctx, now, now.Add(expiryWindow))
	if err != nil {
		u.log.Warnf("Failed to find expiring supplies: %+v", err)
		return err
	}
	if len(supplies) == 0 {
		return nil
	}

	return u.alertAdmins(ctx, "expiry", func(admin entity.User) error {
		return u.notifier.ExpiryAlert(ctx, admin, supplies)
	})
}

// SendSupplyShortageAlert tells the admins and the appointment's doctor that
// the booking consumed supplies that are running out.
func (u *notificationUsecase) SendSupplyShortageAlert(ctx context.Context, appointment *entity.Appointment, supplies []entity.Supply) error {
	if !u.settings(ctx).EmailNotifications {
		return nil
	}
	return u.sendShortage(ctx, appointment, supplies)
}

func (u *notificationUsecase) sendShortage(ctx context.Context, appointment *entity.Appointment, supplies []entity.Supply) error {
	errs := []error{u.alertAdmins(ctx, "supply shortage", func(admin entity.User) error {
		return u.notifier.SupplyShortageAlert(ctx, admin, *appointment, supplies)
	})}

	doctor, err := u.doctorRepo.FindByID(ctx, appointment.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", appointment.DoctorID, err)
		errs = append(errs, err)
	} else if doctor != nil {
		if err := u.notifier.SupplyShortageAlert(ctx, doctor.User, *appointment, supplies); err != nil {
			u.log.Warnf("Failed to send supply shortage alert to doctor %d: %+v", doctor.ID, err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// SendAppointmentReminder reminds the patient of one appointment right away.
func (u *notificationUsecase) SendAppointmentReminder(ctx context.Context, appointmentID int64) error {
	if !u.settings(ctx).EmailNotifications {
		return ErrNotificationsDisabled
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", appointmentID, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	if err := u.notifier.AppointmentReminder(ctx, appointment.Patient, *appointment); err != nil {
		u.log.Warnf("Failed to send reminder for appointment %d: %+v", appointmentID, err)
		return err
	}
	return nil
}

func (u *notificationUsecase) alertAdmins(ctx context.Context, kind string, send func(admin entity.User) error) error {
	admins, err := u.userRepo.FindByRole(ctx, entity.RoleAdmin)
	if err != nil {
		u.log.Warnf("Failed to find admins: %+v", err)
		return err
	}

	var errs []error
	for _, admin := range admins {
		if err := send(admin); err != nil {
			u.log.Warnf("Failed to send %s alert to %s: %+v", kind, admin.Email, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
