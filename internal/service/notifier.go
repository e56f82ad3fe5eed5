package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medilink/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

// Notifier delivers one kind of alert to one recipient. Delivery is best
// effort: no retry and no delivery confirmation.
type Notifier interface {
	AppointmentReminder(ctx context.Context, recipient entity.User, appointment entity.Appointment) error
	LowStockAlert(ctx context.Context, recipient entity.User, supplies []entity.Supply) error
	ExpiryAlert(ctx context.Context, recipient entity.User, supplies []entity.Supply) error
	SupplyShortageAlert(ctx context.Context, recipient entity.User, appointment entity.Appointment, supplies []entity.Supply) error
}

// message is a rendered notification.
type message struct {
	kind    string
	subject string
	body    string
}

func reminderMessage(recipient entity.User, appointment entity.Appointment) message {
	when := appointment.AppointmentDate.Format(time.RFC1123)
	var body string
	if recipient.ID == appointment.PatientID {
		body = fmt.Sprintf("Hello %s,\n\nThis is a reminder of your %s appointment with Dr. %s on %s.",
			recipient.FirstName, appointment.AppointmentType, appointment.Doctor.User.FullName(), when)
	} else {
		body = fmt.Sprintf("Hello Dr. %s,\n\nReminder: %s appointment with %s on %s.",
			recipient.LastName, appointment.AppointmentType, appointment.Patient.FullName(), when)
	}
	return message{kind: "appointment_reminder", subject: "Appointment reminder", body: body}
}

func lowStockMessage(recipient entity.User, supplies []entity.Supply) message {
	lines := make([]string, len(supplies))
	for i, s := range supplies {
		lines[i] = fmt.Sprintf("- %s: %d in stock (minimum %d)", s.Name, s.CurrentStock, s.MinimumStock)
	}
	return message{
		kind:    "low_stock",
		subject: "Low stock alert",
		body:    fmt.Sprintf("Hello %s,\n\nThe following supplies are at or below their minimum stock:\n%s", recipient.FirstName, strings.Join(lines, "\n")),
	}
}

func expiryMessage(recipient entity.User, supplies []entity.Supply) message {
	lines := make([]string, len(supplies))
	for i, s := range supplies {
		expiry := ""
		if s.ExpiryDate != nil {
			expiry = s.ExpiryDate.Format("2006-01-02")
		}
		lines[i] = fmt.Sprintf("- %s (expires %s)", s.Name, expiry)
	}
	return message{
		kind:    "expiry",
		subject: "Supply expiry alert",
		body:    fmt.Sprintf("Hello %s,\n\nThe following supplies expire within 30 days:\n%s", recipient.FirstName, strings.Join(lines, "\n")),
	}
}

func shortageMessage(recipient entity.User, appointment entity.Appointment, supplies []entity.Supply) message {
	return message{
		kind:    "supply_shortage",
		subject: "Supply shortage alert",
		body: fmt.Sprintf("Hello %s,\n\nThe %s appointment on %s may be affected by a supply shortage: %s",
			recipient.FirstName, appointment.AppointmentType, appointment.AppointmentDate.Format(time.RFC1123), supplyNames(supplies)),
	}
}

func supplyNames(supplies []entity.Supply) string {
	names := make([]string, len(supplies))
	for i, s := range supplies {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}

// LogNotifier "sends" notifications by writing them to the log.
type LogNotifier struct {
	log *logrus.Logger
}

func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) AppointmentReminder(ctx context.Context, recipient entity.User, appointment entity.Appointment) error {
	return n.send(recipient, reminderMessage(recipient, appointment), logrus.Fields{"appointment_id": appointment.ID})
}

func (n *LogNotifier) LowStockAlert(ctx context.Context, recipient entity.User, supplies []entity.Supply) error {
	return n.send(recipient, lowStockMessage(recipient, supplies), logrus.Fields{"supplies": supplyNames(supplies)})
}

func (n *LogNotifier) ExpiryAlert(ctx context.Context, recipient entity.User, supplies []entity.Supply) error {
	return n.send(recipient, expiryMessage(recipient, supplies), logrus.Fields{"supplies": supplyNames(supplies)})
}

func (n *LogNotifier) SupplyShortageAlert(ctx context.Context, recipient entity.User, appointment entity.Appointment, supplies []entity.Supply) error {
	return n.send(recipient, shortageMessage(recipient, appointment, supplies), logrus.Fields{
		"appointment_id": appointment.ID,
		"supplies":       supplyNames(supplies),
	})
}

func (n *LogNotifier) send(recipient entity.User, msg message, fields logrus.Fields) error {
	n.log.WithFields(fields).WithFields(logrus.Fields{
		"notification": msg.kind,
		"to":           recipient.Email,
	}).Info(msg.subject)
	return nil
}
