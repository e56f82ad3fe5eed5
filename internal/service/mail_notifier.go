package service

import (
	"context"
	"fmt"

	"medilink/config"
	"medilink/internal/domain/entity"

	"github.com/go-gomail/gomail"
	"github.com/sirupsen/logrus"
)

// MailSender is satisfied by *gomail.Dialer.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailNotifier sends notifications over SMTP.
type MailNotifier struct {
	log    *logrus.Logger
	from   string
	sender MailSender
}

func NewMailNotifier(cfg config.SMTPConfig, log *logrus.Logger) *MailNotifier {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return NewMailNotifierWithSender(cfg.From, dialer, log)
}

func NewMailNotifierWithSender(from string, sender MailSender, log *logrus.Logger) *MailNotifier {
	return &MailNotifier{log: log, from: from, sender: sender}
}

func (n *MailNotifier) AppointmentReminder(ctx context.Context, recipient entity.User, appointment entity.Appointment) error {
	return n.send(recipient, reminderMessage(recipient, appointment))
}

func (n *MailNotifier) LowStockAlert(ctx context.Context, recipient entity.User, supplies []entity.Supply) error {
	return n.send(recipient, lowStockMessage(recipient, supplies))
}

func (n *MailNotifier) ExpiryAlert(ctx context.Context, recipient entity.User, supplies []entity.Supply) error {
	return n.send(recipient, expiryMessage(recipient, supplies))
}

func (n *MailNotifier) SupplyShortageAlert(ctx context.Context, recipient entity.User, appointment entity.Appointment, supplies []entity.Supply) error {
	return n.send(recipient, shortageMessage(recipient, appointment, supplies))
}

func (n *MailNotifier) send(recipient entity.User, msg message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", recipient.Email)
	m.SetHeader("Subject", msg.subject)
	m.SetBody("text/plain", msg.body)

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending %s email to %s: %w", msg.kind, recipient.Email, err)
	}

	n.log.WithFields(logrus.Fields{"notification": msg.kind, "to": recipient.Email}).Info("Email sent")
	return nil
}
