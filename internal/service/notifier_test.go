package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"medilink/internal/domain/entity"

	"github.com/go-gomail/gomail"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sampleAppointment() (entity.User, entity.User, entity.Appointment) {
	patient := entity.User{ID: uuid.New(), Email: "john@example.com", FirstName: "John", LastName: "Doe"}
	doctorUser := entity.User{ID: uuid.New(), Email: "smith@example.com", FirstName: "John", LastName: "Smith"}
	appointment := entity.Appointment{
		ID:              7,
		PatientID:       patient.ID,
		AppointmentDate: time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC),
		AppointmentType: "Consultation",
		Patient:         patient,
		Doctor:          entity.Doctor{User: doctorUser},
	}
	return patient, doctorUser, appointment
}

func TestMailNotifierReminder(t *testing.T) {
	sender := &fakeSender{}
	n := NewMailNotifierWithSender("noreply@medilink.com", sender, quietLogger())
	patient, doctor, appointment := sampleAppointment()

	if err := n.AppointmentReminder(context.Background(), patient, appointment); err != nil {
		t.Fatalf("AppointmentReminder: %v", err)
	}
	if err := n.AppointmentReminder(context.Background(), doctor, appointment); err != nil {
		t.Fatalf("AppointmentReminder: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(sender.sent))
	}
	if to := sender.sent[0].GetHeader("To"); len(to) != 1 || to[0] != patient.Email {
		t.Errorf("To = %v", to)
	}
	if from := sender.sent[0].GetHeader("From"); len(from) != 1 || from[0] != "noreply@medilink.com" {
		t.Errorf("From = %v", from)
	}
	if subject := sender.sent[1].GetHeader("Subject"); len(subject) != 1 || subject[0] != "Appointment reminder" {
		t.Errorf("Subject = %v", subject)
	}
}

func TestMailNotifierPropagatesSendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	n := NewMailNotifierWithSender("noreply@medilink.com", sender, quietLogger())
	admin := entity.User{Email: "admin@medilink.com", FirstName: "Admin"}

	err := n.LowStockAlert(context.Background(), admin, []entity.Supply{{Name: "Gloves", CurrentStock: 1, MinimumStock: 5}})
	if err == nil || !strings.Contains(err.Error(), "admin@medilink.com") {
		t.Fatalf("err = %v", err)
	}
}

func TestLogNotifierWritesOneEntryPerSend(t *testing.T) {
	log, hook := test.NewNullLogger()
	n := NewLogNotifier(log)
	_, doctor, appointment := sampleAppointment()
	supplies := []entity.Supply{{Name: "Syringes"}, {Name: "Gloves"}}

	if err := n.SupplyShortageAlert(context.Background(), doctor, appointment, supplies); err != nil {
		t.Fatalf("SupplyShortageAlert: %v", err)
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("nothing logged")
	}
	if entry.Data["to"] != doctor.Email || entry.Data["notification"] != "supply_shortage" {
		t.Errorf("fields = %v", entry.Data)
	}
	if entry.Data["supplies"] != "Syringes, Gloves" {
		t.Errorf("supplies = %v", entry.Data["supplies"])
	}
}

func TestReminderMessageAddressesRecipient(t *testing.T) {
	patient, doctor, appointment := sampleAppointment()

	if msg := reminderMessage(patient, appointment); !strings.Contains(msg.body, "Dr. John Smith") {
		t.Errorf("patient body = %q", msg.body)
	}
	if msg := reminderMessage(doctor, appointment); !strings.Contains(msg.body, "John Doe") {
		t.Errorf("doctor body = %q", msg.body)
	}
}
