package seed

import (
	"context"
	"fmt"
	"time"

	"medilink/internal/domain/entity"
	"medilink/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password123"

type dataset struct {
	users        []entity.User
	doctors      []entity.Doctor
	supplies     []entity.Supply
	appointments []entity.Appointment
}

// Run wipes the clinic tables and loads the demo clinic: one admin, two
// doctors, two patients, four supplies and two upcoming appointments.
func Run(ctx context.Context, db *gorm.DB, log *logrus.Logger, now time.Time) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}
	data := demoData(now, string(hash))

	userRepo := repository.NewUserRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	supplyRepo := repository.NewSupplyRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)

	err = repository.NewUnitOfWork(db).Do(ctx, func(ctx context.Context) error {
		if err := repository.Truncate(ctx, db, "audit_logs", "appointments", "supplies", "doctors", "users"); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}

		for i := range data.users {
			if err := userRepo.Create(ctx, &data.users[i]); err != nil {
				return fmt.Errorf("create user %s: %w", data.users[i].Email, err)
			}
		}
		for i := range data.doctors {
			if err := doctorRepo.Create(ctx, &data.doctors[i]); err != nil {
				return fmt.Errorf("create doctor %s: %w", data.doctors[i].LicenseNumber, err)
			}
		}
		for i := range data.supplies {
			if err := supplyRepo.Create(ctx, &data.supplies[i]); err != nil {
				return fmt.Errorf("create supply %s: %w", data.supplies[i].Name, err)
			}
		}
		for i := range data.appointments {
			appointment := &data.appointments[i]
			// doctor and supply ids are known only after insert
			appointment.DoctorID = data.doctors[appointment.DoctorID].ID
			supplyIDs := make([]int64, len(appointment.RequiredSupplies))
			for j, idx := range appointment.RequiredSupplies {
				supplyIDs[j] = data.supplies[idx].ID
			}
			appointment.RequiredSupplies = supplyIDs
			if err := appointmentRepo.Create(ctx, appointment); err != nil {
				return fmt.Errorf("create appointment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Infof("Seeded %d users, %d doctors, %d supplies, %d appointments",
		len(data.users), len(data.doctors), len(data.supplies), len(data.appointments))
	return nil
}

// demoData builds the demo clinic. Appointment DoctorID and RequiredSupplies
// hold indexes into doctors and supplies until Run resolves them.
func demoData(now time.Time, passwordHash string) dataset {
	user := func(email, first, last, phone string, role entity.Role) entity.User {
		return entity.User{
			ID:        uuid.New(),
			Email:     email,
			Password:  passwordHash,
			FirstName: first,
			LastName:  last,
			Phone:     phone,
			Role:      role,
		}
	}
	users := []entity.User{
		user("admin@medilink.com", "Admin", "User", "+1234567890", entity.RoleAdmin),
		user("dr.smith@medilink.com", "John", "Smith", "+1234567891", entity.RoleDoctor),
		user("dr.johnson@medilink.com", "Sarah", "Johnson", "+1234567892", entity.RoleDoctor),
		user("patient1@example.com", "Alice", "Brown", "+1234567893", entity.RolePatient),
		user("patient2@example.com", "Bob", "Wilson", "+1234567894", entity.RolePatient),
	}

	weekdays := func(start, end, fridayEnd string) entity.Availability {
		hours := entity.WorkingHours{Start: start, End: end}
		return entity.Availability{
			"monday":    hours,
			"tuesday":   hours,
			"wednesday": hours,
			"thursday":  hours,
			"friday":    {Start: start, End: fridayEnd},
		}
	}
	smith := entity.Doctor{
		UserID:         users[1].ID,
		Specialization: "Cardiology",
		LicenseNumber:  "MD001",
		Bio:            "Experienced cardiologist with 15 years of practice.",
	}
	smith.SetAvailability(weekdays("09:00", "17:00", "15:00"))
	johnson := entity.Doctor{
		UserID:         users[2].ID,
		Specialization: "Pediatrics",
		LicenseNumber:  "MD002",
		Bio:            "Pediatric specialist focusing on child healthcare.",
	}
	johnson.SetAvailability(weekdays("08:00", "16:00", "14:00"))

	expires := func(months int) *time.Time {
		date := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, -1)
		return &date
	}
	supplies := []entity.Supply{
		{
			Name:         "Stethoscope",
			Description:  "Digital stethoscope for cardiac examination",
			CurrentStock: 5,
			MinimumStock: 3,
			UnitPrice:    decimal.NewFromInt(150),
			Supplier:     "MedEquip Inc",
		},
		{
			Name:         "Blood Pressure Monitor",
			Description:  "Automatic blood pressure monitoring device",
			CurrentStock: 2,
			MinimumStock: 5,
			UnitPrice:    decimal.NewFromInt(200),
			Supplier:     "HealthTech Solutions",
		},
		{
			Name:         "Disposable Syringes",
			Description:  "10ml disposable syringes",
			CurrentStock: 100,
			MinimumStock: 50,
			ExpiryDate:   expires(3),
			UnitPrice:    decimal.RequireFromString("0.50"),
			Supplier:     "MedSupply Co",
		},
		{
			Name:         "Surgical Gloves",
			Description:  "Latex-free surgical gloves",
			CurrentStock: 10,
			MinimumStock: 20,
			ExpiryDate:   expires(1),
			UnitPrice:    decimal.RequireFromString("0.25"),
			Supplier:     "SafeHands Medical",
		},
	}

	appointments := []entity.Appointment{
		{
			PatientID:        users[3].ID,
			DoctorID:         0,
			AppointmentDate:  now.Add(24 * time.Hour),
			AppointmentType:  "Consultation",
			Status:           entity.AppointmentStatusScheduled,
			Notes:            "Regular checkup",
			RequiredSupplies: []int64{0, 1},
		},
		{
			PatientID:        users[4].ID,
			DoctorID:         1,
			AppointmentDate:  now.Add(72 * time.Hour),
			AppointmentType:  "Vaccination",
			Status:           entity.AppointmentStatusScheduled,
			Notes:            "Annual vaccination",
			RequiredSupplies: []int64{2, 3},
		},
	}

	return dataset{
		users:        users,
		doctors:      []entity.Doctor{smith, johnson},
		supplies:     supplies,
		appointments: appointments,
	}
}
