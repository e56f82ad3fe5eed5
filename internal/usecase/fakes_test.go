package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"medilink/internal/domain/entity"
	"medilink/internal/domain/repository"
	"medilink/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// memStore is the shared in-memory database behind the fake repositories.
type memStore struct {
	users        map[uuid.UUID]entity.User
	doctors      map[int64]entity.Doctor
	supplies     map[int64]entity.Supply
	appointments map[int64]entity.Appointment
	auditLogs    []entity.AuditLog
	nextID       int64
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[uuid.UUID]entity.User{},
		doctors:      map[int64]entity.Doctor{},
		supplies:     map[int64]entity.Supply{},
		appointments: map[int64]entity.Appointment{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.doctors {
		c.doctors[k] = v
	}
	for k, v := range s.supplies {
		c.supplies[k] = v
	}
	for k, v := range s.appointments {
		v.RequiredSupplies = append(v.RequiredSupplies[:0:0], v.RequiredSupplies...)
		c.appointments[k] = v
	}
	c.auditLogs = append(c.auditLogs, s.auditLogs...)
	c.nextID = s.nextID
	return c
}

func (s *memStore) restore(from *memStore) {
	s.users = from.users
	s.doctors = from.doctors
	s.supplies = from.supplies
	s.appointments = from.appointments
	s.auditLogs = from.auditLogs
	s.nextID = from.nextID
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// memUnitOfWork restores the store when fn fails, mirroring a rollback.
// Nested calls join the outer unit.
type memUnitOfWork struct {
	store *memStore
	began int
}

type memTxKey struct{}

func (u *memUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	u.began++
	saved := u.store.snapshot()
	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		u.store.restore(saved)
		return err
	}
	return nil
}

// users

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return uniqueViolation("users_email_key")
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	stored.Doctor = nil
	r.s.users[user.ID] = stored
	return nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	for _, d := range r.s.doctors {
		if d.UserID == id {
			d := d
			u.Doctor = &d
		}
	}
	return &u, nil
}

func (r *memUserRepo) FindAll(ctx context.Context) ([]entity.User, error) {
	users := make([]entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].FirstName < users[j].FirstName })
	return users, nil
}

func (r *memUserRepo) FindByRole(ctx context.Context, role entity.Role) ([]entity.User, error) {
	var users []entity.User
	for _, u := range r.s.users {
		if u.Role == role {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	for _, u := range r.s.users {
		if u.Email == user.Email && u.ID != user.ID {
			return uniqueViolation("users_email_key")
		}
	}
	stored := *user
	stored.Doctor = nil
	r.s.users[user.ID] = stored
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.s.users, id)
	return nil
}

// doctors

type memDoctorRepo struct{ s *memStore }

func (r *memDoctorRepo) withUser(d entity.Doctor) *entity.Doctor {
	d.User = r.s.users[d.UserID]
	return &d
}

func (r *memDoctorRepo) Create(ctx context.Context, doctor *entity.Doctor) error {
	for _, d := range r.s.doctors {
		if d.LicenseNumber == doctor.LicenseNumber {
			return uniqueViolation("doctors_license_number_key")
		}
	}
	doctor.ID = r.s.id()
	doctor.CreatedAt = time.Now()
	stored := *doctor
	stored.User = entity.User{}
	r.s.doctors[doctor.ID] = stored
	return nil
}

func (r *memDoctorRepo) FindByID(ctx context.Context, id int64) (*entity.Doctor, error) {
	d, ok := r.s.doctors[id]
	if !ok {
		return nil, nil
	}
	return r.withUser(d), nil
}

func (r *memDoctorRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Doctor, error) {
	for _, d := range r.s.doctors {
		if d.UserID == userID {
			return r.withUser(d), nil
		}
	}
	return nil, nil
}

func (r *memDoctorRepo) FindByLicenseNumber(ctx context.Context, license string) (*entity.Doctor, error) {
	for _, d := range r.s.doctors {
		if d.LicenseNumber == license {
			return r.withUser(d), nil
		}
	}
	return nil, nil
}

func (r *memDoctorRepo) FindAll(ctx context.Context) ([]entity.Doctor, error) {
	doctors := make([]entity.Doctor, 0, len(r.s.doctors))
	for _, d := range r.s.doctors {
		doctors = append(doctors, *r.withUser(d))
	}
	sort.Slice(doctors, func(i, j int) bool { return doctors[i].ID < doctors[j].ID })
	return doctors, nil
}

func (r *memDoctorRepo) Update(ctx context.Context, doctor *entity.Doctor) error {
	for _, d := range r.s.doctors {
		if d.LicenseNumber == doctor.LicenseNumber && d.ID != doctor.ID {
			return uniqueViolation("doctors_license_number_key")
		}
	}
	stored := *doctor
	stored.User = entity.User{}
	r.s.doctors[doctor.ID] = stored
	return nil
}

func (r *memDoctorRepo) Delete(ctx context.Context, id int64) error {
	delete(r.s.doctors, id)
	return nil
}

// supplies

type memSupplyRepo struct{ s *memStore }

func (r *memSupplyRepo) Create(ctx context.Context, supply *entity.Supply) error {
	supply.ID = r.s.id()
	r.s.supplies[supply.ID] = *supply
	return nil
}

func (r *memSupplyRepo) FindByID(ctx context.Context, id int64) (*entity.Supply, error) {
	supply, ok := r.s.supplies[id]
	if !ok {
		return nil, nil
	}
	return &supply, nil
}

func (r *memSupplyRepo) FindByIDs(ctx context.Context, ids []int64) ([]entity.Supply, error) {
	var supplies []entity.Supply
	for _, id := range ids {
		if supply, ok := r.s.supplies[id]; ok {
			supplies = append(supplies, supply)
		}
	}
	sort.Slice(supplies, func(i, j int) bool { return supplies[i].ID < supplies[j].ID })
	return supplies, nil
}

func (r *memSupplyRepo) FindAll(ctx context.Context) ([]entity.Supply, error) {
	supplies := make([]entity.Supply, 0, len(r.s.supplies))
	for _, supply := range r.s.supplies {
		supplies = append(supplies, supply)
	}
	sort.Slice(supplies, func(i, j int) bool { return supplies[i].Name < supplies[j].Name })
	return supplies, nil
}

func (r *memSupplyRepo) Update(ctx context.Context, supply *entity.Supply) error {
	r.s.supplies[supply.ID] = *supply
	return nil
}

func (r *memSupplyRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if _, ok := r.s.supplies[id]; !ok {
		return 0, nil
	}
	delete(r.s.supplies, id)
	return 1, nil
}

func (r *memSupplyRepo) DecrementIfInStock(ctx context.Context, id int64) (int64, error) {
	supply, ok := r.s.supplies[id]
	if !ok || supply.CurrentStock <= 0 {
		return 0, nil
	}
	supply.CurrentStock--
	r.s.supplies[id] = supply
	return 1, nil
}

func (r *memSupplyRepo) IncrementStock(ctx context.Context, id int64, quantity int) (int64, error) {
	supply, ok := r.s.supplies[id]
	if !ok {
		return 0, nil
	}
	supply.CurrentStock += quantity
	r.s.supplies[id] = supply
	return 1, nil
}

func (r *memSupplyRepo) LowStock(ctx context.Context) ([]entity.Supply, error) {
	var supplies []entity.Supply
	for _, supply := range r.s.supplies {
		if supply.CurrentStock <= supply.MinimumStock {
			supplies = append(supplies, supply)
		}
	}
	sort.Slice(supplies, func(i, j int) bool {
		if supplies[i].CurrentStock != supplies[j].CurrentStock {
			return supplies[i].CurrentStock < supplies[j].CurrentStock
		}
		return supplies[i].Name < supplies[j].Name
	})
	return supplies, nil
}

func (r *memSupplyRepo) ExpiringBetween(ctx context.Context, from, to time.Time) ([]entity.Supply, error) {
	var supplies []entity.Supply
	for _, supply := range r.s.supplies {
		// expiry_date > from AND expiry_date <= to
		if supply.ExpiryDate != nil && supply.ExpiryDate.After(from) && !supply.ExpiryDate.After(to) {
			supplies = append(supplies, supply)
		}
	}
	sort.Slice(supplies, func(i, j int) bool { return supplies[i].ID < supplies[j].ID })
	return supplies, nil
}

// appointments

type memAppointmentRepo struct {
	s         *memStore
	createErr error
}

func (r *memAppointmentRepo) withRelations(a entity.Appointment) entity.Appointment {
	a.Patient = r.s.users[a.PatientID]
	if d, ok := r.s.doctors[a.DoctorID]; ok {
		d.User = r.s.users[d.UserID]
		a.Doctor = d
	}
	return a
}

func (r *memAppointmentRepo) Create(ctx context.Context, appointment *entity.Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}
	appointment.ID = r.s.id()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt
	stored := *appointment
	stored.Patient = entity.User{}
	stored.Doctor = entity.Doctor{}
	r.s.appointments[appointment.ID] = stored
	return nil
}

func (r *memAppointmentRepo) FindByID(ctx context.Context, id int64) (*entity.Appointment, error) {
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, nil
	}
	a = r.withRelations(a)
	return &a, nil
}

func (r *memAppointmentRepo) List(ctx context.Context, filter repository.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	for _, a := range r.s.appointments {
		switch {
		case filter.PatientID != nil && a.PatientID != *filter.PatientID:
			continue
		case filter.DoctorID != nil && a.DoctorID != *filter.DoctorID:
			continue
		case filter.Status != "" && a.Status != filter.Status:
			continue
		case filter.From != nil && a.AppointmentDate.Before(*filter.From):
			continue
		case filter.To != nil && !a.AppointmentDate.Before(*filter.To):
			continue
		}
		appointments = append(appointments, r.withRelations(a))
	}
	sort.Slice(appointments, func(i, j int) bool {
		if !appointments[i].AppointmentDate.Equal(appointments[j].AppointmentDate) {
			return appointments[i].AppointmentDate.Before(appointments[j].AppointmentDate)
		}
		return appointments[i].ID < appointments[j].ID
	})
	if filter.Limit > 0 && len(appointments) > filter.Limit {
		appointments = appointments[:filter.Limit]
	}
	return appointments, nil
}

func (r *memAppointmentRepo) ListCancelled(ctx context.Context, limit int) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	for _, a := range r.s.appointments {
		if a.Status == entity.AppointmentStatusCancelled {
			appointments = append(appointments, r.withRelations(a))
		}
	}
	sort.Slice(appointments, func(i, j int) bool { return appointments[i].UpdatedAt.After(appointments[j].UpdatedAt) })
	if limit > 0 && len(appointments) > limit {
		appointments = appointments[:limit]
	}
	return appointments, nil
}

func (r *memAppointmentRepo) UpdateDetails(ctx context.Context, appointment *entity.Appointment) error {
	stored, ok := r.s.appointments[appointment.ID]
	if !ok {
		return nil
	}
	stored.Notes = appointment.Notes
	stored.AppointmentDate = appointment.AppointmentDate
	stored.AppointmentType = appointment.AppointmentType
	stored.UpdatedAt = time.Now()
	r.s.appointments[appointment.ID] = stored
	return nil
}

func (r *memAppointmentRepo) TransitionStatus(ctx context.Context, id int64, from, to entity.AppointmentStatus) (int64, error) {
	stored, ok := r.s.appointments[id]
	if !ok || stored.Status != from {
		return 0, nil
	}
	stored.Status = to
	stored.UpdatedAt = time.Now()
	r.s.appointments[id] = stored
	return 1, nil
}

func (r *memAppointmentRepo) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	for id, a := range r.s.appointments {
		if a.PatientID == patientID {
			delete(r.s.appointments, id)
		}
	}
	return nil
}

func (r *memAppointmentRepo) DeleteByDoctor(ctx context.Context, doctorID int64) error {
	for id, a := range r.s.appointments {
		if a.DoctorID == doctorID {
			delete(r.s.appointments, id)
		}
	}
	return nil
}

func (r *memAppointmentRepo) CountByStatus(ctx context.Context) (map[entity.AppointmentStatus]int64, error) {
	counts := map[entity.AppointmentStatus]int64{}
	for _, a := range r.s.appointments {
		counts[a.Status]++
	}
	return counts, nil
}

func (r *memAppointmentRepo) MonthlyCounts(ctx context.Context, since time.Time) ([]entity.MonthlyCount, error) {
	byMonth := map[string]int64{}
	for _, a := range r.s.appointments {
		if !a.AppointmentDate.Before(since) {
			byMonth[a.AppointmentDate.Format("2006-01")]++
		}
	}
	counts := make([]entity.MonthlyCount, 0, len(byMonth))
	for month, count := range byMonth {
		counts = append(counts, entity.MonthlyCount{Month: month, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Month < counts[j].Month })
	return counts, nil
}

func (r *memAppointmentRepo) SupplyUsage(ctx context.Context) ([]entity.SupplyUsage, error) {
	byID := map[int64]int64{}
	for _, a := range r.s.appointments {
		if a.Status != entity.AppointmentStatusCompleted {
			continue
		}
		for _, id := range a.RequiredSupplies {
			byID[id]++
		}
	}
	var usage []entity.SupplyUsage
	for id, count := range byID {
		usage = append(usage, entity.SupplyUsage{SupplyID: id, SupplyName: r.s.supplies[id].Name, UsageCount: count})
	}
	sort.Slice(usage, func(i, j int) bool { return usage[i].UsageCount > usage[j].UsageCount })
	return usage, nil
}

// audit logs

type memAuditLogRepo struct{ s *memStore }

func (r *memAuditLogRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	log.ID = r.s.id()
	log.CreatedAt = time.Now()
	r.s.auditLogs = append(r.s.auditLogs, *log)
	return nil
}

func (r *memAuditLogRepo) FindAll(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	logs := make([]entity.AuditLog, 0, len(r.s.auditLogs))
	for i := len(r.s.auditLogs) - 1; i >= 0; i-- {
		logs = append(logs, r.s.auditLogs[i])
	}
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (r *memAuditLogRepo) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	for _, log := range r.s.auditLogs {
		if log.ID == id {
			return &log, nil
		}
	}
	return nil, nil
}

// settings and tokens

type memSettingsRepo struct {
	settings *entity.Settings
	err      error
}

func (r *memSettingsRepo) Get(ctx context.Context) (*entity.Settings, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.settings == nil {
		return nil, nil
	}
	s := *r.settings
	return &s, nil
}

func (r *memSettingsRepo) Save(ctx context.Context, settings *entity.Settings) error {
	s := *settings
	r.settings = &s
	return nil
}

type memTokenRepo struct {
	tokens map[string]bool
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: map[string]bool{}}
}

func (r *memTokenRepo) Store(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	r.tokens[userID.String()+":"+tokenID] = true
	return nil
}

func (r *memTokenRepo) Exists(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	return r.tokens[userID.String()+":"+tokenID], nil
}

func (r *memTokenRepo) Revoke(ctx context.Context, userID uuid.UUID, tokenID string) error {
	delete(r.tokens, userID.String()+":"+tokenID)
	return nil
}

func (r *memTokenRepo) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	for key := range r.tokens {
		if strings.HasPrefix(key, userID.String()+":") {
			delete(r.tokens, key)
		}
	}
	return nil
}

// sentNotification is one call on the recording notifier.
type sentNotification struct {
	kind     string
	to       string
	supplies []string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (n *recordingNotifier) record(kind string, to entity.User, supplies []entity.Supply) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	names := make([]string, len(supplies))
	for i, s := range supplies {
		names[i] = s.Name
	}
	n.sent = append(n.sent, sentNotification{kind: kind, to: to.Email, supplies: names})
	return nil
}

func (n *recordingNotifier) AppointmentReminder(ctx context.Context, recipient entity.User, appointment entity.Appointment) error {
	return n.record("reminder", recipient, nil)
}

func (n *recordingNotifier) LowStockAlert(ctx context.Context, recipient entity.User, supplies []entity.Supply) error {
	return n.record("low_stock", recipient, supplies)
}

func (n *recordingNotifier) ExpiryAlert(ctx context.Context, recipient entity.User, supplies []entity.Supply) error {
	return n.record("expiry", recipient, supplies)
}

func (n *recordingNotifier) SupplyShortageAlert(ctx context.Context, recipient entity.User, appointment entity.Appointment, supplies []entity.Supply) error {
	return n.record("shortage", recipient, supplies)
}

func (n *recordingNotifier) kinds(kind string) []sentNotification {
	var out []sentNotification
	for _, s := range n.sent {
		if s.kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// clinic wires every usecase over one in-memory store.
type clinic struct {
	store        *memStore
	uow          *memUnitOfWork
	log          *logrus.Logger
	logs         *test.Hook
	notifier     *recordingNotifier
	settingsRepo *memSettingsRepo
	tokenRepo    *memTokenRepo

	userRepo        *memUserRepo
	doctorRepo      *memDoctorRepo
	supplyRepo      *memSupplyRepo
	appointmentRepo *memAppointmentRepo
	auditLogRepo    *memAuditLogRepo

	supplies      SupplyUsecase
	appointments  *appointmentUsecase
	doctors       DoctorUsecase
	users         UserUsecase
	notifications *notificationUsecase
	settings      SettingsUsecase
	reports       *reportUsecase
	auditLogs     AuditLogUsecase
}

func newClinic() *clinic {
	log, hook := test.NewNullLogger()
	store := newMemStore()
	c := &clinic{
		store:           store,
		uow:             &memUnitOfWork{store: store},
		log:             log,
		logs:            hook,
		notifier:        &recordingNotifier{},
		settingsRepo:    &memSettingsRepo{},
		tokenRepo:       newMemTokenRepo(),
		userRepo:        &memUserRepo{s: store},
		doctorRepo:      &memDoctorRepo{s: store},
		supplyRepo:      &memSupplyRepo{s: store},
		appointmentRepo: &memAppointmentRepo{s: store},
		auditLogRepo:    &memAuditLogRepo{s: store},
	}

	audit := service.NewAuditService(log, c.auditLogRepo)
	c.settings = NewSettingsUsecase(log, c.settingsRepo)
	c.notifications = NewNotificationUsecase(log, c.notifier, c.appointmentRepo, c.supplyRepo,
		c.userRepo, c.doctorRepo, c.settings, time.UTC).(*notificationUsecase)
	c.supplies = NewSupplyUsecase(log, c.uow, c.supplyRepo, audit)
	c.appointments = NewAppointmentUsecase(log, c.uow, c.appointmentRepo, c.doctorRepo, c.userRepo,
		c.supplies, c.notifications, audit, entity.DefaultAppointmentTypes(), time.UTC).(*appointmentUsecase)
	c.doctors = NewDoctorUsecase(log, c.uow, c.userRepo, c.doctorRepo, c.appointmentRepo, c.appointments, audit)
	c.users = NewUserUsecase(log, c.uow, c.userRepo, c.doctorRepo, c.tokenRepo, c.doctors, c.appointments, audit)
	c.reports = NewReportUsecase(log, c.appointmentRepo, c.supplyRepo, time.UTC).(*reportUsecase)
	c.auditLogs = NewAuditLogUsecase(log, c.auditLogRepo)
	return c
}

func (c *clinic) addUser(role entity.Role, email string) entity.User {
	user := entity.User{ID: uuid.New(), Email: email, FirstName: strings.Split(email, "@")[0], LastName: "Test", Role: role}
	c.store.users[user.ID] = user
	return user
}

func (c *clinic) addDoctor(email, license string) (entity.User, entity.Doctor) {
	user := c.addUser(entity.RoleDoctor, email)
	doctor := entity.Doctor{ID: c.store.id(), UserID: user.ID, Specialization: "General Medicine", LicenseNumber: license}
	doctor.SetAvailability(entity.Availability{"monday": {Start: "09:00", End: "17:00"}})
	c.store.doctors[doctor.ID] = doctor
	return user, doctor
}

func (c *clinic) addSupply(name string, current, minimum int) entity.Supply {
	supply := entity.Supply{ID: c.store.id(), Name: name, CurrentStock: current, MinimumStock: minimum}
	c.store.supplies[supply.ID] = supply
	return supply
}

func (c *clinic) addAppointment(patient entity.User, doctor entity.Doctor, at time.Time, status entity.AppointmentStatus, supplies ...int64) entity.Appointment {
	appointment := entity.Appointment{
		ID:               c.store.id(),
		PatientID:        patient.ID,
		DoctorID:         doctor.ID,
		AppointmentDate:  at,
		AppointmentType:  "Consultation",
		Status:           status,
		RequiredSupplies: supplies,
		UpdatedAt:        time.Now(),
	}
	c.store.appointments[appointment.ID] = appointment
	return appointment
}

func (c *clinic) stock(id int64) int {
	return c.store.supplies[id].CurrentStock
}

func actorOf(user entity.User) entity.Actor {
	return entity.Actor{UserID: user.ID, Role: user.Role}
}
