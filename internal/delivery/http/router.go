package http

import (
	"net/http"

	"medilink/internal/delivery/http/handler"
	"medilink/internal/delivery/http/middleware"
	"medilink/pkg/response"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	userHandler        *handler.UserHandler
	doctorHandler      *handler.DoctorHandler
	appointmentHandler *handler.AppointmentHandler
	supplyHandler      *handler.SupplyHandler
	reportHandler      *handler.ReportHandler
	settingsHandler    *handler.SettingsHandler
	auditLogHandler    *handler.AuditLogHandler
	healthHandler      *handler.HealthHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	loggingMiddleware  *middleware.LoggingMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
	supplyHandler *handler.SupplyHandler,
	reportHandler *handler.ReportHandler,
	settingsHandler *handler.SettingsHandler,
	auditLogHandler *handler.AuditLogHandler,
	healthHandler *handler.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		userHandler:        userHandler,
		doctorHandler:      doctorHandler,
		appointmentHandler: appointmentHandler,
		supplyHandler:      supplyHandler,
		reportHandler:      reportHandler,
		settingsHandler:    settingsHandler,
		auditLogHandler:    auditLogHandler,
		healthHandler:      healthHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		loggingMiddleware:  loggingMiddleware,
	}
}

func admin(h http.HandlerFunc) http.Handler {
	return middleware.RequireAdmin(h)
}

// staff gates routes for admins and doctors; owning-doctor checks stay in
// the usecase.
func staff(h http.HandlerFunc) http.Handler {
	return middleware.RequireStaff(h)
}

// Setup registers every route under /api. CORS and request logging wrap the
// whole router so preflight and unmatched requests pass through them too.
func (r *Router) Setup() http.Handler {
	api := r.router.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/health", r.healthHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/auth/login", r.authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", r.authHandler.Register).Methods(http.MethodPost)

	// Everything below requires a bearer token
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Users
	protected.Handle("/users", admin(r.userHandler.GetAllUsers)).Methods(http.MethodGet)
	protected.Handle("/users", admin(r.userHandler.CreateUser)).Methods(http.MethodPost)
	protected.HandleFunc("/users/profile", r.userHandler.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", r.userHandler.GetUser).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", r.userHandler.UpdateUser).Methods(http.MethodPut)
	protected.Handle("/users/{id}", admin(r.userHandler.DeleteUser)).Methods(http.MethodDelete)

	// Doctors
	protected.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	protected.Handle("/doctors", admin(r.doctorHandler.CreateDoctor)).Methods(http.MethodPost)
	protected.HandleFunc("/doctors/{id:[0-9]+}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	protected.Handle("/doctors/{id:[0-9]+}", staff(r.doctorHandler.UpdateDoctor)).Methods(http.MethodPut)
	protected.Handle("/doctors/{id:[0-9]+}", admin(r.doctorHandler.DeleteDoctor)).Methods(http.MethodDelete)
	protected.HandleFunc("/doctors/{id:[0-9]+}/availability", r.doctorHandler.GetAvailability).Methods(http.MethodGet)
	protected.Handle("/doctors/{id:[0-9]+}/availability", staff(r.doctorHandler.UpdateAvailability)).Methods(http.MethodPut)

	// Appointments
	protected.HandleFunc("/appointments", r.appointmentHandler.GetAllAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/types", r.appointmentHandler.GetTypes).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/check-supply-availability", r.appointmentHandler.CheckSupplyAvailability).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/doctor/{id:[0-9]+}/availability", r.appointmentHandler.GetDoctorAvailability).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id:[0-9]+}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id:[0-9]+}", r.appointmentHandler.UpdateAppointment).Methods(http.MethodPut)
	protected.HandleFunc("/appointments/{id:[0-9]+}", r.appointmentHandler.CancelAppointment).Methods(http.MethodDelete)
	protected.Handle("/appointments/{id:[0-9]+}/remind", admin(r.appointmentHandler.SendReminder)).Methods(http.MethodPost)

	// Supplies
	protected.HandleFunc("/supplies", r.supplyHandler.GetAllSupplies).Methods(http.MethodGet)
	protected.Handle("/supplies", admin(r.supplyHandler.CreateSupply)).Methods(http.MethodPost)
	protected.HandleFunc("/supplies/low-stock", r.supplyHandler.GetLowStock).Methods(http.MethodGet)
	protected.HandleFunc("/supplies/{id:[0-9]+}", r.supplyHandler.GetSupply).Methods(http.MethodGet)
	protected.Handle("/supplies/{id:[0-9]+}", admin(r.supplyHandler.UpdateSupply)).Methods(http.MethodPut)
	protected.Handle("/supplies/{id:[0-9]+}", admin(r.supplyHandler.DeleteSupply)).Methods(http.MethodDelete)
	protected.Handle("/supplies/{id:[0-9]+}/reorder", admin(r.supplyHandler.Reorder)).Methods(http.MethodPost)

	// Admin only
	adminOnly := protected.NewRoute().Subrouter()
	adminOnly.Use(middleware.RequireAdmin)

	adminOnly.HandleFunc("/reports/upcoming-appointments", r.reportHandler.UpcomingAppointments).Methods(http.MethodGet)
	adminOnly.HandleFunc("/reports/low-stock", r.reportHandler.LowStock).Methods(http.MethodGet)
	adminOnly.HandleFunc("/reports/cancellations", r.reportHandler.Cancellations).Methods(http.MethodGet)
	adminOnly.HandleFunc("/reports/supply-usage", r.reportHandler.SupplyUsage).Methods(http.MethodGet)
	adminOnly.HandleFunc("/reports/appointment-stats", r.reportHandler.AppointmentStats).Methods(http.MethodGet)

	adminOnly.HandleFunc("/settings", r.settingsHandler.GetSettings).Methods(http.MethodGet)
	adminOnly.HandleFunc("/settings", r.settingsHandler.UpdateSettings).Methods(http.MethodPut)

	adminOnly.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	adminOnly.HandleFunc("/audit-logs/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r.corsMiddleware.Handle(r.loggingMiddleware.Handle(r.router))
}
