package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medilink/config"
	deliveryHttp "medilink/internal/delivery/http"
	"medilink/internal/delivery/http/handler"
	"medilink/internal/delivery/http/middleware"
	"medilink/internal/domain/entity"
	"medilink/internal/infrastructure/cache"
	"medilink/internal/infrastructure/database"
	"medilink/internal/repository"
	"medilink/internal/scheduler"
	"medilink/internal/service"
	"medilink/internal/usecase"
	"medilink/pkg/jwt"
	"medilink/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	Location    *time.Location
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Scheduler   *scheduler.CronScheduler
	Sweeps      []scheduler.Sweep
}

// Load reads the configuration and builds the logger and time zone every
// command needs.
func Load() (*config.Config, *logrus.Logger, *time.Location, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := NewLogger(cfg.App)

	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.App.Timezone, err)
	}

	return cfg, log, location, nil
}

// NewLogger configures a JSON logrus logger at the configured level.
func NewLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

// New creates a new App instance with all dependencies initialized
func New(version string) (*App, error) {
	cfg, log, location, err := Load()
	if err != nil {
		return nil, err
	}
	log.Info("Configuration loaded successfully")

	app := &App{Config: cfg, Log: log, Location: location}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Timezone, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.initialize(version)

	return app, nil
}

// initialize wires every layer and the HTTP server.
func (app *App) initialize(version string) {
	cfg, log, db, redisClient := app.Config, app.Log, app.DB, app.RedisClient

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	uow := repository.NewUnitOfWork(db)
	userRepo := repository.NewUserRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	supplyRepo := repository.NewSupplyRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)
	tokenRepo := repository.NewTokenRepository(redisClient)
	settingsRepo := repository.NewSettingsRepository(redisClient)

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	notifier := newNotifier(cfg.SMTP, log)
	sweepLock := service.NewSweepLockService(redisClient, log)

	// Initialize usecases
	settingsUsecase := usecase.NewSettingsUsecase(log, settingsRepo)
	notificationUsecase := usecase.NewNotificationUsecase(log, notifier, appointmentRepo, supplyRepo, userRepo, doctorRepo, settingsUsecase, app.Location)
	supplyUsecase := usecase.NewSupplyUsecase(log, uow, supplyRepo, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(log, uow, appointmentRepo, doctorRepo, userRepo, supplyUsecase, notificationUsecase, auditService, entity.DefaultAppointmentTypes(), app.Location)
	doctorUsecase := usecase.NewDoctorUsecase(log, uow, userRepo, doctorRepo, appointmentRepo, appointmentUsecase, auditService)
	userUsecase := usecase.NewUserUsecase(log, uow, userRepo, doctorRepo, tokenRepo, doctorUsecase, appointmentUsecase, auditService)
	authUsecase := usecase.NewAuthUsecase(log, userRepo, tokenRepo, jwtService)
	reportUsecase := usecase.NewReportUsecase(log, appointmentRepo, supplyRepo, app.Location)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, auditLogRepo)

	// Initialize scheduler
	app.Scheduler = scheduler.NewCronScheduler(log, app.Location, sweepLock)
	app.Sweeps = scheduler.Sweeps(notificationUsecase)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(log, authUsecase, customValidator)
	userHandler := handler.NewUserHandler(log, userUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(log, doctorUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(log, appointmentUsecase, notificationUsecase, customValidator)
	supplyHandler := handler.NewSupplyHandler(log, supplyUsecase, customValidator)
	reportHandler := handler.NewReportHandler(log, reportUsecase)
	settingsHandler := handler.NewSettingsHandler(log, settingsUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(log, auditLogUsecase)
	healthHandler := handler.NewHealthHandler(log, version, map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	})

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authUsecase)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		userHandler,
		doctorHandler,
		appointmentHandler,
		supplyHandler,
		reportHandler,
		settingsHandler,
		auditLogHandler,
		healthHandler,
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
	)

	// Create server
	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// newNotifier sends mail when SMTP is configured and only logs otherwise.
func newNotifier(cfg config.SMTPConfig, log *logrus.Logger) service.Notifier {
	if cfg.Enabled() {
		log.Infof("Mail notifications via %s:%d", cfg.Host, cfg.Port)
		return service.NewMailNotifier(cfg, log)
	}
	log.Info("SMTP not configured, notifications are logged only")
	return service.NewLogNotifier(log)
}

// Run starts the scheduler and the HTTP server and blocks until a shutdown
// signal arrives.
func (app *App) Run() error {
	if err := scheduler.RegisterSweeps(app.Scheduler, app.Sweeps); err != nil {
		return fmt.Errorf("failed to schedule sweeps: %w", err)
	}
	app.Scheduler.Start()

	serverErr := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case err := <-serverErr:
		runErr = fmt.Errorf("failed to start server: %w", err)
	}

	app.shutdown()
	return runErr
}

// RunSweep runs one sweep by name, or every sweep for "all". Without force a
// sweep that already ran today is skipped.
func (app *App) RunSweep(ctx context.Context, name string, force bool) error {
	run := func(ctx context.Context, sweep scheduler.Sweep) error {
		if force {
			return sweep.Task(ctx)
		}
		return app.Scheduler.Run(ctx, sweep.Name, sweep.Task)
	}

	if name == "all" {
		return scheduler.RunSweeps(ctx, app.Sweeps, run)
	}

	sweep, ok := scheduler.FindSweep(app.Sweeps, name)
	if !ok {
		return fmt.Errorf("unknown sweep %q", name)
	}
	return run(ctx, sweep)
}

func (app *App) shutdown() {
	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	if err := app.Scheduler.Stop(ctx); err != nil {
		app.Log.Errorf("Scheduler did not stop in time: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
