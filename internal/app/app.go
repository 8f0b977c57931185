package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/patsapolpro/web-starter-kit-ai/internal/config"
	"github.com/patsapolpro/web-starter-kit-ai/internal/db"
	"github.com/patsapolpro/web-starter-kit-ai/internal/health"
	"github.com/patsapolpro/web-starter-kit-ai/internal/logger"
	"github.com/patsapolpro/web-starter-kit-ai/internal/messaging"
	"github.com/patsapolpro/web-starter-kit-ai/internal/metrics"
	"github.com/patsapolpro/web-starter-kit-ai/internal/middleware"
	"github.com/patsapolpro/web-starter-kit-ai/internal/migration"
	"github.com/patsapolpro/web-starter-kit-ai/internal/preference"
	"github.com/patsapolpro/web-starter-kit-ai/internal/project"
	"github.com/patsapolpro/web-starter-kit-ai/internal/requirement"
	"github.com/patsapolpro/web-starter-kit-ai/internal/telemetry"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type App struct {
	config        *config.Config
	router        chi.Router
	server        *http.Server
	logger        *slog.Logger
	db            *bun.DB
	producer      *messaging.Producer
	meterProvider *sdkmetric.MeterProvider
}

// New loads configuration and builds the application with the default
// logger.
func New(ctx context.Context) (*App, error) {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses the same handler
	slog.SetDefault(slogLogger)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	return NewWithConfig(ctx, cfg, slogLogger)
}

// NewWithConfig wires every component from cfg. The returned App owns the
// database pool and the NATS connection; Shutdown releases them.
func NewWithConfig(ctx context.Context, cfg *config.Config, slogLogger *slog.Logger) (*App, error) {
	slogLogger.Info("initializing application", "version", Version, "commit", GitCommit)

	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	meterProvider, err := telemetry.InitMeterProvider(ctx, cfg.Telemetry, ServiceName, Version, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize OTel metrics", "error", err)
	}
	app.meterProvider = meterProvider

	appMetrics, err := metrics.New(ServiceName)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	if err := metrics.RegisterRuntime(otel.Meter(ServiceName), ServiceName, Version, cfg.Env); err != nil {
		slogLogger.Warn("failed to register runtime metrics", "error", err)
	}

	if cfg.Migrations.Auto {
		if err := runMigrations(ctx, cfg.Database.DSN(), slogLogger); err != nil {
			return nil, err
		}
	}

	database, err := db.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.db = database

	if err := appMetrics.DB().RegisterDB(database.DB, otel.Meter(ServiceName)); err != nil {
		slogLogger.Warn("failed to register pool metrics", "error", err)
	}

	var publisher messaging.Publisher = messaging.NopPublisher{}
	if cfg.NATS.URL != "" {
		producer, err := messaging.NewProducer(cfg.NATS.URL, cfg.NATS.Subject, slogLogger, appMetrics.Messaging())
		if err != nil {
			slogLogger.Warn("failed to initialize NATS producer, events disabled", "error", err)
		} else {
			app.producer = producer
			publisher = producer
		}
	} else {
		slogLogger.Info("NATS URL not configured, events disabled")
	}

	projectRepo := project.NewRepository(database, appMetrics.DB())
	projectService := project.NewService(projectRepo, publisher)
	projectHandler := project.NewHandler(projectService, slogLogger)

	requirementRepo := requirement.NewRepository(database, appMetrics.DB())
	requirementService := requirement.NewService(requirementRepo, projectRepo, publisher)
	requirementHandler := requirement.NewHandler(requirementService, slogLogger, appMetrics.HTTP())

	preferenceRepo := preference.NewRepository(database, appMetrics.DB())
	preferenceService := preference.NewService(preferenceRepo, publisher)
	preferenceHandler := preference.NewHandler(preferenceService, slogLogger)

	healthHandler := health.NewHandler(health.PingerFunc(func(ctx context.Context) error {
		return db.Ping(ctx, database)
	}), slogLogger, appMetrics.Health())

	app.router.Use(chimiddleware.RequestID)
	app.router.Use(chimiddleware.Recoverer)
	app.router.Use(middleware.RequestLogger(slogLogger, appMetrics.HTTP()))
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	healthHandler.RegisterRoutes(app.router)
	projectHandler.RegisterRoutes(app.router)
	requirementHandler.RegisterRoutes(app.router)
	preferenceHandler.RegisterRoutes(app.router)

	slogLogger.Info("application initialized successfully")

	return app, nil
}

func runMigrations(ctx context.Context, dsn string, logger *slog.Logger) error {
	migrator, err := migration.NewFromDSN(ctx, dsn, logger)
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			logger.Warn("failed to close migrator", "error", err)
		}
	}()

	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  seconds(a.config.Server.ReadTimeout),
		WriteTimeout: seconds(a.config.Server.WriteTimeout),
		IdleTimeout:  seconds(a.config.Server.IdleTimeout),
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, then releases NATS, the database pool
// and the meter provider. Errors from every step are joined.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("NATS close: %w", err))
		}
	}

	if err := db.Close(a.db); err != nil {
		errs = append(errs, fmt.Errorf("database close: %w", err))
	}

	if err := telemetry.Shutdown(ctx, a.meterProvider, a.logger); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
