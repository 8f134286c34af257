package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"clinicapi/docs"
	"clinicapi/internal/auth"
	"clinicapi/internal/config"
	"clinicapi/internal/database"
	"clinicapi/internal/database/migration"
	handlers "clinicapi/internal/http/handler"
	"clinicapi/internal/http/middleware"
	"clinicapi/internal/logging"
	"clinicapi/internal/mailer"
	"clinicapi/internal/metrics"
	tracing "clinicapi/internal/otel"
	"clinicapi/internal/report"
	"clinicapi/internal/repository/postgres"
	"clinicapi/internal/service"
	"clinicapi/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, config.Load())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema when it is missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logging.New(cfg.LogLevel, cfg.IsDev())

			db, err := database.NewPostgres(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			return migration.EnsureMigrated(cmd.Context(), db, log, dbHost(cfg.Database))
		},
	}
}

func runServer(ctx context.Context, cfg *config.AppConfig) error {
	log := logging.New(cfg.LogLevel, cfg.IsDev())

	shutdownTracing, err := tracing.Init(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Error().Err(err).Msg("tracing shutdown failed")
		}
	}()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	tokens, err := auth.NewTokens(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	if err != nil {
		return err
	}

	assets, err := assetSource(ctx, cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reportMetrics, err := metrics.NewReports(reg)
	if err != nil {
		return err
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	svcs := buildServices(db, cfg, log, tokens, assets, reportMetrics)
	bootstrapDB(ctx, cfg, db, svcs.Auth, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    1 << 20,
	})

	app.Use(recover.New())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID(log))
	app.Use(middleware.Logger(logging.Component(log, "http")))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	app.Get("/swagger/*", swaggerHandler)

	handlers.RegisterRoutes(app, db, svcs, handlers.Guards{
		Protect:    middleware.RequireAuth(tokens),
		LoginLimit: middleware.NewIPRateLimiter(cfg.Auth.LoginRatePerMinute).Handler(),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ":"+cfg.Port).Msg("server_listening")
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("server_shutting_down")
	return app.ShutdownWithTimeout(shutdownTimeout)
}

// bootstrapDB creates the schema and then the admin account when
// INIT_DB_ON_STARTUP is set. Failures are logged and the server keeps
// starting; a failed migration skips the admin bootstrap.
func bootstrapDB(ctx context.Context, cfg *config.AppConfig, db *sql.DB, admin service.AuthService, log zerolog.Logger) {
	if !cfg.InitDBOnStartup {
		return
	}
	if err := migration.EnsureMigrated(ctx, db, log, dbHost(cfg.Database)); err != nil {
		log.Warn().Err(err).Msg("startup_db_init_failed")
		return
	}
	if err := admin.EnsureAdmin(ctx, cfg.Auth.AdminUser, cfg.Auth.AdminPassword); err != nil {
		log.Warn().Err(err).Msg("startup_admin_bootstrap_failed")
	}
}

func buildServices(db *sql.DB, cfg *config.AppConfig, log zerolog.Logger, tokens *auth.Tokens, assets report.AssetSource, m *metrics.Reports) handlers.Services {
	companies := postgres.NewCompanyPostgres(db)
	patients := postgres.NewPatientPostgres(db)
	records := postgres.NewMedicalRecordPostgres(db)
	users := postgres.NewUserPostgres(db)

	authSvc := service.NewAuthService(users, tokens, logging.Component(log, "auth"))

	deps := service.DeliveryDeps{
		Records:    records,
		Renderer:   report.NewRenderer(assets, report.WithLogger(logging.Component(log, "report"))),
		Dispatcher: mailer.NewDispatcher(mailer.NewSMTPSender(cfg.SMTP), logging.Component(log, "mailer")),
		Composer:   mailer.Composer{Signature: cfg.SMTP.Signature},
		Metrics:    m,
		Logger:     logging.Component(log, "delivery"),
	}

	return handlers.Services{
		Auth:      authSvc,
		Dashboard: service.NewDashboardService(companies, patients, records),
		Companies: service.NewCompanyService(companies),
		Patients:  service.NewPatientService(patients, companies),
		Records:   service.NewMedicalRecordService(records, patients),
		Reports:   service.NewReportService(deps),
		Daily:     service.NewDailyService(deps),
	}
}

// assetSource picks where the report letterhead images are read from.
func assetSource(ctx context.Context, cfg *config.AppConfig) (report.AssetSource, error) {
	switch cfg.Report.AssetSource {
	case "minio":
		store, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		return report.StorageAssets{Store: store, Prefix: cfg.Report.AssetPrefix}, nil
	case "fs", "":
		return report.DirAssets{Dir: cfg.Report.AssetDir}, nil
	default:
		return nil, fmt.Errorf("unknown REPORT_ASSET_SOURCE %q", cfg.Report.AssetSource)
	}
}

// swaggerHandler serves Swagger UI with the request's host and scheme.
func swaggerHandler(c *fiber.Ctx) error {
	scheme := c.Protocol()
	if proto := c.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.Split(proto, ",")[0]
	}

	docs.SwaggerInfo.Host = c.Get("Host")
	docs.SwaggerInfo.Schemes = []string{scheme}

	return swagger.HandlerDefault(c)
}

func dbHost(c config.DatabaseConfig) string {
	if c.URL != "" {
		if u, err := url.Parse(c.URL); err == nil {
			return u.Hostname()
		}
	}
	return c.Host
}
