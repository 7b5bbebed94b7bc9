package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fieldline-io/kpi-engine/pkg/auth"
	"github.com/fieldline-io/kpi-engine/pkg/config"
	"github.com/fieldline-io/kpi-engine/pkg/database"
	"github.com/fieldline-io/kpi-engine/pkg/handlers"
	"github.com/fieldline-io/kpi-engine/pkg/logging"
	"github.com/fieldline-io/kpi-engine/pkg/middleware"
	"github.com/fieldline-io/kpi-engine/pkg/repositories"
	"github.com/fieldline-io/kpi-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("bind_addr", cfg.BindAddr),
		zap.String("port", cfg.Port),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("reporting_window_start", cfg.Reporting.WindowStart))

	ctx := context.Background()

	// Migrations run over database/sql; the app itself uses the pgx pool.
	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open database for migrations", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.String("error", logging.SanitizeError(err)))
	}
	if err := migrationDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	projectRepo := repositories.NewProjectRepository(db)
	recordRepo := repositories.NewProgressRecordRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	ignoredRepo := repositories.NewIgnoredReportRepository(db)

	kpiService := services.NewKPIService(recordRepo, activityRepo, logger)
	missingReportService := services.NewMissingReportService(projectRepo, recordRepo, ignoredRepo, logger)

	validator, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	authMiddleware := auth.NewMiddleware(validator, logger)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	kpiHandler := handlers.NewKPIHandler(kpiService, logger)
	kpiHandler.RegisterRoutes(mux, authMiddleware)

	missingReportHandler := handlers.NewMissingReportHandler(missingReportService, cfg, logger)
	missingReportHandler.RegisterRoutes(mux, authMiddleware)

	handler := middleware.RequestLogger(logger)(mux)

	addr := net.JoinHostPort(cfg.BindAddr, cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting kpi-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
