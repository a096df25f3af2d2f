package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/adapters/database/pgsql"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/adapters/forex"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/core/services"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/handlers"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/middleware"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/utils"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/pkg/config"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
)

// @title Secure Payment Gateway API
// @version 1.0
// @description Payment intake with PKR conversion, encrypted PII at rest and mobile-number-gated lookup.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Every log line passes through the redacting handler; there is no
	// unscrubbed path to stdout.
	logger := slog.New(utils.NewRedactingHandler(slog.NewJSONHandler(os.Stdout, nil)))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		os.Exit(1)
	}

	protector, err := utils.NewPIIProtector(cfg.PIIProtectionKey)
	if err != nil {
		logger.Error("Failed to initialize PII protector", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rateSource := forex.NewHTTPSource(cfg.ForexAPIBaseURL, cfg.ForexAPIKey, cfg.ForexTimeout)
	forexService := services.NewForexService(rateSource, cfg.ForexCacheTTL)
	paymentService := services.NewPaymentService(pgsql.NewTransactionRepository(dbPool), forexService, protector)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(limitermemory.NewStore(), rate)))

	handlers.RegisterRoutes(r, cfg, paymentService, protector)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection compatible with the main pgx pool.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Error("Migration source error", slog.String("error", sourceErr.Error()))
		return sourceErr
	}
	if dbErr != nil {
		logger.Error("Migration database error", slog.String("error", dbErr.Error()))
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
