package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/SscSPs/currency_resolver/internal/adapters/exchangerate"
	"github.com/SscSPs/currency_resolver/internal/adapters/locale"
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"github.com/SscSPs/currency_resolver/internal/core/services"
	"github.com/SscSPs/currency_resolver/internal/handlers"
	"github.com/SscSPs/currency_resolver/internal/middleware"
	"github.com/SscSPs/currency_resolver/internal/platform/config"
	"github.com/SscSPs/currency_resolver/internal/repositories/database/pgsql"
	"github.com/SscSPs/currency_resolver/internal/scheduler"
	"github.com/SscSPs/currency_resolver/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Currency Resolver API
// @version 1.0
// @description Multi-currency resolution and order reconciliation service.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer, err := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), buildCollaborators(cfg, logger))
	if err != nil {
		logger.Error("Failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	jobs := scheduler.New(logger)
	if err := scheduleImports(jobs, cfg, serviceContainer, logger); err != nil {
		logger.Error("Failed to schedule exchange rate import", slog.String("error", err.Error()))
		os.Exit(1)
	}
	jobs.Start()
	defer jobs.Stop()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowCredentials = false
	corsConfig.AddAllowHeaders("Authorization")
	corsConfig.AddExposeHeaders(middleware.ContentCurrencyHeader, "X-Request-ID")
	r.Use(cors.New(corsConfig))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildCollaborators wires the request-facing adapters and the remote rate feeds.
func buildCollaborators(cfg *config.Config, logger *slog.Logger) services.Collaborators {
	settings := cfg.ResolverSettings()
	deps := services.Collaborators{
		Store:    locale.HostStoreContext{Currencies: settings.StoreCurrencies},
		Language: locale.NewAcceptLanguageContext(cfg.Languages),
		Domicile: locale.RegionCurrency{},
	}

	switch cfg.GeoProvider {
	case "header":
		deps.Geo = locale.HeaderGeoLocator{Header: cfg.GeoCountryHeader}
	default:
		deps.Geo = locale.NoGeoLocator{}
	}

	feedLogger := exchangerate.WithLogger(logger)
	deps.RateSources = []portssvc.RateSource{
		exchangerate.NewECBClient(feedLogger),
		exchangerate.NewFixerClient(domain.ProviderFixer, cfg.ExchangeAPIKey, feedLogger),
		exchangerate.NewFixerClient(domain.ProviderFixerPaid, cfg.ExchangeAPIKey, feedLogger),
	}
	return deps
}

func scheduleImports(jobs *scheduler.Scheduler, cfg *config.Config, container *portssvc.ServiceContainer, logger *slog.Logger) error {
	provider := cfg.ExchangeRateProvider
	if provider == "" || provider == domain.ProviderManual || cfg.ExchangeImportSchedule == "" {
		logger.Info("Exchange rate import not scheduled", slog.String("provider", provider))
		return nil
	}
	job := scheduler.NewExchangeImportJob(container.ExchangeImport, logger)
	if err := jobs.AddJob(cfg.ExchangeImportSchedule, job); err != nil {
		return err
	}
	logger.Info("Exchange rate import scheduled",
		slog.String("provider", provider),
		slog.String("schedule", cfg.ExchangeImportSchedule))
	return nil
}

func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")
	// Open a temporary standard sql.DB connection for migrations
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	// Apply all available "up" migrations
	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
