package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	portsrepo "github.com/stefanache/bnr-fx-pipeline/internal/core/ports/repositories"
	"github.com/stefanache/bnr-fx-pipeline/internal/core/services"
	"github.com/stefanache/bnr-fx-pipeline/internal/feed"
	"github.com/stefanache/bnr-fx-pipeline/internal/handlers"
	"github.com/stefanache/bnr-fx-pipeline/internal/middleware"
	"github.com/stefanache/bnr-fx-pipeline/internal/platform/config"
	"github.com/stefanache/bnr-fx-pipeline/internal/repositories/database/pgsql"
	"github.com/stefanache/bnr-fx-pipeline/internal/repositories/database/sqlite"
	"github.com/stefanache/bnr-fx-pipeline/internal/scheduler"
	"github.com/stefanache/bnr-fx-pipeline/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title BNR FX Rates API
// @version 1.0
// @description Ingests the National Bank of Romania daily reference rates and serves them over a small JSON API.

// @host localhost:8080
// @BasePath /
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, closeStorage, err := setupStorage(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStorage()

	feedClient := feed.NewClient(cfg.FeedURL,
		feed.WithTimeout(cfg.FetchTimeout),
		feed.WithLogger(logger),
	)

	serviceContainer := services.NewServiceContainer(cfg, repos, feedClient)

	if cfg.FetchInterval > 0 {
		sched := scheduler.New(scheduler.Config{Interval: cfg.FetchInterval}, serviceContainer.Ingestion, logger)
		if err := sched.Start(context.Background()); err != nil {
			logger.Error("Failed to start ingestion scheduler", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := sched.Stop(stopCtx); err != nil {
				logger.Error("Failed to stop ingestion scheduler cleanly", slog.String("error", err.Error()))
			}
		}()
	} else {
		logger.Info("Ingestion scheduler disabled, serving stored rates only")
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.New(corsConfig(cfg)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setupStorage opens the configured store and wires the repository provider.
// The returned func releases the underlying handle.
func setupStorage(cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageDriverSQLite:
		db, err := database.NewSQLiteDB(cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		repos, err := sqlite.NewRepositoryProvider(db)
		if err != nil {
			database.CloseSQLiteDB(db)
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Using SQLite storage", slog.String("path", cfg.SQLitePath))
		return repos, func() { database.CloseSQLiteDB(db) }, nil

	default:
		pool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
			database.ClosePgxPool(pool)
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Using PostgreSQL storage")
		return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil
	}
}

// runMigrations applies all pending schema migrations over a short-lived
// database/sql connection, as golang-migrate expects one.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	if err := migrationDB.Ping(); err != nil {
		migrationDB.Close()
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	// Apply all available "up" migrations
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// corsConfig mirrors the headers the API has always sent: read-only access
// from the configured origins, preflight included.
func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.CORSAllowOrigins
	corsCfg.AllowMethods = []string{http.MethodGet, http.MethodOptions}
	corsCfg.AllowHeaders = []string{"Content-Type", "X-RapidAPI-Key"}
	return corsCfg
}
