package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/memory"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/ports"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	defaultHTTPPort      = "8080"
	defaultStorageDriver = cmd.StorageDriverPostgres
	defaultStaleAfter    = 30 * time.Minute
	shutdownTimeout      = 10 * time.Second
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	configs := getConfigs()

	uowFactory, closeStorage := openStorage(configs, logger)
	defer closeStorage()

	app, err := cmd.NewCompositionRoot(configs, uowFactory, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	config := cmd.Config{
		HTTPPort:                  envOrDefault("HTTP_PORT", defaultHTTPPort),
		StorageDriver:             envOrDefault("STORAGE_DRIVER", defaultStorageDriver),
		DBHost:                    os.Getenv("DB_HOST"),
		DBPort:                    os.Getenv("DB_PORT"),
		DBUser:                    os.Getenv("DB_USER"),
		DBPassword:                os.Getenv("DB_PASSWORD"),
		DBName:                    os.Getenv("DB_NAME"),
		DBSslMode:                 envOrDefault("DB_SSLMODE", "disable"),
		DeviationTolerancePercent: os.Getenv("DEVIATION_TOLERANCE_PERCENT"),
		ActiveOrderStaleAfter:     defaultStaleAfter,
		ActiveOrderWatchSchedule:  os.Getenv("ACTIVE_ORDER_WATCH_SCHEDULE"),
	}

	if raw := os.Getenv("ACTIVE_ORDER_STALE_AFTER"); raw != "" {
		staleAfter, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("Error parsing ACTIVE_ORDER_STALE_AFTER: %v", err)
		}
		config.ActiveOrderStaleAfter = staleAfter
	}
	return config
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openStorage(configs cmd.Config, logger *slog.Logger) (ports.UnitOfWorkFactory, func()) {
	switch configs.StorageDriver {
	case cmd.StorageDriverMemory:
		logger.Info("using in-memory storage")
		return memory.NewUnitOfWorkFactory(memory.NewStore()), func() {}
	case cmd.StorageDriverPostgres:
		db, err := gorm.Open(gorm_postgres.Open(configs.PostgresDSN()), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Fatalf("Error connecting to database: %v", err)
		}
		if err = postgres.Migrate(db); err != nil {
			log.Fatalf("Error migrating database: %v", err)
		}
		logger.Info("using postgres storage", slog.String("host", configs.DBHost), slog.String("db", configs.DBName))

		return postgres.NewGormUnitOfWorkFactory(db), func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	default:
		log.Fatalf("Unknown STORAGE_DRIVER %q", configs.StorageDriver)
		return nil, nil
	}
}

func startWebServer(app cmd.CompositionRoot, port string, logger *slog.Logger) {
	e, err := app.CreateRouter()
	if err != nil {
		log.Fatalf("Error building router: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http server listening", slog.String("port", port))
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting http server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", slog.Any("error", err))
	}
}
