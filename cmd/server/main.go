package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "hotelcore/internal/api/http"
	"hotelcore/internal/config"
	"hotelcore/internal/logger"
	"hotelcore/internal/repository"
	"hotelcore/internal/repository/memory"
	"hotelcore/internal/repository/postgres"
	"hotelcore/internal/security"
	"hotelcore/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting hotel booking core...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "store", cfg.Server.Store)

	// Initialize storage
	var txm repository.TxManager
	switch cfg.Server.Store {
	case "memory":
		logger.Warn("Using in-memory store, data is lost on exit", "fixtures", cfg.Server.Fixtures)
		txm = seedMemoryStore(cfg.Server.Fixtures)
	default:
		db := openDatabase(cfg)
		defer db.Close()
		txm = postgres.NewTxManager(db)
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// Initialize Services
	policy := service.BookingPolicy{
		EnforceCheckInDate: cfg.Booking.EnforceCheckInDate,
		NoShowGraceDays:    cfg.Booking.NoShowGraceDays,
	}
	router := httpapi.NewRouter(httpapi.Services{
		Availability: service.NewAvailabilityService(txm),
		Pricing:      service.NewPricingService(txm),
		Booking:      service.NewBookingService(txm, policy),
		Guest:        service.NewGuestService(txm),
		Ledger:       service.NewLedgerService(txm),
	}, tokenManager)

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped")
}

func seedMemoryStore(path string) *memory.Store {
	fixtures, err := memory.LoadFixtures(path)
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}
	store := memory.NewStore()
	ids, err := store.Seed(fixtures)
	if err != nil {
		log.Fatalf("Failed to seed memory store: %v", err)
	}
	logger.Info("Memory store seeded", "property_ids", ids)
	return store
}

func openDatabase(cfg *config.Config) *sql.DB {
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")
	return db
}
