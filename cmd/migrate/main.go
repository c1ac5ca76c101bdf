package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"time"

	_ "github.com/lib/pq"

	"hotelcore/internal/config"
	"hotelcore/internal/logger"
	"hotelcore/internal/repository/postgres"
)

// migrate applies the embedded schema and row-level security policies using
// the privileged migration role. The service itself never holds these credentials.
func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	timeout := flag.Duration("timeout", 5*time.Minute, "Overall migration timeout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateMigration(); err != nil {
		log.Fatalf("Invalid migration configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Running migrations", "host", cfg.MigrationDatabase.Host, "database", cfg.MigrationDatabase.Database, "user", cfg.MigrationDatabase.User)

	db, err := sql.Open("postgres", cfg.GetMigrationConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}

	migrations, err := postgres.Migrations()
	if err != nil {
		log.Fatalf("Failed to load migrations: %v", err)
	}
	applied, err := postgres.Migrate(ctx, db, migrations)
	if err != nil {
		logger.Error("Migration failed", "error", err, "applied", applied)
		log.Fatalf("Migration failed: %v", err)
	}
	logger.Info("Migrations complete", "applied", applied, "available", len(migrations))
}
