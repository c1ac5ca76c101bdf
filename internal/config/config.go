package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server            ServerConfig    `yaml:"server"`
	Database          DatabaseConfig  `yaml:"database"`
	MigrationDatabase DatabaseConfig  `yaml:"migration_database"`
	JWT               JWTConfig       `yaml:"jwt"`
	Log               LogConfig       `yaml:"log"`
	Scheduler         SchedulerConfig `yaml:"scheduler"`
	Booking           BookingConfig   `yaml:"booking"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// Store is "postgres" or "memory". memory is for local development only.
	Store string `yaml:"store"`
	// Fixtures seeds the memory store with properties, rooms, guests and rates.
	Fixtures string `yaml:"fixtures"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// JWTConfig contains the settings used to verify caller tokens
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	Issuer            string `yaml:"issuer"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	MarkNoShows         string `yaml:"mark_no_shows"`
	ReconcileAggregates string `yaml:"reconcile_aggregates"`
}

// BookingConfig contains booking lifecycle policy
type BookingConfig struct {
	EnforceCheckInDate bool `yaml:"enforce_check_in_date"`
	// NoShowGraceDays delays the no-show sweep past the check-out date.
	NoShowGraceDays int `yaml:"no_show_grace_days"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML, applies environment overrides and validates the result
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	overrideDatabase(&c.Database, "DB_")
	overrideDatabase(&c.MigrationDatabase, "MIGRATION_DB_")

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("SERVER_STORE"); val != "" {
		c.Server.Store = val
	}
	if val := os.Getenv("SERVER_FIXTURES"); val != "" {
		c.Server.Fixtures = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func overrideDatabase(db *DatabaseConfig, prefix string) {
	if val := os.Getenv(prefix + "HOST"); val != "" {
		db.Host = val
	}
	if val := os.Getenv(prefix + "PORT"); val != "" {
		fmt.Sscanf(val, "%d", &db.Port)
	}
	if val := os.Getenv(prefix + "USER"); val != "" {
		db.User = val
	}
	if val := os.Getenv(prefix + "PASSWORD"); val != "" {
		db.Password = val
	}
	if val := os.Getenv(prefix + "NAME"); val != "" {
		db.Database = val
	}
	if val := os.Getenv(prefix + "SSL_MODE"); val != "" {
		db.SSLMode = val
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.Store == "" {
		c.Server.Store = "postgres"
	}
	if c.Server.Store != "postgres" && c.Server.Store != "memory" {
		return fmt.Errorf("unknown store %q", c.Server.Store)
	}
	if c.Server.Store == "memory" && c.Server.Fixtures == "" {
		return fmt.Errorf("memory store requires server.fixtures")
	}

	// Database validation
	if c.Server.Store == "postgres" {
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 20
	}

	// The migration role owns the schema; it falls back to the app database
	// host and name but never to the app credentials.
	if c.MigrationDatabase.Host == "" {
		c.MigrationDatabase.Host = c.Database.Host
	}
	if c.MigrationDatabase.Port == 0 {
		c.MigrationDatabase.Port = c.Database.Port
	}
	if c.MigrationDatabase.Database == "" {
		c.MigrationDatabase.Database = c.Database.Database
	}
	if c.MigrationDatabase.SSLMode == "" {
		c.MigrationDatabase.SSLMode = c.Database.SSLMode
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Booking validation
	if c.Booking.NoShowGraceDays < 0 {
		return fmt.Errorf("no_show_grace_days must not be negative")
	}

	// Scheduler defaults
	if c.Scheduler.MarkNoShows == "" {
		c.Scheduler.MarkNoShows = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.ReconcileAggregates == "" {
		c.Scheduler.ReconcileAggregates = "0 30 3 * * *" // 3:30 AM UTC
	}

	return nil
}

func (d DatabaseConfig) validate(name string) error {
	if d.Host == "" {
		return fmt.Errorf("%s host is required", name)
	}
	if d.User == "" {
		return fmt.Errorf("%s user is required", name)
	}
	if d.Database == "" {
		return fmt.Errorf("%s name is required", name)
	}
	return nil
}

// ValidateMigration checks the privileged connection before running migrations
func (c *Config) ValidateMigration() error {
	if err := c.MigrationDatabase.validate("migration database"); err != nil {
		return err
	}
	if strings.EqualFold(c.MigrationDatabase.User, c.Database.User) {
		return fmt.Errorf("migration database user must differ from the application user")
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string
func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
		d.SSLMode,
	)
}

// GetDatabaseConnectionString returns the request-serving connection string
func (c *Config) GetDatabaseConnectionString() string {
	return c.Database.ConnectionString()
}

// GetMigrationConnectionString returns the privileged connection string
func (c *Config) GetMigrationConnectionString() string {
	return c.MigrationDatabase.ConnectionString()
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
