package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Storage   StorageConfig   `yaml:"storage"`
	Email     EmailConfig     `yaml:"email"`
	Log       LogConfig       `yaml:"log"`
	Lending   LendingConfig   `yaml:"lending"`
	Checkout  CheckoutConfig  `yaml:"checkout"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP and gRPC listener settings
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	GRPCPort int    `yaml:"grpc_port"`
}

// CatalogConfig points at the RAWG game catalog
type CatalogConfig struct {
	BaseURL         string `yaml:"base_url"`
	APIKey          string `yaml:"api_key"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	DefaultPageSize int    `yaml:"default_page_size"`
}

// StorageConfig selects the document store backend
type StorageConfig struct {
	Driver       string         `yaml:"driver"` // "file", "sqlite", "postgres" or "memory"
	Dir          string         `yaml:"dir"`    // For file storage
	SQLitePath   string         `yaml:"sqlite_path"`
	Postgres     DatabaseConfig `yaml:"postgres"`
	WriteRetries int            `yaml:"write_retries"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// EmailConfig contains borrower notification settings
type EmailConfig struct {
	Provider       string     `yaml:"provider"` // "smtp", "sendgrid" or "log"
	From           string     `yaml:"from"`
	FromName       string     `yaml:"from_name"`
	SMTP           SMTPConfig `yaml:"smtp"`
	SendGridAPIKey string     `yaml:"sendgrid_api_key"`
}

// SMTPConfig contains email service settings
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// LendingConfig bounds lend durations
type LendingConfig struct {
	DefaultDurationDays int `yaml:"default_duration_days"`
	MaxDurationDays     int `yaml:"max_duration_days"`
	MaxTotalDays        int `yaml:"max_total_days"`
	ReminderWindowHours int `yaml:"reminder_window_hours"`
}

// CheckoutConfig holds the simulated checkout delays
type CheckoutConfig struct {
	PlacingDelayMs    int `yaml:"placing_delay_ms"`
	ProcessingDelayMs int `yaml:"processing_delay_ms"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SendLendExpiryReminders string `yaml:"send_lend_expiry_reminders"`
	ReportExpiredLends      string `yaml:"report_expired_lends"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies environment overrides and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("GRPC_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.GRPCPort)
	}

	// Catalog
	if val := os.Getenv("RAWG_API_KEY"); val != "" {
		c.Catalog.APIKey = val
	}
	if val := os.Getenv("RAWG_BASE_URL"); val != "" {
		c.Catalog.BaseURL = val
	}

	// Storage
	if val := os.Getenv("STORAGE_DRIVER"); val != "" {
		c.Storage.Driver = val
	}
	if val := os.Getenv("STORAGE_DIR"); val != "" {
		c.Storage.Dir = val
	}
	if val := os.Getenv("SQLITE_PATH"); val != "" {
		c.Storage.SQLitePath = val
	}
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Storage.Postgres.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Storage.Postgres.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Storage.Postgres.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Storage.Postgres.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Storage.Postgres.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Storage.Postgres.SSLMode = val
	}

	// Email
	if val := os.Getenv("EMAIL_PROVIDER"); val != "" {
		c.Email.Provider = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.From = val
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.Email.SMTP.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Email.SMTP.Port)
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.Email.SMTP.User = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.Email.SMTP.Password = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the configuration and fills in defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("invalid grpc port: %d", c.Server.GRPCPort)
	}

	// Catalog validation
	if c.Catalog.APIKey == "" {
		return fmt.Errorf("catalog api key is required")
	}
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = "https://api.rawg.io/api"
	}
	if c.Catalog.TimeoutSeconds == 0 {
		c.Catalog.TimeoutSeconds = 10
	}
	if c.Catalog.DefaultPageSize == 0 {
		c.Catalog.DefaultPageSize = 6
	}

	// Storage validation
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	switch c.Storage.Driver {
	case "file":
		if c.Storage.Dir == "" {
			c.Storage.Dir = "./data"
		}
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			c.Storage.SQLitePath = "./data/library.db"
		}
	case "postgres":
		if c.Storage.Postgres.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Storage.Postgres.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Storage.Postgres.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Storage.Postgres.Port == 0 {
			c.Storage.Postgres.Port = 5432
		}
		if c.Storage.Postgres.SSLMode == "" {
			c.Storage.Postgres.SSLMode = "disable"
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.Storage.Driver)
	}
	if c.Storage.WriteRetries == 0 {
		c.Storage.WriteRetries = 5
	}

	// Email validation
	if c.Email.Provider == "" {
		c.Email.Provider = "log"
	}
	switch c.Email.Provider {
	case "smtp":
		if c.Email.SMTP.Host == "" {
			return fmt.Errorf("SMTP host is required")
		}
		if c.Email.SMTP.Port <= 0 || c.Email.SMTP.Port > 65535 {
			return fmt.Errorf("invalid SMTP port: %d", c.Email.SMTP.Port)
		}
	case "sendgrid":
		if c.Email.SendGridAPIKey == "" {
			return fmt.Errorf("sendgrid api key is required")
		}
	case "log":
	default:
		return fmt.Errorf("unsupported email provider: %s", c.Email.Provider)
	}
	if c.Email.Provider != "log" && c.Email.From == "" {
		return fmt.Errorf("email from address is required")
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "Epic Games Library"
	}

	// Lending defaults
	if c.Lending.DefaultDurationDays == 0 {
		c.Lending.DefaultDurationDays = 7
	}
	if c.Lending.MaxDurationDays == 0 {
		c.Lending.MaxDurationDays = 30
	}
	if c.Lending.MaxTotalDays == 0 {
		c.Lending.MaxTotalDays = c.Lending.MaxDurationDays
	}
	if c.Lending.MaxTotalDays < c.Lending.MaxDurationDays {
		return fmt.Errorf("lending max_total_days (%d) is below max_duration_days (%d)", c.Lending.MaxTotalDays, c.Lending.MaxDurationDays)
	}
	if c.Lending.DefaultDurationDays > c.Lending.MaxDurationDays {
		return fmt.Errorf("lending default_duration_days (%d) exceeds max_duration_days (%d)", c.Lending.DefaultDurationDays, c.Lending.MaxDurationDays)
	}
	if c.Lending.ReminderWindowHours == 0 {
		c.Lending.ReminderWindowHours = 24
	}

	// Checkout defaults; negative disables the delay
	if c.Checkout.PlacingDelayMs == 0 {
		c.Checkout.PlacingDelayMs = 1500
	}
	if c.Checkout.ProcessingDelayMs == 0 {
		c.Checkout.ProcessingDelayMs = 2000
	}

	// Scheduler defaults
	if c.Scheduler.SendLendExpiryReminders == "" {
		c.Scheduler.SendLendExpiryReminders = "0 0 * * * *" // Hourly
	}
	if c.Scheduler.ReportExpiredLends == "" {
		c.Scheduler.ReportExpiredLends = "0 0 3 * * *" // 3 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	db := c.Storage.Postgres
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Database,
		db.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetGRPCAddress returns the health server address, or "" when disabled
func (c *Config) GetGRPCAddress() string {
	if c.Server.GRPCPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}

func (c *Config) GetCatalogTimeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}

func (c *Config) GetReminderWindow() time.Duration {
	return time.Duration(c.Lending.ReminderWindowHours) * time.Hour
}

// GetCheckoutDelays returns the placing and processing delays.
func (c *Config) GetCheckoutDelays() (time.Duration, time.Duration) {
	placing := time.Duration(max(c.Checkout.PlacingDelayMs, 0)) * time.Millisecond
	processing := time.Duration(max(c.Checkout.ProcessingDelayMs, 0)) * time.Millisecond
	return placing, processing
}
