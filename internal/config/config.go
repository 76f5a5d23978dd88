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
	Database  DatabaseConfig  `yaml:"database"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Clock     ClockConfig     `yaml:"clock"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings. Only used when
// storage type is "postgres".
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Type    string `yaml:"type"`     // "memory" or "postgres"
	DataDir string `yaml:"data_dir"` // snapshot directory for memory storage, empty keeps it in memory only
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron expressions and job parameters
type SchedulerConfig struct {
	SweepExpiredAgreements string `yaml:"sweep_expired_agreements"`
	ReportExpiring         string `yaml:"report_expiring"`
	ExpiringWindowDays     int    `yaml:"expiring_window_days"`
}

// ClockConfig selects the time source. The virtual clock starts at a fixed
// instant and can be advanced automatically, which is useful for demo and
// test deployments.
type ClockConfig struct {
	Mode                string        `yaml:"mode"`  // "system" or "virtual"
	Start               time.Time     `yaml:"start"` // virtual clock start, RFC 3339
	AutoAdvanceInterval time.Duration `yaml:"auto_advance_interval"`
	AutoAdvanceStep     time.Duration `yaml:"auto_advance_step"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Storage
	if val := os.Getenv("STORAGE_TYPE"); val != "" {
		c.Storage.Type = val
	}
	if val := os.Getenv("STORAGE_DATA_DIR"); val != "" {
		c.Storage.DataDir = val
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

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Storage validation
	switch c.Storage.Type {
	case "", "memory":
		c.Storage.Type = "memory"
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage.Type)
	}

	// Clock validation
	switch c.Clock.Mode {
	case "", "system":
		c.Clock.Mode = "system"
	case "virtual":
		if c.Clock.Start.IsZero() {
			return fmt.Errorf("virtual clock requires a start time")
		}
		if (c.Clock.AutoAdvanceInterval > 0) != (c.Clock.AutoAdvanceStep > 0) {
			return fmt.Errorf("auto advance requires both interval and step")
		}
	default:
		return fmt.Errorf("unknown clock mode: %s", c.Clock.Mode)
	}

	// Scheduler defaults
	if c.Scheduler.SweepExpiredAgreements == "" {
		c.Scheduler.SweepExpiredAgreements = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.ReportExpiring == "" {
		c.Scheduler.ReportExpiring = "0 0 8 * * *" // 8 AM UTC
	}
	if c.Scheduler.ExpiringWindowDays <= 0 {
		c.Scheduler.ExpiringWindowDays = 30
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
