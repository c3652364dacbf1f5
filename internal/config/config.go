package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port          string
	DataSource    string
	PostgresConn  string
	SQLitePath    string
	LogLevel      string
	TreasuryURL   string
	ProbeSchedule string
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SenderEmail   string
}

// NewConfig loads configuration from the environment, with an optional .env
// file for local development
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DataSource:    getEnv("DATA_SOURCE", "postgres"),
		PostgresConn:  getEnv("POSTGRES_CONN", "host=localhost port=5432 user=fiscal password=fiscal dbname=fiscal sslmode=disable"),
		SQLitePath:    getEnv("SQLITE_PATH", "data/fiscal2024.db"),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		TreasuryURL:   getEnv("TREASURY_URL", "https://home.treasury.gov/resource-center/data-chart-center/interest-rates/pages/xml"),
		ProbeSchedule: getEnv("PROBE_SCHEDULE", "@every 5m"),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SenderEmail:   getEnv("SENDER_EMAIL", "fiscal-reports@localhost"),
	}

	switch cfg.DataSource {
	case "postgres":
		if cfg.PostgresConn == "" {
			return nil, fmt.Errorf("POSTGRES_CONN is required for the postgres data source")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is required for the sqlite data source")
		}
	default:
		return nil, fmt.Errorf("DATA_SOURCE must be 'postgres' or 'sqlite', got %q", cfg.DataSource)
	}

	return cfg, nil
}

// MailEnabled reports whether SMTP delivery is configured
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
