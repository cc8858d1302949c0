package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Storage driver names accepted in STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverFile     = "file"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Auth    AuthConfig
	WebApp  WebAppConfig
}

// ServerConfig holds HTTP server related options for the API binary.
type ServerConfig struct {
	Port string
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Driver      string
	DatabaseURL string
	DataFile    string
	BackupDir   string
	BackupCron  string
	BackupKeep  int
}

// AuthConfig holds the operator credential and token settings. Auth is
// disabled when PasswordHash is empty.
type AuthConfig struct {
	OperatorEmail string
	PasswordHash  string
	JWTSecret     string
}

// WebAppConfig holds options for the UI binary. APIEmail/APIPassword are the
// operator credentials used to log into the API when it runs with auth
// enabled; leave them empty against an open API.
type WebAppConfig struct {
	Port        string
	APIBaseURL  string
	APIEmail    string
	APIPassword string
	RefreshCron string
	PageSize    int
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Storage: StorageConfig{
			Driver:      getenvWithDefault("STORAGE_DRIVER", DriverFile),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			DataFile:    getenvWithDefault("DATA_FILE", "data.json"),
			BackupDir:   getenvWithDefault("BACKUP_DIR", "backups"),
			BackupCron:  getenvWithDefault("BACKUP_CRON", "0 2 * * *"),
			BackupKeep:  10,
		},
		Auth: AuthConfig{
			OperatorEmail: getenvWithDefault("OPERATOR_EMAIL", "operador@oficina.local"),
			PasswordHash:  os.Getenv("OPERATOR_PASSWORD_HASH"),
			JWTSecret:     getenvWithDefault("JWT_SECRET", "oficina-dev-secret"),
		},
		WebApp: WebAppConfig{
			Port:        getenvWithDefault("WEBAPP_PORT", "8081"),
			APIBaseURL:  getenvWithDefault("API_BASE_URL", "http://localhost:8080"),
			APIEmail:    getenvWithDefault("WEBAPP_API_EMAIL", "operador@oficina.local"),
			APIPassword: os.Getenv("WEBAPP_API_PASSWORD"),
			RefreshCron: getenvWithDefault("REFRESH_CRON", "@every 60s"),
			PageSize:    10,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("DATABASE_URL must be provided when STORAGE_DRIVER=postgres")
		}
	case DriverFile:
		if c.Storage.DataFile == "" {
			return errors.New("DATA_FILE must be provided when STORAGE_DRIVER=file")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Auth.PasswordHash != "" && c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided when auth is enabled")
	}

	if c.WebApp.APIBaseURL == "" {
		return errors.New("API_BASE_URL must not be empty")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
