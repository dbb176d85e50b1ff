package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API   APIConfig
	State StateConfig
	Admin AdminConfig
	App   AppConfig
	Stub  StubConfig
}

// APIConfig points at the remote record-keeping service.
type APIConfig struct {
	BaseURL string
}

// StateConfig locates the local state file holding the mirror and the
// persisted session.
type StateConfig struct {
	DSN string
}

// AdminConfig is the fixed administrator credential pair validated locally
// at login time. No remote identity backs it.
type AdminConfig struct {
	Email    string
	Password string
}

type AppConfig struct {
	Env      string
	LogLevel string
}

// StubConfig configures the bundled fake record-keeping service.
type StubConfig struct {
	Port      int
	JWTSecret string
	TokenTTL  time.Duration
}

func Load() (*Config, error) {
	// A missing .env file is fine; the environment may carry everything.
	_ = godotenv.Load()

	config := &Config{}

	config.API = APIConfig{
		BaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
	}
	config.State = StateConfig{
		DSN: getEnv("STATE_DSN", "file:leavedesk.db"),
	}
	config.Admin = AdminConfig{
		Email:    getEnv("ADMIN_EMAIL", "admin@company.com"),
		Password: getEnv("ADMIN_PASSWORD", "admin123"),
	}
	config.App = AppConfig{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	stubPort, err := strconv.Atoi(getEnv("STUB_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid STUB_PORT: %w", err)
	}
	tokenTTL, err := time.ParseDuration(getEnv("STUB_TOKEN_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid STUB_TOKEN_TTL: %w", err)
	}
	config.Stub = StubConfig{
		Port:      stubPort,
		JWTSecret: getEnv("STUB_JWT_SECRET", "leavedesk-stub-secret"),
		TokenTTL:  tokenTTL,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.State.DSN == "" {
		return fmt.Errorf("STATE_DSN is required")
	}
	if c.Admin.Email == "" {
		return fmt.Errorf("ADMIN_EMAIL is required")
	}
	if c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if c.Stub.JWTSecret == "" {
		return fmt.Errorf("STUB_JWT_SECRET is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
