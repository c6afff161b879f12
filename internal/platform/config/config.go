package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingJWTSecret is returned when no session signing secret is configured.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	MigrationsEnabled bool
	LogLevel          string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	ReceiptMaxBytes    int64
	LoginRateLimit     string
	CORSAllowedOrigins []string

	PosthogAPIKey   string
	PosthogEndpoint string
	GoogleClientID  string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	return loadFrom(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("MIGRATIONS_ENABLED", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_EXPIRY_DURATION", "720h")
	v.SetDefault("JWT_ISSUER", "expense-management")
	v.SetDefault("RECEIPT_MAX_BYTES", 5<<20)
	v.SetDefault("LOGIN_RATE_LIMIT", "10-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
}

// loadFrom builds a Config from an already populated viper instance.
func loadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{
		DatabaseURL:       v.GetString("PGSQL_URL"),
		Port:              v.GetString("PORT"),
		IsProduction:      v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:     v.GetBool("ENABLE_DB_CHECK"),
		MigrationsEnabled: v.GetBool("MIGRATIONS_ENABLED"),
		LogLevel:          strings.ToLower(v.GetString("LOG_LEVEL")),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTIssuer:         v.GetString("JWT_ISSUER"),
		LoginRateLimit:    v.GetString("LOGIN_RATE_LIMIT"),
		PosthogAPIKey:     v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:   v.GetString("POSTHOG_ENDPOINT"),
		GoogleClientID:    v.GetString("GOOGLE_CLIENT_ID"),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	jwtExpiryStr := v.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || jwtExpiry <= 0 {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_DURATION %q", jwtExpiryStr)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	cfg.ReceiptMaxBytes = v.GetInt64("RECEIPT_MAX_BYTES")
	if cfg.ReceiptMaxBytes <= 0 {
		return nil, fmt.Errorf("invalid RECEIPT_MAX_BYTES %q", v.GetString("RECEIPT_MAX_BYTES"))
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.DatabaseURL == "" {
		slog.Warn("PGSQL_URL environment variable not set")
	}
	if cfg.GoogleClientID == "" {
		slog.Info("GOOGLE_CLIENT_ID not set, Google sign-in disabled")
	}

	return cfg, nil
}
