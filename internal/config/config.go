// Package config provides application configuration from command-line flags,
// environment variables, and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Server   ServerConfig
	Store    StoreConfig
	Auth     AuthConfig
	Frontend FrontendConfig
	Mail     MailConfig
	Payment  PaymentConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string // development, staging, production
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StoreConfig holds document store configuration.
type StoreConfig struct {
	Path string // Badger data directory
	// OpenRetries is the number of open attempts at startup before giving up.
	OpenRetries int
	// OpenRetryDelay is the fixed delay between open attempts.
	OpenRetryDelay time.Duration
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for access tokens (32 bytes, hex-encoded).
	TokenKeyHex         string
	AccessTokenDuration time.Duration
	CookieName          string
	CookieSecure        bool
}

// FrontendConfig holds settings for links in outbound email and CORS.
type FrontendConfig struct {
	BaseURL string
}

// MailConfig holds SMTP configuration.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// Enabled disables outbound mail entirely when false (development).
	Enabled bool
}

// PaymentConfig holds payment-provider configuration.
type PaymentConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string // Provider API base URL
	// SignupAmount is the fixed payment-gated signup fee in minor currency
	// units (paise).
	SignupAmount int64
	Currency     string
}

// Load builds configuration with precedence: environment variables over
// .env file over defaults. The .env file is optional.
func Load() (*Config, error) {
	// Best effort; a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDuration("READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getDuration("IDLE_TIMEOUT", 60*time.Second),
		},
		Store: StoreConfig{
			Path:           getEnv("STORE_PATH", "./data"),
			OpenRetries:    getInt("STORE_OPEN_RETRIES", 3),
			OpenRetryDelay: getDuration("STORE_OPEN_RETRY_DELAY", 2*time.Second),
		},
		Auth: AuthConfig{
			TokenKeyHex:         os.Getenv("AUTH_TOKEN_KEY"),
			AccessTokenDuration: getDuration("ACCESS_TOKEN_DURATION", 24*time.Hour),
			CookieName:          getEnv("AUTH_COOKIE_NAME", "legacy_token"),
			CookieSecure:        getBool("AUTH_COOKIE_SECURE", false),
		},
		Frontend: FrontendConfig{
			BaseURL: getEnv("FRONTEND_BASE_URL", "http://localhost:3000"),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "noreply@legacy25.example"),
			Enabled:  getBool("SMTP_ENABLED", false),
		},
		Payment: PaymentConfig{
			KeyID:        os.Getenv("PAYMENT_KEY_ID"),
			KeySecret:    os.Getenv("PAYMENT_KEY_SECRET"),
			BaseURL:      getEnv("PAYMENT_BASE_URL", "https://api.razorpay.com/v1"),
			SignupAmount: int64(getInt("PAYMENT_SIGNUP_AMOUNT", 25000)),
			Currency:     getEnv("PAYMENT_CURRENCY", "INR"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid environment: %s", c.App.Environment)
	}

	if c.App.Environment == "production" && c.Auth.TokenKeyHex == "" {
		return fmt.Errorf("AUTH_TOKEN_KEY is required in production")
	}
	if c.App.Environment == "production" && c.Payment.KeySecret == "" {
		return fmt.Errorf("PAYMENT_KEY_SECRET is required in production")
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
