package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EmailBackendConsole = "console"
	EmailBackendSMTP    = "smtp"
)

type Config struct {
	// Service
	ProjectName string
	Version     string
	Environment string
	APIPrefix   string
	LogLevel    string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Session tokens
	JWTSecret    string
	JWTAlgorithm string
	SessionTTL   time.Duration

	// Magic links
	MagicLinkTTL time.Duration
	FrontendURL  string

	// Email
	EmailBackend       string
	SMTPHost           string
	SMTPPort           int
	SMTPUser           string
	SMTPPassword       string
	EmailSenderAddress string
	EmailSenderName    string

	// Server
	Port        string
	CORSOrigins string

	// System log retention used by the sweep
	LogRetention time.Duration

	SentryDSN string
}

// Load reads configuration from the environment. A .env file in the working
// directory, if present, is loaded first; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	return &Config{
		ProjectName: getEnv("PROJECT_NAME", "Polito-Log API"),
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("APP_ENV", "development"),
		APIPrefix:   getEnv("API_PREFIX", "/api/v1"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "polito_log"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:    getEnv("JWT_SECRET_KEY", ""),
		JWTAlgorithm: getEnv("JWT_ALGORITHM", "HS256"),
		SessionTTL:   parseDuration(getEnv("SESSION_TTL", "168h"), 7*24*time.Hour),

		MagicLinkTTL: parseDuration(getEnv("MAGIC_LINK_TTL", "15m"), 15*time.Minute),
		FrontendURL:  strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),

		EmailBackend:       strings.ToLower(getEnv("EMAIL_BACKEND", EmailBackendConsole)),
		SMTPHost:           getEnv("SMTP_HOST", "smtp-relay.brevo.com"),
		SMTPPort:           parseInt(getEnv("SMTP_PORT", "587"), 587),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		EmailSenderAddress: getEnv("EMAIL_SENDER_ADDRESS", "noreply@polito-log.lt"),
		EmailSenderName:    getEnv("EMAIL_SENDER_NAME", "Polito-Log"),

		Port:        getEnv("PORT", "8000"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h"), 30*24*time.Hour),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}
}

// Validate reports settings the process cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.MagicLinkTTL <= 0 {
		errs = append(errs, errors.New("MAGIC_LINK_TTL must be positive"))
	}
	switch c.EmailBackend {
	case EmailBackendConsole:
	case EmailBackendSMTP:
		if c.SMTPHost == "" {
			errs = append(errs, errors.New("SMTP_HOST is required for the smtp email backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EMAIL_BACKEND %q", c.EmailBackend))
	}
	return errors.Join(errs...)
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
