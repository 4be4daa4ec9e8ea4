package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("MAGIC_LINK_TTL", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("EMAIL_BACKEND", "")

	cfg := Load()

	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 15*time.Minute, cfg.MagicLinkTTL)
	assert.Equal(t, "http://localhost:5173", cfg.FrontendURL)
	assert.Equal(t, EmailBackendConsole, cfg.EmailBackend)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("MAGIC_LINK_TTL", "5m")
	t.Setenv("FRONTEND_URL", "https://polito-log.lt/")
	t.Setenv("EMAIL_BACKEND", "SMTP")
	t.Setenv("SMTP_PORT", "2525")

	cfg := Load()

	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.MagicLinkTTL)
	assert.Equal(t, "https://polito-log.lt", cfg.FrontendURL)
	assert.Equal(t, EmailBackendSMTP, cfg.EmailBackend)
	assert.Equal(t, 2525, cfg.SMTPPort)
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("MAGIC_LINK_TTL", "soon")
	t.Setenv("SMTP_PORT", "not-a-port")

	cfg := Load()

	assert.Equal(t, 15*time.Minute, cfg.MagicLinkTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET_KEY"},
		{name: "zero session ttl", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: "SESSION_TTL"},
		{name: "unknown backend", mutate: func(c *Config) { c.EmailBackend = "pigeon" }, wantErr: "EMAIL_BACKEND"},
		{name: "smtp without host", mutate: func(c *Config) {
			c.EmailBackend = EmailBackendSMTP
			c.SMTPHost = ""
		}, wantErr: "SMTP_HOST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				JWTSecret:    "k",
				SessionTTL:   time.Hour,
				MagicLinkTTL: time.Minute,
				EmailBackend: EmailBackendConsole,
				SMTPHost:     "localhost",
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
