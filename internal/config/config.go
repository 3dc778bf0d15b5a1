package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Global
		Auth
		Audit
		Cleanup
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Auth struct {
		SessionLifetime time.Duration
		CookieName      string
		SecureCookies   bool // Set to false for local dev without HTTPS
		BcryptCost      int
		CSRFSecret      string // CSRF protection is disabled when empty
	}
	Audit struct {
		RetentionDays int // Days to keep audit events (default: 30)
	}
	Cleanup struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults
	v.SetDefault("auth_session_lifetime", "168h") // 7 days
	v.SetDefault("auth_cookie_name", DefaultCookieName)
	v.SetDefault("auth_secure_cookies", true) // HTTPS-only cookies
	v.SetDefault("auth_bcrypt_cost", 12)      // bcrypt cost factor
	v.SetDefault("auth_csrf_secret", "")

	// Audit defaults
	v.SetDefault("audit_retention_days", 30)

	// Cleanup defaults
	v.SetDefault("cleanup_enabled", true)
	v.SetDefault("cleanup_schedule", "0 * * * *") // Hourly at :00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Auth: Auth{
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			CookieName:      v.GetString("AUTH_COOKIE_NAME"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			CSRFSecret:      v.GetString("AUTH_CSRF_SECRET"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Cleanup: Cleanup{
			Enabled:  v.GetBool("CLEANUP_ENABLED"),
			Schedule: v.GetString("CLEANUP_SCHEDULE"),
		},
	}
}
