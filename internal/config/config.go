package config

import (
	"time"

	"github.com/spf13/viper"
)

// DatabaseTarget selects which configured database the table-admin API
// operates on.
type DatabaseTarget string

const (
	TargetProduction DatabaseTarget = "production"
	TargetLocal      DatabaseTarget = "local"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Admin
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path      string // default target ("production" for the admin surface)
		LocalPath string // optional second target for the admin surface
	}
	Auth struct {
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS
	}
	Admin struct {
		Enabled bool // gates the table-admin API
	}
)

// PathForTarget returns the database path configured for the given admin
// target, or "" when the target has no configured database.
func (d Database) PathForTarget(target DatabaseTarget) string {
	switch target {
	case TargetLocal:
		return d.LocalPath
	case TargetProduction:
		return d.Path
	default:
		return ""
	}
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8177)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", "./bookstore.db")
	v.SetDefault("database_path_local", "")

	// Auth defaults
	v.SetDefault("auth_session_secret", "")      // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h") // 24 hours
	v.SetDefault("auth_bcrypt_cost", 12)         // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)    // HTTPS-only cookies

	// Table-admin defaults
	v.SetDefault("admin_enabled", true)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:      v.GetString("DATABASE_PATH"),
			LocalPath: v.GetString("DATABASE_PATH_LOCAL"),
		},
		Auth: Auth{
			SessionSecret:   v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
		Admin: Admin{
			Enabled: v.GetBool("ADMIN_ENABLED"),
		},
	}
}
