// Package app wires configuration, storage, services, and the HTTP server
// into a runnable member auth service.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment and an
// optional .env file.
type Config struct {
	// Port is the HTTP listen port.
	Port int `mapstructure:"PORT"`
	// Env is the deployment environment (dev, staging, prod).
	Env string `mapstructure:"ENV"`

	// DatabaseDriver selects the member store backend: sqlite or postgres.
	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	// DatabaseFile is the SQLite database path (sqlite driver only).
	DatabaseFile string `mapstructure:"DATABASE_FILE"`
	// DatabaseURL is the Postgres DSN (postgres driver only).
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// RedisAddr is the session store address, host:port.
	RedisAddr string `mapstructure:"REDIS_ADDR"`
	// RedisPassword is optional.
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	// StoreTimeout bounds every session store operation.
	StoreTimeout time.Duration `mapstructure:"STORE_TIMEOUT"`

	// JWTSecret is the HS256 signing key. Required, at least 32 bytes.
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// JWTIssuer is the iss claim on issued tokens.
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// AccessTTL is the access token lifetime.
	AccessTTL time.Duration `mapstructure:"ACCESS_TTL"`
	// RefreshTTL is the refresh token and session lifetime.
	RefreshTTL time.Duration `mapstructure:"REFRESH_TTL"`

	// RequireVerifiedEmail gates sign-up behind email verification.
	RequireVerifiedEmail bool `mapstructure:"REQUIRE_VERIFIED_EMAIL"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// ShutdownGracePeriod is the deadline for in-flight requests on
	// shutdown.
	ShutdownGracePeriod time.Duration `mapstructure:"SHUTDOWN_GRACE_PERIOD"`
}

// LoadConfig reads .env (if present) then the environment. Env vars win.
func LoadConfig() (Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // missing .env is fine, e.g. in CI

	v.AutomaticEnv()

	v.SetDefault("PORT", 8080)
	v.SetDefault("ENV", "dev")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_FILE", "members.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("STORE_TIMEOUT", "2s")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "member-auth")
	v.SetDefault("ACCESS_TTL", "15m")
	v.SetDefault("REFRESH_TTL", "336h") // 14d
	v.SetDefault("REQUIRE_VERIFIED_EMAIL", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SHUTDOWN_GRACE_PERIOD", "10s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("config: JWT_SECRET must be set to at least 32 bytes")
	}
	switch c.DatabaseDriver {
	case "sqlite":
		if c.DatabaseFile == "" {
			return errors.New("config: DATABASE_FILE is required for the sqlite driver")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return errors.New("config: ACCESS_TTL and REFRESH_TTL must be positive")
	}
	if c.RefreshTTL <= c.AccessTTL {
		return errors.New("config: REFRESH_TTL must exceed ACCESS_TTL")
	}
	return nil
}
