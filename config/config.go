// Package config loads runtime settings from the environment (and an
// optional .env file) and opens the database they describe.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yeremiapane/personnel-api/utils"
)

const devJWTSecret = "personnel-api-dev-secret"

type Config struct {
	Port            string
	GinMode         string
	DBDriver        string
	DBDSN           string
	JWTSecret       string
	JWTTTL          time.Duration
	LogLevel        string
	CORSOrigin      string
	RateLimitRPS    float64
	RateLimitBurst  int
	LoginRatePerMin int
	ShutdownTimeout time.Duration

	// TrustedProxies are the peers whose X-Forwarded-* headers are believed.
	// Empty means none.
	TrustedProxies []string
}

// Release reports whether gin runs in release mode.
func (c *Config) Release() bool {
	return c.GinMode == "release"
}

// Load reads .env when present, then the process environment. Environment
// variables win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "personnel.db")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("LOGIN_RATE_PER_MIN", 5)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("TRUSTED_PROXIES", "")

	cfg := &Config{
		Port:            v.GetString("PORT"),
		GinMode:         v.GetString("GIN_MODE"),
		DBDriver:        strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:           v.GetString("DB_DSN"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTTTL:          v.GetDuration("JWT_TTL"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		CORSOrigin:      v.GetString("CORS_ORIGIN"),
		RateLimitRPS:    v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:  v.GetInt("RATE_LIMIT_BURST"),
		LoginRatePerMin: v.GetInt("LOGIN_RATE_PER_MIN"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		TrustedProxies:  splitList(v.GetString("TRUSTED_PROXIES")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.JWTSecret == "" {
		if c.Release() {
			return errors.New("JWT_SECRET must be set in release mode")
		}
		c.JWTSecret = devJWTSecret
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if _, err := utils.ParseNetworks(c.TrustedProxies); err != nil {
		return fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	return nil
}

// splitList splits a comma separated setting, dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
