// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env  string // application environment (dev, test, prod)
	Port string // HTTP port to listen on

	LogLevel string // optional zap level override

	DBUser string
	DBPass string // may be empty
	DBHost string
	DBPort string
	DBName string

	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int

	// Default administrator seeded when no ADMIN account exists.
	AdminUsername string
	AdminEmail    string
	AdminPassword string

	UploadDir      string // where venue images are written
	MaxUploadBytes int64

	AMQPURL   string // empty disables domain events
	EventsLog string // file the event consumer appends to

	RateLimit RateLimitConfig
	Redis     RedisConfig
}

// Load reads configuration from the environment. All missing or malformed
// required variables are reported together.
func Load() (Config, error) {
	var errs []error
	must := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			errs = append(errs, fmt.Errorf("missing required env var: %s", key))
		}
		return v
	}
	mustInt := func(key string) int {
		s := must(key)
		if s == "" {
			return 0
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid int for %s: %q", key, s))
		}
		return n
	}

	cfg := Config{
		Env:            envStr("APP_ENV", "dev"),
		Port:           envStr("APP_PORT", "8080"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         envStr("DB_PORT", "3306"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     envInt("BCRYPT_COST", 10),
		AdminUsername:  envStr("ADMIN_USERNAME", "admin"),
		AdminEmail:     envStr("ADMIN_EMAIL", "admin@venue.com"),
		AdminPassword:  envStr("ADMIN_PASSWORD", "admin"),
		UploadDir:      envStr("UPLOAD_DIR", "uploads/images"),
		MaxUploadBytes: int64(envInt("MAX_UPLOAD_BYTES", 5<<20)),
		AMQPURL:        os.Getenv("AMQP_URL"),
		EventsLog:      envStr("EVENTS_LOG", "logs/booking.log"),
		RateLimit:      LoadRateLimitConfig(),
		Redis:          LoadRedisConfig(),
	}
	if cfg.AccessTTLMin < 0 || cfg.RefreshTTLDays < 0 {
		errs = append(errs, errors.New("token TTLs must not be negative"))
	}
	return cfg, errors.Join(errs...)
}

// AccessTTL returns the access token lifetime.
func (c Config) AccessTTL() time.Duration { return time.Duration(c.AccessTTLMin) * time.Minute }

// RefreshTTL returns the refresh token lifetime.
func (c Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
