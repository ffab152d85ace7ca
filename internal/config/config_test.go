package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_USER", "venue")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_NAME", "venue_booking")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "7")
	for _, k := range []string{"APP_PORT", "DB_PORT", "ADMIN_USERNAME", "ADMIN_EMAIL", "EVENTS_LOG", "RATE_LIMIT_ENABLED"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, "admin@venue.com", cfg.AdminEmail)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL())
	assert.Equal(t, "logs/booking.log", cfg.EventsLog)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoad_ReportsEveryMissingVar(t *testing.T) {
	t.Setenv("DB_USER", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "abc")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "7")

	_, err := Load()
	require.Error(t, err)
	for _, key := range []string{"DB_USER", "DB_HOST", "DB_NAME", "JWT_SECRET", "ACCESS_TOKEN_TTL_MIN"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_ENABLED", "off")

	c := LoadRateLimitConfig()
	assert.False(t, c.Enabled)
	assert.Equal(t, 1, c.Capacity)
	assert.Equal(t, 10*time.Second, c.TTL)
}

func TestLoadRedisConfig_HostPortWins(t *testing.T) {
	t.Setenv("REDIS_ADDR", "ignored:1")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")

	c := LoadRedisConfig()
	assert.Equal(t, "cache:6380", c.Addr)
	assert.Equal(t, 2, c.DB)
}
