package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, "3000", cfg.Port)
	require.Equal(t, int64(137), cfg.TeamID)
	require.NotEmpty(t, cfg.AuthIssuer)
	require.NotEmpty(t, cfg.JWKSURL)
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("GTM_PORT", "8080")
	t.Setenv("GTM_TEAM_ID", "119")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("AUTH_AUDIENCE", "https://example.test/api")

	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, int64(119), cfg.TeamID)
	require.Equal(t, "db.internal", cfg.DBHost)
	require.Equal(t, "https://example.test/api", cfg.AuthAudience)
}

func TestEnvFallbackNames(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("AMQP_URL", "amqp://broker:5672/")

	cfg := Load()
	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, "amqp://broker:5672/", cfg.AMQPURL)
}

func TestBadTeamIDEnvIgnored(t *testing.T) {
	t.Setenv("GTM_TEAM_ID", "not-a-number")
	cfg := Load()
	require.Equal(t, int64(137), cfg.TeamID)
}

func TestRateLimitConfigClamping(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	require.Equal(t, 1, cfg.Capacity, "capacity floors at 1")
	require.Equal(t, 2*time.Second, cfg.RefillInterval)
	require.Equal(t, 10*time.Second, cfg.TTL, "ttl raised to cover refill")
}

func TestCacheConfigDefaults(t *testing.T) {
	cfg := LoadCacheConfig()
	require.True(t, cfg.Enabled)
	require.Equal(t, 15*time.Second, cfg.TTL)
	require.Equal(t, "gtm:cache", cfg.Prefix)
}
