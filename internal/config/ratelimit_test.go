package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseMethods(t *testing.T) {
	t.Parallel()

	m := parseMethods("get, head ,POST")
	require.True(t, m["GET"])
	require.True(t, m["HEAD"])
	require.True(t, m["POST"])
	require.False(t, m["DELETE"])
}

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	cfg := LoadRateLimitConfig()
	require.True(t, cfg.Enabled)
	require.Equal(t, 60, cfg.Capacity)
	require.Equal(t, time.Second, cfg.RefillInterval)
	require.Equal(t, "rl", cfg.Prefix)
}

func TestLoadRateLimitConfigNormalizesDegenerateValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_TTL", "1ms")

	cfg := LoadRateLimitConfig()
	require.Equal(t, 1, cfg.Capacity)
	require.Equal(t, 1, cfg.RefillTokens)
	// TTL is raised to cover at least five refill intervals.
	require.Equal(t, 5*cfg.RefillInterval, cfg.TTL)
}

func TestEnvBool(t *testing.T) {
	t.Setenv("X_FLAG", "yes")
	require.True(t, envBool("X_FLAG", false))
	t.Setenv("X_FLAG", "off")
	require.False(t, envBool("X_FLAG", true))
	t.Setenv("X_FLAG", "maybe")
	require.True(t, envBool("X_FLAG", true))
}
