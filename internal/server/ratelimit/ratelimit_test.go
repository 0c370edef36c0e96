package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterEnforcesBurst(t *testing.T) {
	cfg := &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Endpoints: []EndpointConfig{
			{Path: "/portal/start", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
		},
	}
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/portal/start", "POST")
		require.True(t, allowed, "request %d within burst should pass", i+1)
	}

	allowed, info := l.Allow("10.0.0.1", "/portal/start", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 10, info.Limit)
	assert.GreaterOrEqual(t, info.RetryAfter, time.Duration(0))
}

func TestLimiterIsolatesClients(t *testing.T) {
	cfg := &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Endpoints: []EndpointConfig{
			{Path: "/portal/message", Method: "POST", Limit: 5, Window: time.Minute, Burst: 1},
		},
	}
	l := NewLimiter(cfg)
	defer l.Stop()

	allowed, _ := l.Allow("10.0.0.1", "/portal/message", "POST")
	require.True(t, allowed)
	allowed, _ = l.Allow("10.0.0.1", "/portal/message", "POST")
	require.False(t, allowed)

	// A different client has its own bucket.
	allowed, _ = l.Allow("10.0.0.2", "/portal/message", "POST")
	assert.True(t, allowed)
}

func TestHealthCheckUnlimited(t *testing.T) {
	l := NewLimiter(DefaultConfig())
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/portal/start", "POST")
		require.True(t, allowed)
	}
}

func TestPrefixMatching(t *testing.T) {
	cfg := DefaultConfig()

	e := cfg.match("/candidates/123/rescore", "POST")
	assert.Equal(t, "/candidates/", e.Path)

	e = cfg.match("/candidates/123", "GET")
	assert.Equal(t, cfg.DefaultLimit, e.Limit)
}
