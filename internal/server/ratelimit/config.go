package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the rate limit for one endpoint. A Path ending in "/"
// matches by prefix, so "/interviews/" covers "/interviews/{id}".
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // requests per window
	Window time.Duration
	Burst  int           // burst capacity, defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Endpoints       []EndpointConfig
}

// DefaultConfig returns the built-in limits for the screening API.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Endpoints:       defaultEndpoints(),
	}
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = getEnvBool("RATE_LIMIT_ENABLED", true)
	if !cfg.Enabled {
		return cfg
	}
	cfg.DefaultLimit = getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	return cfg
}

// defaultEndpoints tiers the API: LLM-backed portal endpoints and invite
// issuance are strict, ingest moderate, reads fall through to the default.
func defaultEndpoints() []EndpointConfig {
	return []EndpointConfig{
		// Candidate portal: each request may cost an LLM call.
		{Path: "/portal/start", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/portal/message", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},

		// Invite issuance sends email.
		{Path: "/interviews/invite", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/interviews/bulk-invite", Method: "POST", Limit: 6, Window: time.Hour, Burst: 2},

		// Ingest and rescore touch scoring and storage.
		{Path: "/candidates", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/candidates/", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/templates/", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
	}
}

// match finds the endpoint config for a request. Health checks are unlimited;
// unmatched requests use the default limit.
func (c *Config) match(path, method string) EndpointConfig {
	if path == "/health" && method == "GET" {
		return EndpointConfig{}
	}

	for _, e := range c.Endpoints {
		if e.Method == method && e.Path == path {
			return e
		}
	}
	for _, e := range c.Endpoints {
		if e.Method == method && strings.HasSuffix(e.Path, "/") && strings.HasPrefix(path, e.Path) {
			return e
		}
	}
	return EndpointConfig{Path: path, Limit: c.DefaultLimit, Window: c.DefaultWindow, Burst: c.DefaultLimit}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
