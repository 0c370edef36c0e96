// Package config provides configuration loading and validation for the
// screening service. Values come from an optional JSON file with environment
// variables taking precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config represents the service configuration. All fields are optional;
// missing values fall back to defaults.
type Config struct {
	// Server
	Port int `json:"port,omitempty"`

	// Storage
	DatabaseURL string `json:"database_url,omitempty"`

	// LLM
	APIKey string `json:"api_key,omitempty"` // Gemini API key

	// SMTP delivery
	SMTPHost     string `json:"smtp_host,omitempty"`
	SMTPPort     int    `json:"smtp_port,omitempty"`
	SMTPUser     string `json:"smtp_user,omitempty"`
	SMTPPassword string `json:"smtp_password,omitempty"`
	SMTPFrom     string `json:"smtp_from,omitempty"`
	SMTPUseTLS   *bool  `json:"smtp_use_tls,omitempty"`

	// Interview behavior
	PortalBaseURL       string `json:"portal_base_url,omitempty"`
	InviteExpiryHours   int    `json:"invite_expiry_hours,omitempty"`
	MaxQuestions        int    `json:"max_questions,omitempty"`
	ResendWindowMinutes int    `json:"resend_window_minutes,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: the optional JSON file overlaid
// with environment variables, then defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setInt(&c.Port, "PORT")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.APIKey, "GEMINI_API_KEY")
	setString(&c.SMTPHost, "SMTP_HOST")
	setInt(&c.SMTPPort, "SMTP_PORT")
	setString(&c.SMTPUser, "SMTP_USER")
	setString(&c.SMTPPassword, "SMTP_PASSWORD")
	setString(&c.SMTPFrom, "SMTP_FROM")
	setString(&c.PortalBaseURL, "PORTAL_BASE_URL")
	setInt(&c.InviteExpiryHours, "INVITE_EXPIRY_HOURS")
	setInt(&c.MaxQuestions, "INTERVIEW_MAX_QUESTIONS")
	setInt(&c.ResendWindowMinutes, "INVITE_RESEND_WINDOW_MINUTES")

	if v := os.Getenv("SMTP_USE_TLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.SMTPUseTLS = &b
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.SMTPPort == 0 {
		c.SMTPPort = 587
	}
	if c.SMTPFrom == "" {
		c.SMTPFrom = c.SMTPUser
	}
	if c.SMTPUseTLS == nil {
		b := true
		c.SMTPUseTLS = &b
	}
	if c.InviteExpiryHours == 0 {
		c.InviteExpiryHours = 72
	}
	if c.MaxQuestions == 0 {
		c.MaxQuestions = 6
	}
	if c.ResendWindowMinutes == 0 {
		c.ResendWindowMinutes = 10
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.InviteExpiryHours < 0 {
		return fmt.Errorf("config error: 'invite_expiry_hours' must be non-negative")
	}
	if c.MaxQuestions < 0 {
		return fmt.Errorf("config error: 'max_questions' must be non-negative")
	}
	if c.ResendWindowMinutes < 0 {
		return fmt.Errorf("config error: 'resend_window_minutes' must be non-negative")
	}
	return nil
}

// SMTPConfigured reports whether enough SMTP settings are present to attempt
// email delivery.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPassword != "" && c.SMTPFrom != ""
}
