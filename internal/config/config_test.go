package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfig(t, `{
		"port": 9090,
		"database_url": "postgres://localhost/screening",
		"invite_expiry_hours": 48
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/screening", cfg.DatabaseURL)
	assert.Equal(t, 48, cfg.InviteExpiryHours)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoad_DefaultsApplied(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 72, cfg.InviteExpiryHours)
	assert.Equal(t, 6, cfg.MaxQuestions)
	assert.Equal(t, 10, cfg.ResendWindowMinutes)
	require.NotNil(t, cfg.SMTPUseTLS)
	assert.True(t, *cfg.SMTPUseTLS)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"port": 9090, "smtp_host": "file.example.com"}`)
	t.Setenv("PORT", "7070")
	t.Setenv("SMTP_HOST", "env.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "env.example.com", cfg.SMTPHost)
}

func TestLoad_SMTPFromFallsBackToUser(t *testing.T) {
	t.Setenv("SMTP_USER", "hr@example.com")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "hr@example.com", cfg.SMTPFrom)
}

func TestSMTPConfigured(t *testing.T) {
	cfg := &Config{SMTPHost: "h", SMTPUser: "u", SMTPPassword: "p", SMTPFrom: "f"}
	assert.True(t, cfg.SMTPConfigured())

	cfg.SMTPHost = ""
	assert.False(t, cfg.SMTPConfigured())
}

func TestValidate_RejectsNegativeValues(t *testing.T) {
	cfg := &Config{MaxQuestions: -1}
	assert.Error(t, cfg.Validate())
}
