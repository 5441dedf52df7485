package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
server:
  host: 127.0.0.1
  port: 8080
catalog:
  api_key: test-key
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://api.rawg.io/api", cfg.Catalog.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.GetCatalogTimeout())
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "./data", cfg.Storage.Dir)
	assert.Equal(t, 5, cfg.Storage.WriteRetries)
	assert.Equal(t, "log", cfg.Email.Provider)
	assert.Equal(t, 7, cfg.Lending.DefaultDurationDays)
	assert.Equal(t, 30, cfg.Lending.MaxDurationDays)
	assert.Equal(t, 30, cfg.Lending.MaxTotalDays)
	assert.Equal(t, 24*time.Hour, cfg.GetReminderWindow())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "127.0.0.1:8080", cfg.GetServerAddress())
	assert.Equal(t, "", cfg.GetGRPCAddress())

	placing, processing := cfg.GetCheckoutDelays()
	assert.Equal(t, 1500*time.Millisecond, placing)
	assert.Equal(t, 2*time.Second, processing)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"MissingPort", "catalog:\n  api_key: k\n", "invalid server port"},
		{"MissingAPIKey", "server:\n  port: 8080\n", "catalog api key is required"},
		{"UnknownDriver", minimalYAML + "storage:\n  driver: redis\n", "unsupported storage driver"},
		{"PostgresWithoutHost", minimalYAML + "storage:\n  driver: postgres\n", "database host is required"},
		{"SMTPWithoutHost", minimalYAML + "email:\n  provider: smtp\n  from: a@b.co\n", "SMTP host is required"},
		{"SendGridWithoutKey", minimalYAML + "email:\n  provider: sendgrid\n  from: a@b.co\n", "sendgrid api key is required"},
		{"TotalBelowMax", minimalYAML + "lending:\n  max_duration_days: 30\n  max_total_days: 10\n", "max_total_days"},
		{"BadYAML", "server: [", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0o600))

	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RAWG_API_KEY", "from-env")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "library")
	t.Setenv("DB_NAME", "library")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Catalog.APIKey)
	assert.Equal(t, "postgres://library:@db:5432/library?sslmode=disable", cfg.GetDatabaseConnectionString())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
