package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arieyuval/plates-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testConfigToml = `
[development]
host = "localhost"
port = 9000
environment = "development"
log_level = "trace"
logs_path = ""
log_to_stdout = true
sentry_enabled = false
workout_api_url = "http://localhost:8080/api"
cache_stale_after_secs = 30
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"

[production]
host = "0.0.0.0"
port = 9000
environment = "production"
log_level = "debug"
logs_path = "/var/log/plates/service.log"
log_to_stdout = false
sentry_enabled = true
workout_api_url = "https://api.plates.example.com"
cache_stale_after_secs = 30
prometheus_metrics_host = "0.0.0.0"
prometheus_metrics_port = "2112"
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigToml), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTestConfig(t)

	cfg, err := config.Load("development", path)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.True(t, cfg.LogToStdout)
	assert.False(t, cfg.SentryEnabled)
	assert.Equal(t, "http://localhost:8080/api", cfg.WorkoutAPIURL)
	assert.Equal(t, 30, cfg.CacheStaleAfterSecs)

	cfg, err = config.Load("prod", path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.SentryEnabled)
}

func TestLoad_UnknownEnv(t *testing.T) {
	path := writeTestConfig(t)

	cfg, err := config.Load("staging", path)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "unknown env")
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := config.Load("development", "/no/such/config.toml")
	require.Error(t, err)
	assert.Nil(t, cfg)
}
