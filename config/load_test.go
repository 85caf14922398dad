package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setianjay/api-contract-tests/request"
	"github.com/setianjay/api-contract-tests/transport"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "contract.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, transport.DefaultConfig(), cfg.HTTP.Transport())
	assert.Equal(t, request.DefaultUserAgent, cfg.HTTP.UserAgent)
	assert.Equal(t, DefaultBookingURL, cfg.Targets.BookingURL)
	assert.Equal(t, DefaultObjectsURL, cfg.Targets.ObjectsURL)
	assert.Equal(t, "", cfg.Metrics.Addr)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: DEBUG
http:
  read_timeout: 5s
  max_connections: 10
  max_per_route: 5
targets:
  booking_url: http://localhost:3001
metrics:
  addr: localhost:9100
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, transport.DefaultConnectTimeout, cfg.HTTP.ConnectTimeout)
	assert.Equal(t, 10, cfg.HTTP.MaxConnections)
	assert.Equal(t, 5, cfg.HTTP.MaxPerRoute)
	assert.Equal(t, "http://localhost:3001", cfg.Targets.BookingURL)
	assert.Equal(t, DefaultObjectsURL, cfg.Targets.ObjectsURL)
	assert.Equal(t, "localhost:9100", cfg.Metrics.Addr)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "http:\n  read_timeout: 5s\n")
	t.Setenv("CONTRACT_HTTP_READ_TIMEOUT", "12s")
	t.Setenv("CONTRACT_TARGETS_OBJECTS_URL", "http://localhost:3002")
	t.Setenv("CONTRACT_HTTP_USER_AGENT", "custom/1.0")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "http://localhost:3002", cfg.Targets.ObjectsURL)
	assert.Equal(t, "custom/1.0", cfg.HTTP.UserAgent)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"log level":      "log:\n  level: verbose\n",
		"timeout":        "http:\n  connect_timeout: 0s\n",
		"per route":      "http:\n  max_connections: 5\n  max_per_route: 6\n",
		"target url":     "targets:\n  booking_url: not a url\n",
		"metrics listen": "metrics:\n  addr: nowhere\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			require.Error(t, err)
			var validationErrs validator.ValidationErrors
			assert.ErrorAs(t, err, &validationErrs)
		})
	}
}
