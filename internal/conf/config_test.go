package conf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	settings, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultBackendURL, settings.Backend.BaseURL)
	assert.Equal(t, DefaultOperator, settings.Operator)
	assert.Equal(t, DefaultWebPort, settings.WebServer.Port)
	assert.Equal(t, DefaultPollInterval, settings.Poll.Interval)
	assert.Equal(t, DefaultPollLimit, settings.Poll.Limit)

	assert.True(t, settings.Features.AlertsEnabled)
	assert.True(t, settings.Features.RealTimeUpdatesEnabled)
	assert.False(t, settings.Features.RangerPositionsEnabled,
		"ranger positions default off until the backend supports them")
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("WILDWATCH_USE_MOCK_DATA", "true")
	t.Setenv("WILDWATCH_OPERATOR", "Night Shift")
	t.Setenv("WILDWATCH_BACKEND_URL", "https://api.reserve.example")
	t.Setenv("WILDWATCH_BACKEND_TIMEOUT", "5s")
	t.Setenv("WILDWATCH_RANGER_POSITIONS", "true")

	settings, err := Load("")
	require.NoError(t, err)

	assert.True(t, settings.UseMockData)
	assert.Equal(t, "Night Shift", settings.Operator)
	assert.Equal(t, "https://api.reserve.example", settings.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, settings.Backend.Timeout)
	assert.True(t, settings.Features.RangerPositionsEnabled)
}

func TestLoadRejectsMalformedEnvValues(t *testing.T) {
	t.Setenv("WILDWATCH_BACKEND_URL", "not a url")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WILDWATCH_BACKEND_URL")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid live settings", func(t *testing.T) {
		t.Parallel()
		s := &Settings{
			Backend:   BackendSettings{BaseURL: "http://localhost:8000"},
			WebServer: WebServerSettings{Enabled: true, Port: "8090"},
		}
		require.NoError(t, s.Validate())
	})

	t.Run("bad backend url rejected in live mode", func(t *testing.T) {
		t.Parallel()
		s := &Settings{Backend: BackendSettings{BaseURL: "::nope"}}
		assert.Error(t, s.Validate())
	})

	t.Run("bad backend url tolerated in mock mode", func(t *testing.T) {
		t.Parallel()
		s := &Settings{UseMockData: true, Backend: BackendSettings{BaseURL: "::nope"}}
		assert.NoError(t, s.Validate())
	})

	t.Run("bad web port", func(t *testing.T) {
		t.Parallel()
		s := &Settings{
			UseMockData: true,
			WebServer:   WebServerSettings{Enabled: true, Port: "eighty"},
		}
		assert.Error(t, s.Validate())
	})

	t.Run("empty operator falls back to default", func(t *testing.T) {
		t.Parallel()
		s := &Settings{UseMockData: true}
		require.NoError(t, s.Validate())
		assert.Equal(t, DefaultOperator, s.Operator)
	})
}

func TestEnvValidators(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validateEnvBool("true"))
	assert.Error(t, validateEnvBool("yes please"))

	assert.NoError(t, validateEnvDuration("30s"))
	assert.Error(t, validateEnvDuration("30 seconds"))

	assert.NoError(t, validateEnvURL("http://localhost:8000"))
	assert.Error(t, validateEnvURL("ftp://files.example"))
	assert.Error(t, validateEnvURL("/relative/path"))

	assert.NoError(t, validateEnvPort("8090"))
	assert.Error(t, validateEnvPort("0"))
	assert.Error(t, validateEnvPort("70000"))
}
