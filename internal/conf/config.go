// config.go: settings struct for wildwatch-go and the loader that resolves
// them from config file and environment at process start. Settings are
// constructed once and passed by reference; there is no package-global
// accessor, so tests can run multiple independent instances.
package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// BackendSettings configures the live detection backend.
type BackendSettings struct {
	BaseURL string        // base URL of the live backend, e.g. http://localhost:8000
	Timeout time.Duration // per-request transport timeout
}

// FeatureSettings holds the initial state of the runtime feature flags.
// The alert service owns the mutable copies; these are just boot values.
type FeatureSettings struct {
	AlertsEnabled          bool // false disables alert creation entirely
	RangerPositionsEnabled bool // true once the backend supports ranger positions
	RealTimeUpdatesEnabled bool // polling for new detections
}

// WebServerSettings configures the dashboard API server.
type WebServerSettings struct {
	Enabled bool   // true to start the HTTP API
	Port    string // port to listen on
	Debug   bool   // true to enable debug request logging
}

// PollSettings configures the detection poller feeding transient
// notifications.
type PollSettings struct {
	Interval time.Duration // how often to poll for new detections
	Limit    int           // detections fetched per poll
}

// Settings contains all runtime configuration for the application.
type Settings struct {
	Debug bool // true to enable debug logging globally

	// UseMockData routes all data source calls to the in-memory mock
	// snapshot instead of the live backend.
	UseMockData bool

	// Operator is the identity stamped on alerts created from this process.
	Operator string

	Backend   BackendSettings
	Features  FeatureSettings
	WebServer WebServerSettings
	Poll      PollSettings
}

// Load resolves settings from the given config file (optional), the
// environment and built-in defaults, in ascending precedence:
// defaults < config file < environment.
func Load(configPath string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	settings := &Settings{
		Debug:       v.GetBool("debug"),
		UseMockData: v.GetBool("usemockdata"),
		Operator:    v.GetString("operator"),
		Backend: BackendSettings{
			BaseURL: strings.TrimRight(v.GetString("backend.baseurl"), "/"),
			Timeout: v.GetDuration("backend.timeout"),
		},
		Features: FeatureSettings{
			AlertsEnabled:          v.GetBool("features.alertsenabled"),
			RangerPositionsEnabled: v.GetBool("features.rangerpositionsenabled"),
			RealTimeUpdatesEnabled: v.GetBool("features.realtimeupdatesenabled"),
		},
		WebServer: WebServerSettings{
			Enabled: v.GetBool("webserver.enabled"),
			Port:    v.GetString("webserver.port"),
			Debug:   v.GetBool("webserver.debug"),
		},
		Poll: PollSettings{
			Interval: v.GetDuration("poll.interval"),
			Limit:    v.GetInt("poll.limit"),
		},
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}
