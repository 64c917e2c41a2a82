// defaults.go: built-in defaults for all settings keys.
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Default values used when neither config file nor environment provide one.
const (
	DefaultBackendURL     = "http://localhost:8000"
	DefaultBackendTimeout = 30 * time.Second
	DefaultOperator       = "Operator 1"
	DefaultWebPort        = "8090"
	DefaultPollInterval   = 30 * time.Second
	DefaultPollLimit      = 50
)

// setDefaults registers all defaults on the given viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("usemockdata", false)
	v.SetDefault("operator", DefaultOperator)

	v.SetDefault("backend.baseurl", DefaultBackendURL)
	v.SetDefault("backend.timeout", DefaultBackendTimeout)

	// Ranger positions ship disabled until the backend implements the
	// endpoint; the other subsystems default on.
	v.SetDefault("features.alertsenabled", true)
	v.SetDefault("features.rangerpositionsenabled", false)
	v.SetDefault("features.realtimeupdatesenabled", true)

	v.SetDefault("webserver.enabled", true)
	v.SetDefault("webserver.port", DefaultWebPort)
	v.SetDefault("webserver.debug", false)

	v.SetDefault("poll.interval", DefaultPollInterval)
	v.SetDefault("poll.limit", DefaultPollLimit)
}
