// env.go - environment variable bindings and validation for wildwatch-go
package conf

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "WILDWATCH_DEBUG", validateEnvBool},
		{"usemockdata", "WILDWATCH_USE_MOCK_DATA", validateEnvBool},
		{"operator", "WILDWATCH_OPERATOR", nil},

		{"backend.baseurl", "WILDWATCH_BACKEND_URL", validateEnvURL},
		{"backend.timeout", "WILDWATCH_BACKEND_TIMEOUT", validateEnvDuration},

		{"features.alertsenabled", "WILDWATCH_ALERTS_ENABLED", validateEnvBool},
		{"features.rangerpositionsenabled", "WILDWATCH_RANGER_POSITIONS", validateEnvBool},
		{"features.realtimeupdatesenabled", "WILDWATCH_REAL_TIME_UPDATES", validateEnvBool},

		{"webserver.enabled", "WILDWATCH_WEB_ENABLED", validateEnvBool},
		{"webserver.port", "WILDWATCH_WEB_PORT", validateEnvPort},
		{"webserver.debug", "WILDWATCH_WEB_DEBUG", validateEnvBool},

		{"poll.interval", "WILDWATCH_POLL_INTERVAL", validateEnvDuration},
		{"poll.limit", "WILDWATCH_POLL_LIMIT", validateEnvInt},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal)
func bindEnvVars(v *viper.Viper) error {
	bindings := getEnvBindings()
	var warnings []string

	for _, binding := range bindings {
		if err := v.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate != nil {
			if envValue := os.Getenv(binding.EnvVar); envValue != "" {
				if err := binding.Validate(envValue); err != nil {
					warnings = append(warnings, fmt.Sprintf("invalid %s value '%s': %v", binding.EnvVar, envValue, err))
				}
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}

	return nil
}

// Environment variable validation functions

// validateEnvBool validates boolean environment variables
func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("must be a boolean (true/false)")
	}
	return nil
}

// validateEnvInt validates integer environment variables
func validateEnvInt(value string) error {
	if _, err := strconv.Atoi(value); err != nil {
		return fmt.Errorf("must be an integer")
	}
	return nil
}

// validateEnvDuration validates duration environment variables (e.g. "30s", "5m")
func validateEnvDuration(value string) error {
	if _, err := time.ParseDuration(value); err != nil {
		return fmt.Errorf("must be a duration like 30s or 5m")
	}
	return nil
}

// validateEnvURL validates URL environment variables
func validateEnvURL(value string) error {
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	return nil
}

// validateEnvPort validates TCP port environment variables
func validateEnvPort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("must be a port number between 1 and 65535")
	}
	return nil
}
