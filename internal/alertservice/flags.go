package alertservice

import (
	"sync"

	"github.com/wildwatch/wildwatch-go/internal/conf"
)

// Feature identifies a runtime-switchable subsystem. A disabled feature
// short-circuits its operation before any I/O is attempted.
type Feature string

const (
	// FeatureAlerts disables alert creation only; listing, lookup and
	// status updates stay available so operators can work existing alerts.
	FeatureAlerts          Feature = "alertsEnabled"
	FeatureRangerPositions Feature = "rangerPositionsEnabled"
	FeatureRealTimeUpdates Feature = "realTimeUpdatesEnabled"
)

// FeatureFlags holds the mutable runtime flags for one service instance.
// There is no process-global flag state; tests construct as many
// independent instances as they need.
type FeatureFlags struct {
	mu              sync.RWMutex
	alerts          bool
	rangerPositions bool
	realTimeUpdates bool
}

// NewFeatureFlags creates flags initialized from boot settings.
func NewFeatureFlags(boot conf.FeatureSettings) *FeatureFlags {
	return &FeatureFlags{
		alerts:          boot.AlertsEnabled,
		rangerPositions: boot.RangerPositionsEnabled,
		realTimeUpdates: boot.RealTimeUpdatesEnabled,
	}
}

// IsEnabled reports whether a feature is currently on. Unknown features
// report false.
func (f *FeatureFlags) IsEnabled(feature Feature) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	switch feature {
	case FeatureAlerts:
		return f.alerts
	case FeatureRangerPositions:
		return f.rangerPositions
	case FeatureRealTimeUpdates:
		return f.realTimeUpdates
	default:
		return false
	}
}

// Set switches a feature at runtime. Returns false for unknown features,
// which are ignored.
func (f *FeatureFlags) Set(feature Feature, enabled bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch feature {
	case FeatureAlerts:
		f.alerts = enabled
	case FeatureRangerPositions:
		f.rangerPositions = enabled
	case FeatureRealTimeUpdates:
		f.realTimeUpdates = enabled
	default:
		return false
	}

	svcLogger.Info("feature flag changed", "feature", feature, "enabled", enabled)
	return true
}

// Snapshot returns the current flag values for reporting.
func (f *FeatureFlags) Snapshot() map[Feature]bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return map[Feature]bool{
		FeatureAlerts:          f.alerts,
		FeatureRangerPositions: f.rangerPositions,
		FeatureRealTimeUpdates: f.realTimeUpdates,
	}
}
