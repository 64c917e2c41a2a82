package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertMetricsRegistersAndRecords(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m, err := NewAlertMetrics(registry)
	require.NoError(t, err)

	m.RecordAlertTriggered("critical", "poacher_detected", "live")
	m.RecordAlertTriggered("critical", "poacher_detected", "live")
	m.RecordFallback("fetch_alerts")
	m.RecordFeatureBlocked("alertsEnabled")
	m.ObserveTriggerDuration("live", 0.042)

	assert.InDelta(t, 2.0, testutil.ToFloat64(
		m.alertsTriggeredTotal.WithLabelValues("critical", "poacher_detected", "live")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(
		m.fallbacksTotal.WithLabelValues("fetch_alerts")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(
		m.featureBlockedTotal.WithLabelValues("alertsEnabled")), 1e-9)

	// Double registration of the same collector must fail loudly.
	_, err = NewAlertMetrics(registry)
	assert.Error(t, err)
}

func TestAlertMetricsNilSafe(t *testing.T) {
	t.Parallel()

	var m *AlertMetrics
	m.RecordAlertTriggered("high", "vehicle_intrusion", "mock")
	m.RecordAlertFetch("mock", "ok")
	m.RecordStatusUpdate("resolved")
	m.RecordFallback("trigger_alert")
	m.RecordTransportError("fetch_alerts", "transport-server")
	m.RecordFeatureBlocked("alertsEnabled")
	m.ObserveTriggerDuration("mock", 0.01)
}
