// Package metrics provides alert pipeline metrics for observability
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AlertMetrics contains Prometheus metrics for alert service operations
type AlertMetrics struct {
	registry *prometheus.Registry

	// Alert lifecycle metrics
	alertsTriggeredTotal *prometheus.CounterVec
	alertFetchesTotal    *prometheus.CounterVec
	statusUpdatesTotal   *prometheus.CounterVec

	// Fallback policy metrics
	fallbacksTotal       *prometheus.CounterVec
	transportErrorsTotal *prometheus.CounterVec
	featureBlockedTotal  *prometheus.CounterVec
	alertTriggerDuration *prometheus.HistogramVec
}

// NewAlertMetrics creates and registers new alert metrics
func NewAlertMetrics(registry *prometheus.Registry) (*AlertMetrics, error) {
	m := &AlertMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// initMetrics initializes all Prometheus metrics
func (m *AlertMetrics) initMetrics() {
	m.alertsTriggeredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wildwatch_alerts_triggered_total",
			Help: "Total number of alerts triggered",
		},
		[]string{"severity", "type", "source"}, // source: live, mock, fallback
	)

	m.alertFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wildwatch_alert_fetches_total",
			Help: "Total number of alert list fetches",
		},
		[]string{"source", "status"}, // status: success, error
	)

	m.statusUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wildwatch_alert_status_updates_total",
			Help: "Total number of alert status updates",
		},
		[]string{"status"},
	)

	m.fallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wildwatch_fallbacks_total",
			Help: "Total number of graceful-degradation fallbacks to the mock source",
		},
		[]string{"operation"},
	)

	m.transportErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wildwatch_transport_errors_total",
			Help: "Total number of live backend transport failures",
		},
		[]string{"operation", "category"},
	)

	m.featureBlockedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wildwatch_feature_blocked_total",
			Help: "Total number of operations short-circuited by a disabled feature flag",
		},
		[]string{"feature"},
	)

	m.alertTriggerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wildwatch_alert_trigger_duration_seconds",
			Help:    "Time taken to trigger an alert end to end",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"source"},
	)
}

// Describe implements the prometheus.Collector interface
func (m *AlertMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.alertsTriggeredTotal.Describe(ch)
	m.alertFetchesTotal.Describe(ch)
	m.statusUpdatesTotal.Describe(ch)
	m.fallbacksTotal.Describe(ch)
	m.transportErrorsTotal.Describe(ch)
	m.featureBlockedTotal.Describe(ch)
	m.alertTriggerDuration.Describe(ch)
}

// Collect implements the prometheus.Collector interface
func (m *AlertMetrics) Collect(ch chan<- prometheus.Metric) {
	m.alertsTriggeredTotal.Collect(ch)
	m.alertFetchesTotal.Collect(ch)
	m.statusUpdatesTotal.Collect(ch)
	m.fallbacksTotal.Collect(ch)
	m.transportErrorsTotal.Collect(ch)
	m.featureBlockedTotal.Collect(ch)
	m.alertTriggerDuration.Collect(ch)
}

// RecordAlertTriggered increments the triggered alert counter
func (m *AlertMetrics) RecordAlertTriggered(severity, alertType, source string) {
	if m == nil {
		return
	}
	m.alertsTriggeredTotal.WithLabelValues(severity, alertType, source).Inc()
}

// RecordAlertFetch increments the alert fetch counter
func (m *AlertMetrics) RecordAlertFetch(source, status string) {
	if m == nil {
		return
	}
	m.alertFetchesTotal.WithLabelValues(source, status).Inc()
}

// RecordStatusUpdate increments the status update counter
func (m *AlertMetrics) RecordStatusUpdate(status string) {
	if m == nil {
		return
	}
	m.statusUpdatesTotal.WithLabelValues(status).Inc()
}

// RecordFallback increments the fallback counter for an operation
func (m *AlertMetrics) RecordFallback(operation string) {
	if m == nil {
		return
	}
	m.fallbacksTotal.WithLabelValues(operation).Inc()
}

// RecordTransportError increments the transport error counter
func (m *AlertMetrics) RecordTransportError(operation, category string) {
	if m == nil {
		return
	}
	m.transportErrorsTotal.WithLabelValues(operation, category).Inc()
}

// RecordFeatureBlocked increments the feature gate counter
func (m *AlertMetrics) RecordFeatureBlocked(feature string) {
	if m == nil {
		return
	}
	m.featureBlockedTotal.WithLabelValues(feature).Inc()
}

// ObserveTriggerDuration records an alert trigger duration in seconds
func (m *AlertMetrics) ObserveTriggerDuration(source string, seconds float64) {
	if m == nil {
		return
	}
	m.alertTriggerDuration.WithLabelValues(source).Observe(seconds)
}
