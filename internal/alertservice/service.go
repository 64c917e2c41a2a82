// Package alertservice orchestrates the alert lifecycle: triggering alerts
// from detections, listing and updating them, and serving ranger positions.
// It owns provider selection (live backend vs offline mock), the fallback
// policy for unreachable or unimplemented backends, and the runtime feature
// flags. Flags are checked before any I/O: alertsEnabled gates alert
// creation only, so reads and status updates keep working while creation
// is administratively off.
package alertservice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/wildwatch/wildwatch-go/internal/alert"
	"github.com/wildwatch/wildwatch-go/internal/conf"
	"github.com/wildwatch/wildwatch-go/internal/datasource"
	"github.com/wildwatch/wildwatch-go/internal/errors"
	"github.com/wildwatch/wildwatch-go/internal/httpclient"
	"github.com/wildwatch/wildwatch-go/internal/logging"
	"github.com/wildwatch/wildwatch-go/internal/observability/metrics"
)

// Package-level logger following the established pattern
var (
	svcLogger      *slog.Logger
	svcLevelVar    = new(slog.LevelVar)
	closeSvcLogger func() error
)

func init() {
	var err error
	svcLevelVar.Set(slog.LevelInfo)

	svcLogger, closeSvcLogger, err = logging.NewFileLogger("logs/alertservice.log", "alertservice", svcLevelVar)
	if err != nil || svcLogger == nil {
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: svcLevelVar})
		svcLogger = slog.New(fbHandler).With("service", "alertservice")
		closeSvcLogger = func() error { return nil }
	}
}

// Read cache keys and TTLs. Alerts are never cached; list and trigger
// results must reflect the backend immediately. Detections and ranger
// positions refresh on a poll cadence anyway, so a short cache absorbs
// bursts from concurrent consumers.
const (
	cacheKeyDetections      = "detections"
	cacheKeyRangerPositions = "ranger-positions"

	readCacheTTL     = 15 * time.Second
	readCacheCleanup = time.Minute
)

// Service coordinates alert operations across the configured providers.
// All methods are safe for concurrent use.
type Service struct {
	settings *conf.Settings
	flags    *FeatureFlags

	live datasource.Source
	mock *datasource.MockSource

	cache   *gocache.Cache
	metrics *metrics.AlertMetrics
}

// New creates an alert service from settings. A nil live source builds a
// default HTTP-backed one from the configured backend URL; a nil mock
// builds the embedded snapshot. Metrics may be nil, in which case
// recording is a no-op.
func New(settings *conf.Settings, live datasource.Source, mock *datasource.MockSource, m *metrics.AlertMetrics) (*Service, error) {
	if settings == nil {
		return nil, errors.Newf("alertservice: settings are required").
			Component("alertservice").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if mock == nil {
		mock = datasource.NewMockSource()
	}
	if live == nil {
		client := httpclient.New(&httpclient.Config{
			DefaultTimeout: settings.Backend.Timeout,
		})
		live = datasource.NewLiveSource(settings.Backend.BaseURL, client)
	}

	if settings.Debug {
		svcLevelVar.Set(slog.LevelDebug)
	}

	svc := &Service{
		settings: settings,
		flags:    NewFeatureFlags(settings.Features),
		live:     live,
		mock:     mock,
		cache:    gocache.New(readCacheTTL, readCacheCleanup),
		metrics:  m,
	}

	svcLogger.Info("alert service initialized",
		"use_mock_data", settings.UseMockData,
		"backend_url", settings.Backend.BaseURL,
		"alerts_enabled", settings.Features.AlertsEnabled,
		"ranger_positions_enabled", settings.Features.RangerPositionsEnabled)

	return svc, nil
}

// Flags exposes the runtime feature flags for this instance.
func (s *Service) Flags() *FeatureFlags {
	return s.flags
}

// UseMockData reports whether the service is pinned to the offline mock
// provider for all operations.
func (s *Service) UseMockData() bool {
	return s.settings.UseMockData
}

// TriggerAlert escalates a detection into a dispatch alert. The alert's
// type, severity and source derive from the detection class and confidence
// unless overridden. When the live backend is unreachable or the endpoint
// is not implemented, the alert is created against the mock snapshot
// instead so the operator still gets a record to act on.
func (s *Service) TriggerAlert(ctx context.Context, d *alert.Detection, ov *alert.Overrides) (alert.Alert, error) {
	if !s.flags.IsEnabled(FeatureAlerts) {
		s.metrics.RecordFeatureBlocked(string(FeatureAlerts))
		return alert.Alert{}, errors.FeatureDisabledError(string(FeatureAlerts))
	}

	if d == nil || d.ID == "" {
		return alert.Alert{}, errors.ValidationError("detection is missing or has no id")
	}

	payload := s.buildTriggerPayload(d, ov)
	start := time.Now()

	if s.settings.UseMockData {
		raw, err := s.mock.CreateAlert(ctx, payload)
		if err != nil {
			return alert.Alert{}, err
		}
		a := alert.Normalize(raw)
		s.recordTriggered(&a, "mock", start)
		return a, nil
	}

	raw, err := s.live.CreateAlert(ctx, payload)
	if err != nil {
		if !errors.IsFallbackEligible(err) {
			s.metrics.RecordTransportError("trigger_alert", categoryOf(err))
			return alert.Alert{}, err
		}

		svcLogger.Warn("live trigger failed, falling back to mock provider",
			"detection_id", d.ID,
			"error", err)
		s.metrics.RecordFallback("trigger_alert")

		raw, err = s.mock.CreateAlert(ctx, payload)
		if err != nil {
			return alert.Alert{}, err
		}
		a := alert.Normalize(raw)
		s.recordTriggered(&a, "fallback", start)
		return a, nil
	}

	a := alert.Normalize(raw)
	s.recordTriggered(&a, "live", start)
	return a, nil
}

// FetchAlerts lists alerts matching the query, newest first, normalized.
// Falls back to the mock snapshot when the live backend is unreachable or
// the endpoint is not implemented.
func (s *Service) FetchAlerts(ctx context.Context, q datasource.AlertQuery) ([]alert.Alert, error) {
	if q.Limit <= 0 {
		q.Limit = datasource.DefaultAlertLimit
	}

	if s.settings.UseMockData {
		raws, err := s.mock.FetchAlerts(ctx, q)
		if err != nil {
			s.metrics.RecordAlertFetch("mock", "error")
			return nil, err
		}
		s.metrics.RecordAlertFetch("mock", "ok")
		return alert.NormalizeAll(raws), nil
	}

	raws, err := s.live.FetchAlerts(ctx, q)
	if err != nil {
		if !errors.IsFallbackEligible(err) {
			s.metrics.RecordAlertFetch("live", "error")
			s.metrics.RecordTransportError("fetch_alerts", categoryOf(err))
			return nil, err
		}

		svcLogger.Warn("live alert fetch failed, serving mock snapshot", "error", err)
		s.metrics.RecordFallback("fetch_alerts")

		raws, err = s.mock.FetchAlerts(ctx, q)
		if err != nil {
			return nil, err
		}
		s.metrics.RecordAlertFetch("fallback", "ok")
		return alert.NormalizeAll(raws), nil
	}

	s.metrics.RecordAlertFetch("live", "ok")
	return alert.NormalizeAll(raws), nil
}

// FetchAlertByID returns a single normalized alert. Single-record fetches
// never fall back: substituting a mock record for a specific ID would
// fabricate data the caller believes is authoritative.
func (s *Service) FetchAlertByID(ctx context.Context, id string) (alert.Alert, error) {
	if id == "" {
		return alert.Alert{}, errors.ValidationError("alert id is required")
	}

	src := s.activeSource()
	raw, err := src.FetchAlertByID(ctx, id)
	if err != nil {
		return alert.Alert{}, err
	}
	return alert.Normalize(raw), nil
}

// UpdateAlertStatus applies a lifecycle status change to an alert and
// returns the updated record. Transitions are recorded as requested
// without ordering validation; out-of-order updates from the field are
// the norm, not the exception. Status updates never fall back.
func (s *Service) UpdateAlertStatus(ctx context.Context, id string, update *alert.StatusUpdate) (alert.Alert, error) {
	if id == "" {
		return alert.Alert{}, errors.ValidationError("alert id is required")
	}
	if update == nil || !update.Status.Valid() {
		return alert.Alert{}, errors.ValidationError(
			fmt.Sprintf("unknown alert status %q", statusString(update)))
	}

	src := s.activeSource()
	raw, err := src.UpdateAlert(ctx, id, update)
	if err != nil {
		return alert.Alert{}, err
	}

	a := alert.Normalize(raw)
	s.metrics.RecordStatusUpdate(string(a.Status))
	svcLogger.Info("alert status updated", "alert_id", a.ID, "status", a.Status)
	return a, nil
}

// FetchDetections returns recent detections from the active provider.
// Results are briefly cached; detection reads feed the notification
// poller and the dashboard simultaneously.
func (s *Service) FetchDetections(ctx context.Context, q datasource.DetectionQuery) ([]alert.Detection, error) {
	key := fmt.Sprintf("%s:%d", cacheKeyDetections, q.Limit)
	if cached, found := s.cache.Get(key); found {
		if dets, ok := cached.([]alert.Detection); ok {
			return dets, nil
		}
	}

	dets, err := s.activeSource().FetchDetections(ctx, q)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, dets, gocache.DefaultExpiration)
	return dets, nil
}

// FetchRangerPositions returns the current ranger position snapshot.
// When the feature is disabled the empty slice is returned without any
// I/O. A live backend that has not implemented the endpoint yet falls
// back to the mock snapshot; any other failure degrades to an empty
// overlay rather than breaking the caller's map view.
func (s *Service) FetchRangerPositions(ctx context.Context) ([]alert.RangerPosition, error) {
	if !s.flags.IsEnabled(FeatureRangerPositions) {
		s.metrics.RecordFeatureBlocked(string(FeatureRangerPositions))
		return []alert.RangerPosition{}, nil
	}

	if cached, found := s.cache.Get(cacheKeyRangerPositions); found {
		if positions, ok := cached.([]alert.RangerPosition); ok {
			return positions, nil
		}
	}

	if s.settings.UseMockData {
		positions, err := s.mock.FetchRangerPositions(ctx)
		if err != nil {
			return []alert.RangerPosition{}, nil
		}
		s.cache.Set(cacheKeyRangerPositions, positions, gocache.DefaultExpiration)
		return positions, nil
	}

	positions, err := s.live.FetchRangerPositions(ctx)
	if err != nil {
		if errors.IsFallbackEligible(err) {
			svcLogger.Debug("live ranger positions unavailable, serving mock snapshot", "error", err)
			s.metrics.RecordFallback("fetch_ranger_positions")
			if positions, mockErr := s.mock.FetchRangerPositions(ctx); mockErr == nil {
				s.cache.Set(cacheKeyRangerPositions, positions, gocache.DefaultExpiration)
				return positions, nil
			}
		}
		svcLogger.Warn("ranger position fetch failed", "error", err)
		return []alert.RangerPosition{}, nil
	}

	s.cache.Set(cacheKeyRangerPositions, positions, gocache.DefaultExpiration)
	return positions, nil
}

// ImageUploader is implemented by sources that accept camera-trap image
// uploads and return the detections derived from them.
type ImageUploader interface {
	UploadImage(ctx context.Context, fileName string, file io.Reader, gpsLat, gpsLng float64) ([]alert.Detection, error)
}

// UploadImage forwards a camera-trap image to the live backend and
// returns the detections it derives. The mock provider performs no
// inference, so uploads require a live backend.
func (s *Service) UploadImage(ctx context.Context, fileName string, file io.Reader, gpsLat, gpsLng float64) ([]alert.Detection, error) {
	if s.settings.UseMockData {
		return nil, errors.Newf("image upload requires a live backend").
			Component("alertservice").
			Category(errors.CategoryDataSource).
			Build()
	}
	uploader, ok := s.live.(ImageUploader)
	if !ok {
		return nil, errors.Newf("configured source does not accept image uploads").
			Component("alertservice").
			Category(errors.CategoryDataSource).
			Build()
	}

	dets, err := uploader.UploadImage(ctx, fileName, file, gpsLat, gpsLng)
	if err != nil {
		s.metrics.RecordTransportError("upload_image", categoryOf(err))
		return nil, err
	}
	// New detections invalidate the read cache so the next poll sees them.
	s.cache.Flush()
	return dets, nil
}

// activeSource returns the provider selected by configuration.
func (s *Service) activeSource() datasource.Source {
	if s.settings.UseMockData {
		return s.mock
	}
	return s.live
}

// buildTriggerPayload assembles the wire payload for a trigger request,
// applying overrides on top of values derived from the detection.
func (s *Service) buildTriggerPayload(d *alert.Detection, ov *alert.Overrides) *alert.TriggerPayload {
	if ov == nil {
		ov = &alert.Overrides{}
	}

	payload := &alert.TriggerPayload{
		DetectionID: d.ID,
		Type:        ov.Type,
		Severity:    ov.Severity,
		Source:      ov.Source,
		Notes:       ov.Notes,
		CreatedBy:   ov.CreatedBy,
		Location: alert.TriggerLocation{
			Lat:       d.GpsLat,
			Lng:       d.GpsLng,
			ZoneLabel: ov.ZoneLabel,
		},
	}

	if payload.Type == "" {
		payload.Type = alert.DeriveType(d.ClassName)
	}
	if payload.Severity == "" {
		payload.Severity = alert.DeriveSeverity(d)
	}
	if payload.Source == "" {
		payload.Source = alert.DeriveSource(d)
	}
	if payload.CreatedBy == "" {
		payload.CreatedBy = s.settings.Operator
	}
	return payload
}

func (s *Service) recordTriggered(a *alert.Alert, via string, start time.Time) {
	s.metrics.RecordAlertTriggered(string(a.Severity), string(a.Type), via)
	s.metrics.ObserveTriggerDuration(via, time.Since(start).Seconds())
	svcLogger.Info("alert triggered",
		"alert_id", a.ID,
		"detection_id", a.DetectionID,
		"type", a.Type,
		"severity", a.Severity,
		"via", via)
}

// Close releases service resources.
func (s *Service) Close() error {
	s.cache.Flush()
	return nil
}

func categoryOf(err error) string {
	var ee *errors.EnhancedError
	if errors.As(err, &ee) {
		return ee.GetCategory()
	}
	return string(errors.CategoryGeneric)
}

func statusString(update *alert.StatusUpdate) string {
	if update == nil {
		return ""
	}
	return string(update.Status)
}
