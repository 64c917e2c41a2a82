package alertservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildwatch/wildwatch-go/internal/alert"
	"github.com/wildwatch/wildwatch-go/internal/conf"
	"github.com/wildwatch/wildwatch-go/internal/datasource"
	"github.com/wildwatch/wildwatch-go/internal/errors"
)

// stubSource is a scriptable Source implementation recording which
// operations were invoked.
type stubSource struct {
	alerts    alert.RawAlertList
	alertByID *alert.RawAlert
	created   *alert.RawAlert
	updated   *alert.RawAlert
	positions []alert.RangerPosition

	err error

	fetchAlertsCalls int
	createCalls      int
	anyCall          bool
}

func (s *stubSource) FetchDetections(ctx context.Context, q datasource.DetectionQuery) ([]alert.Detection, error) {
	s.anyCall = true
	return nil, s.err
}

func (s *stubSource) FetchAlerts(ctx context.Context, q datasource.AlertQuery) (alert.RawAlertList, error) {
	s.anyCall = true
	s.fetchAlertsCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.alerts, nil
}

func (s *stubSource) FetchAlertByID(ctx context.Context, id string) (*alert.RawAlert, error) {
	s.anyCall = true
	if s.err != nil {
		return nil, s.err
	}
	return s.alertByID, nil
}

func (s *stubSource) CreateAlert(ctx context.Context, payload *alert.TriggerPayload) (*alert.RawAlert, error) {
	s.anyCall = true
	s.createCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.created, nil
}

func (s *stubSource) UpdateAlert(ctx context.Context, id string, update *alert.StatusUpdate) (*alert.RawAlert, error) {
	s.anyCall = true
	if s.err != nil {
		return nil, s.err
	}
	return s.updated, nil
}

func (s *stubSource) FetchRangerPositions(ctx context.Context) ([]alert.RangerPosition, error) {
	s.anyCall = true
	if s.err != nil {
		return nil, s.err
	}
	return s.positions, nil
}

func testSettings(useMock bool) *conf.Settings {
	return &conf.Settings{
		UseMockData: useMock,
		Operator:    "Operator 1",
		Backend:     conf.BackendSettings{BaseURL: "http://backend.test"},
		Features: conf.FeatureSettings{
			AlertsEnabled:          true,
			RangerPositionsEnabled: true,
			RealTimeUpdatesEnabled: true,
		},
	}
}

func emptyMock(t *testing.T) *datasource.MockSource {
	t.Helper()
	return datasource.NewMockSourceFromJSON([]byte(`{"detections":[],"alerts":[],"rangers":[]}`))
}

func unreachableErr() error {
	return errors.Newf("dial tcp: connection refused").
		Component("datasource").
		Category(errors.CategoryTransportUnreachable).
		Build()
}

func serverErr() error {
	return errors.Newf("backend returned HTTP 500").
		Component("datasource").
		Category(errors.CategoryTransportServer).
		Build()
}

func TestTriggerAlertDerivesFromDetection(t *testing.T) {
	t.Parallel()

	svc, err := New(testSettings(true), &stubSource{}, emptyMock(t), nil)
	require.NoError(t, err)

	det := &alert.Detection{
		ID:         "DET-2037",
		ClassName:  alert.ClassPoacher,
		Confidence: 0.88,
		GpsLat:     -23.88,
		GpsLng:     31.52,
	}

	a, err := svc.TriggerAlert(context.Background(), det, nil)
	require.NoError(t, err)

	assert.Equal(t, "RG-101", a.ID)
	assert.Equal(t, "DET-2037", a.DetectionID)
	assert.Equal(t, alert.TypePoacherDetected, a.Type)
	assert.Equal(t, alert.SeverityCritical, a.Severity)
	assert.Equal(t, alert.StatusCreated, a.Status, "mock creations start in created")
	assert.Equal(t, "Operator 1", a.CreatedBy, "operator identity stamps unattributed alerts")
	assert.InDelta(t, -23.88, a.Location.Lat, 1e-9)
	assert.True(t, a.Severity.AtLeast(alert.SeverityMedium))
}

func TestTriggerAlertOverridesWin(t *testing.T) {
	t.Parallel()

	svc, err := New(testSettings(true), &stubSource{}, emptyMock(t), nil)
	require.NoError(t, err)

	zone := "Sector 12"
	a, err := svc.TriggerAlert(context.Background(),
		&alert.Detection{ID: "DET-1", ClassName: alert.ClassRhino, Confidence: 0.95},
		&alert.Overrides{
			Severity:  alert.SeverityLow,
			Source:    alert.SourceManual,
			Notes:     "drill, do not dispatch",
			ZoneLabel: &zone,
			CreatedBy: "Ranger HQ",
		})
	require.NoError(t, err)

	assert.Equal(t, alert.TypeRhinoSighting, a.Type, "type still derives when not overridden")
	assert.Equal(t, alert.SeverityLow, a.Severity)
	assert.Equal(t, alert.SourceManual, a.Source)
	assert.Equal(t, "drill, do not dispatch", a.Notes)
	assert.Equal(t, "Ranger HQ", a.CreatedBy)
	require.NotNil(t, a.Location.ZoneLabel)
	assert.Equal(t, "Sector 12", *a.Location.ZoneLabel)
}

func TestTriggerAlertValidation(t *testing.T) {
	t.Parallel()

	live := &stubSource{}
	svc, err := New(testSettings(false), live, emptyMock(t), nil)
	require.NoError(t, err)

	_, err = svc.TriggerAlert(context.Background(), nil, nil)
	assert.True(t, errors.IsValidation(err))

	_, err = svc.TriggerAlert(context.Background(), &alert.Detection{}, nil)
	assert.True(t, errors.IsValidation(err), "detection without id must be rejected")

	assert.False(t, live.anyCall, "invalid input must be rejected before any provider call")
}

func TestTriggerAlertFeatureDisabledShortCircuits(t *testing.T) {
	t.Parallel()

	live := &stubSource{}
	svc, err := New(testSettings(false), live, emptyMock(t), nil)
	require.NoError(t, err)
	svc.Flags().Set(FeatureAlerts, false)

	_, err = svc.TriggerAlert(context.Background(),
		&alert.Detection{ID: "DET-1", ClassName: alert.ClassPoacher, Confidence: 0.9}, nil)
	assert.True(t, errors.IsFeatureDisabled(err))
	assert.False(t, live.anyCall, "disabled feature must not reach the provider")
}

// Disabling alertsEnabled stops creation only. Operators still need to
// see and work the alerts that already exist.
func TestAlertReadsAndUpdatesIgnoreAlertsFlag(t *testing.T) {
	t.Parallel()

	live := &stubSource{
		alerts:    alert.RawAlertList{{ID: "RG-001", Status: "sent"}},
		alertByID: &alert.RawAlert{ID: "RG-001", Status: "sent"},
		updated:   &alert.RawAlert{ID: "RG-001", Status: "acknowledged"},
	}
	svc, err := New(testSettings(false), live, emptyMock(t), nil)
	require.NoError(t, err)
	svc.Flags().Set(FeatureAlerts, false)

	alerts, err := svc.FetchAlerts(context.Background(), datasource.AlertQuery{})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "RG-001", alerts[0].ID)

	a, err := svc.FetchAlertByID(context.Background(), "RG-001")
	require.NoError(t, err)
	assert.Equal(t, "RG-001", a.ID)

	a, err = svc.UpdateAlertStatus(context.Background(), "RG-001",
		&alert.StatusUpdate{Status: alert.StatusAcknowledged})
	require.NoError(t, err)
	assert.Equal(t, alert.StatusAcknowledged, a.Status)
}

func TestTriggerAlertFallsBackWhenUnreachable(t *testing.T) {
	t.Parallel()

	live := &stubSource{err: unreachableErr()}
	svc, err := New(testSettings(false), live, emptyMock(t), nil)
	require.NoError(t, err)

	a, err := svc.TriggerAlert(context.Background(),
		&alert.Detection{ID: "DET-5", ClassName: alert.ClassVehicle, Confidence: 0.9}, nil)
	require.NoError(t, err, "unreachable backend should degrade to the mock provider")

	assert.Equal(t, 1, live.createCalls, "live provider is tried first")
	assert.Equal(t, "RG-101", a.ID, "fallback creation lands in the mock snapshot")
	assert.Equal(t, alert.StatusCreated, a.Status)
}

func TestTriggerAlertServerErrorDoesNotFallBack(t *testing.T) {
	t.Parallel()

	live := &stubSource{err: serverErr()}
	mock := emptyMock(t)
	svc, err := New(testSettings(false), live, mock, nil)
	require.NoError(t, err)

	_, err = svc.TriggerAlert(context.Background(),
		&alert.Detection{ID: "DET-5", ClassName: alert.ClassVehicle, Confidence: 0.9}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryTransportServer))
	assert.Equal(t, 0, mock.AlertCount(), "a reachable but failing backend must not fabricate mock alerts")
}

func TestFetchAlertsFallsBackWhenUnreachable(t *testing.T) {
	t.Parallel()

	live := &stubSource{err: unreachableErr()}
	mock := datasource.NewMockSourceFromJSON([]byte(`{"alerts":[{"id":"RG-103","status":"in_progress"},{"id":"RG-102","status":"acknowledged"}]}`))
	svc, err := New(testSettings(false), live, mock, nil)
	require.NoError(t, err)

	alerts, err := svc.FetchAlerts(context.Background(), datasource.AlertQuery{})
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "RG-103", alerts[0].ID)
	assert.Equal(t, 1, live.fetchAlertsCalls)
}

func TestFetchAlertsNormalizesEveryRecord(t *testing.T) {
	t.Parallel()

	live := &stubSource{alerts: alert.RawAlertList{
		{ID: "RG-103"},
		{AlertID: "RG-102", Status: string(alert.StatusResolved)},
	}}
	svc, err := New(testSettings(false), live, emptyMock(t), nil)
	require.NoError(t, err)

	alerts, err := svc.FetchAlerts(context.Background(), datasource.AlertQuery{})
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	assert.Equal(t, alert.DefaultStatus, alerts[0].Status)
	assert.Equal(t, "RG-102", alerts[1].ID, "alert_id alias resolves to the canonical id")
	assert.Equal(t, alert.StatusResolved, alerts[1].Status)
	for _, a := range alerts {
		assert.NotNil(t, a.DeliveryChannelStatus)
		assert.False(t, a.UpdatedAt.Before(a.CreatedAt))
	}
}

func TestFetchAlertByIDNeverFallsBack(t *testing.T) {
	t.Parallel()

	live := &stubSource{err: errors.NotFoundError("alert", "RG-999")}
	mock := datasource.NewMockSourceFromJSON([]byte(`{"alerts":[{"id":"RG-999","status":"sent"}]}`))
	svc, err := New(testSettings(false), live, mock, nil)
	require.NoError(t, err)

	_, err = svc.FetchAlertByID(context.Background(), "RG-999")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err),
		"a live miss must surface even when the mock snapshot has a record with that id")

	_, err = svc.FetchAlertByID(context.Background(), "")
	assert.True(t, errors.IsValidation(err))
}

func TestUpdateAlertStatus(t *testing.T) {
	t.Parallel()

	mock := datasource.NewMockSourceFromJSON([]byte(`{"alerts":[{"id":"RG-101","status":"sent"}]}`))
	svc, err := New(testSettings(true), &stubSource{}, mock, nil)
	require.NoError(t, err)
	ctx := context.Background()

	a, err := svc.UpdateAlertStatus(ctx, "RG-101", &alert.StatusUpdate{Status: alert.StatusAcknowledged})
	require.NoError(t, err)
	assert.Equal(t, alert.StatusAcknowledged, a.Status)
	assert.NotNil(t, a.AcknowledgedAt)

	// Out-of-order transitions are recorded as-is.
	a, err = svc.UpdateAlertStatus(ctx, "RG-101", &alert.StatusUpdate{Status: alert.StatusCreated})
	require.NoError(t, err)
	assert.Equal(t, alert.StatusCreated, a.Status)

	_, err = svc.UpdateAlertStatus(ctx, "RG-101", &alert.StatusUpdate{Status: "escalated"})
	assert.True(t, errors.IsValidation(err))

	_, err = svc.UpdateAlertStatus(ctx, "", &alert.StatusUpdate{Status: alert.StatusResolved})
	assert.True(t, errors.IsValidation(err))
}

func TestFetchRangerPositionsFlagOffSkipsIO(t *testing.T) {
	t.Parallel()

	live := &stubSource{positions: []alert.RangerPosition{{ID: "RANGER-03"}}}
	settings := testSettings(false)
	settings.Features.RangerPositionsEnabled = false
	svc, err := New(settings, live, emptyMock(t), nil)
	require.NoError(t, err)

	positions, err := svc.FetchRangerPositions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, positions)
	assert.False(t, live.anyCall, "disabled overlay must not reach the provider")
}

func TestFetchRangerPositionsFallsBackToMock(t *testing.T) {
	t.Parallel()

	live := &stubSource{err: errors.Newf("backend returned HTTP 404").
		Category(errors.CategoryTransportNotImplemented).
		Build()}
	mock := datasource.NewMockSourceFromJSON([]byte(`{"rangers":[{"id":"RANGER-07","lat":-23.9,"lng":31.5}]}`))
	svc, err := New(testSettings(false), live, mock, nil)
	require.NoError(t, err)

	positions, err := svc.FetchRangerPositions(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "RANGER-07", positions[0].ID)
}

func TestFetchRangerPositionsDegradesToEmpty(t *testing.T) {
	t.Parallel()

	live := &stubSource{err: serverErr()}
	svc, err := New(testSettings(false), live, emptyMock(t), nil)
	require.NoError(t, err)

	positions, err := svc.FetchRangerPositions(context.Background())
	require.NoError(t, err, "the map overlay degrades silently instead of failing")
	assert.Empty(t, positions)
}

func TestFetchDetectionsCaches(t *testing.T) {
	t.Parallel()

	mock := datasource.NewMockSourceFromJSON([]byte(`{"detections":[{"id":"DET-1","class_name":"rhino","confidence":0.97}]}`))
	svc, err := New(testSettings(true), &stubSource{}, mock, nil)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := svc.FetchDetections(ctx, datasource.DetectionQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.FetchDetections(ctx, datasource.DetectionQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFeatureFlagsRuntimeToggle(t *testing.T) {
	t.Parallel()

	flags := NewFeatureFlags(conf.FeatureSettings{AlertsEnabled: true})

	assert.True(t, flags.IsEnabled(FeatureAlerts))
	assert.False(t, flags.IsEnabled(FeatureRangerPositions))

	assert.True(t, flags.Set(FeatureRangerPositions, true))
	assert.True(t, flags.IsEnabled(FeatureRangerPositions))

	assert.False(t, flags.Set("bogusFeature", true), "unknown features are rejected")
	assert.False(t, flags.IsEnabled("bogusFeature"))

	snap := flags.Snapshot()
	assert.True(t, snap[FeatureAlerts])
	assert.True(t, snap[FeatureRangerPositions])
	assert.False(t, snap[FeatureRealTimeUpdates])
}

func TestNewRequiresSettings(t *testing.T) {
	t.Parallel()

	_, err := New(nil, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}
