package datasource

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/wildwatch/wildwatch-go/internal/alert"
	"github.com/wildwatch/wildwatch-go/internal/errors"
)

//go:embed mockdata.json
var embeddedSnapshot []byte

// mockAlertIDBase is where the sequential mock alert numbering starts:
// an empty snapshot's first created alert is RG-101.
const mockAlertIDBase = 101

// snapshot is the in-memory mock dataset. It is loaded once on first
// access and mutated in place for the process lifetime; nothing is
// persisted across restarts.
type snapshot struct {
	Detections []alert.Detection         `json:"detections"`
	Alerts     []*alert.RawAlert         `json:"alerts"`
	Rangers    []alert.RawRangerPosition `json:"rangers"`
}

// MockSource serves data from an embedded JSON snapshot. It implements
// the same Source contract as the live provider and is used both for
// offline development and as the graceful-degradation fallback when the
// live backend is unreachable.
//
// The snapshot represents a development stand-in, not a production data
// store; the mutex only re-expresses the original single-writer
// assumption safely in Go, it makes no durability promise.
type MockSource struct {
	mu       sync.Mutex
	raw      []byte
	data     *snapshot
	loadOnce sync.Once
	loadErr  error
}

// NewMockSource creates a mock source backed by the embedded snapshot.
func NewMockSource() *MockSource {
	return &MockSource{raw: embeddedSnapshot}
}

// NewMockSourceFromJSON creates a mock source backed by the given JSON
// document. Used by tests to control the initial snapshot.
func NewMockSourceFromJSON(data []byte) *MockSource {
	return &MockSource{raw: data}
}

// load lazily parses the snapshot exactly once.
func (m *MockSource) load() (*snapshot, error) {
	m.loadOnce.Do(func() {
		var s snapshot
		if err := json.Unmarshal(m.raw, &s); err != nil {
			m.loadErr = errors.New(fmt.Errorf("failed to parse mock snapshot: %w", err)).
				Component("datasource").
				Category(errors.CategoryFileIO).
				Build()
			return
		}
		m.data = &s
		dsLogger.Info("mock snapshot loaded",
			"detections", len(s.Detections),
			"alerts", len(s.Alerts),
			"rangers", len(s.Rangers))
	})
	return m.data, m.loadErr
}

// FetchDetections returns up to q.Limit detections from the snapshot.
func (m *MockSource) FetchDetections(ctx context.Context, q DetectionQuery) ([]alert.Detection, error) {
	data, err := m.load()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	detections := data.Detections
	if q.Limit > 0 && len(detections) > q.Limit {
		detections = detections[:q.Limit]
	}

	out := make([]alert.Detection, len(detections))
	copy(out, detections)
	return out, nil
}

// FetchAlerts filters the in-memory alerts by status, then truncates to
// the query limit. Never fails once the snapshot has loaded.
func (m *MockSource) FetchAlerts(ctx context.Context, q AlertQuery) (alert.RawAlertList, error) {
	data, err := m.load()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(alert.RawAlertList, 0, len(data.Alerts))
	for _, raw := range data.Alerts {
		if q.Status != "" && alert.Status(raw.Status) != q.Status {
			continue
		}
		out = append(out, cloneRaw(raw))
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// FetchAlertByID returns the alert with the given ID or a not-found error.
func (m *MockSource) FetchAlertByID(ctx context.Context, id string) (*alert.RawAlert, error) {
	data, err := m.load()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, raw := range data.Alerts {
		if raw.ID == id {
			return cloneRaw(raw), nil
		}
	}
	return nil, errors.NotFoundError("alert", id)
}

// CreateAlert fabricates a new alert from the payload, assigns the next
// zero-padded sequential identifier and prepends the record so listings
// stay most-recent-first.
func (m *MockSource) CreateAlert(ctx context.Context, payload *alert.TriggerPayload) (*alert.RawAlert, error) {
	data, err := m.load()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	newID := fmt.Sprintf("RG-%03d", len(data.Alerts)+mockAlertIDBase)

	raw := &alert.RawAlert{
		ID:          newID,
		DetectionID: payload.DetectionID,
		Type:        string(payload.Type),
		Severity:    string(payload.Severity),
		Source:      string(payload.Source),
		Status:      string(alert.StatusCreated),
		Location: &alert.RawLocation{
			Lat:       float64Ptr(payload.Location.Lat),
			Lng:       float64Ptr(payload.Location.Lng),
			ZoneLabel: payload.Location.ZoneLabel,
		},
		CreatedAt:             &now,
		UpdatedAt:             &now,
		CreatedBy:             payload.CreatedBy,
		Notes:                 payload.Notes,
		DeliveryChannelStatus: []alert.ChannelDelivery{},
	}

	data.Alerts = append([]*alert.RawAlert{raw}, data.Alerts...)

	dsLogger.Info("mock alert created", "id", newID, "detection_id", payload.DetectionID)
	return cloneRaw(raw), nil
}

// UpdateAlert applies a status update to the stored record, stamping the
// matching transition timestamp and bumping updated_at. Transition
// legality is deliberately not validated here.
func (m *MockSource) UpdateAlert(ctx context.Context, id string, update *alert.StatusUpdate) (*alert.RawAlert, error) {
	data, err := m.load()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, raw := range data.Alerts {
		if raw.ID != id {
			continue
		}

		now := time.Now().UTC()
		raw.Status = string(update.Status)
		raw.UpdatedAt = &now

		switch update.Status {
		case alert.StatusAcknowledged:
			if raw.AcknowledgedAt == nil {
				raw.AcknowledgedAt = &now
			}
		case alert.StatusInProgress:
			if raw.InProgressAt == nil {
				raw.InProgressAt = &now
			}
		case alert.StatusResolved:
			if raw.ResolvedAt == nil {
				raw.ResolvedAt = &now
			}
		}

		if update.RangerAssigned != nil {
			raw.RangerAssigned = update.RangerAssigned
		}
		if update.Notes != "" {
			raw.Notes = update.Notes
		}

		dsLogger.Info("mock alert updated", "id", id, "status", update.Status)
		return cloneRaw(raw), nil
	}

	return nil, errors.NotFoundError("alert", id)
}

// FetchRangerPositions returns the snapshot's ranger positions.
func (m *MockSource) FetchRangerPositions(ctx context.Context) ([]alert.RangerPosition, error) {
	data, err := m.load()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	positions := make([]alert.RangerPosition, 0, len(data.Rangers))
	for i := range data.Rangers {
		positions = append(positions, data.Rangers[i].Position())
	}
	return positions, nil
}

// AlertCount returns the number of alerts currently held in the snapshot.
func (m *MockSource) AlertCount() int {
	data, err := m.load()
	if err != nil {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return len(data.Alerts)
}

// cloneRaw returns a shallow-plus-slices copy so callers cannot mutate
// the stored record through the returned pointer.
func cloneRaw(raw *alert.RawAlert) *alert.RawAlert {
	c := *raw
	if raw.Location != nil {
		loc := *raw.Location
		c.Location = &loc
	}
	if raw.DeliveryChannelStatus != nil {
		c.DeliveryChannelStatus = append([]alert.ChannelDelivery(nil), raw.DeliveryChannelStatus...)
	}
	if raw.DeliveryChannelStatusAlt != nil {
		c.DeliveryChannelStatusAlt = append([]alert.ChannelDelivery(nil), raw.DeliveryChannelStatusAlt...)
	}
	return &c
}

func float64Ptr(v float64) *float64 {
	return &v
}
