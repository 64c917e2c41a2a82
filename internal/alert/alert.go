// Package alert provides the canonical domain model for ranger dispatch
// alerts and the normalization layer that reconciles the divergent raw
// shapes served by the live backend and the offline mock snapshot.
//
// Every alert consumed by the rest of the application passes through
// Normalize, which is the single point where field-name drift and
// missing-field defaults are resolved.
package alert

import (
	"fmt"
	"time"
)

// Status tracks an alert through its dispatch lifecycle.
// The canonical happy path is created -> sent -> acknowledged ->
// in_progress -> resolved. Out-of-order external updates are accepted
// without validation; this layer records, it does not referee.
type Status string

const (
	StatusCreated      Status = "created"
	StatusSent         Status = "sent"
	StatusAcknowledged Status = "acknowledged"
	StatusInProgress   Status = "in_progress"
	StatusResolved     Status = "resolved"
)

// Valid reports whether s is one of the known lifecycle statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusSent, StatusAcknowledged, StatusInProgress, StatusResolved:
		return true
	default:
		return false
	}
}

// Severity is the urgency of an alert.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// rank orders severities for comparisons; unknown values rank lowest.
func (s Severity) rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s.rank() >= other.rank()
}

// Type describes the nature of the escalation, derived from the
// originating detection's class when not explicitly overridden.
type Type string

const (
	TypePoacherDetected  Type = "poacher_detected"
	TypeVehicleIntrusion Type = "vehicle_intrusion"
	TypeRhinoSighting    Type = "rhino_sighting"
	TypeElephantSighting Type = "elephant_sighting"
	TypeUnknownThreat    Type = "unknown_threat"
)

// Source records alert provenance.
type Source string

const (
	SourceCameraTrap Source = "camera_trap"
	SourceManual     Source = "manual"
	SourceSensor     Source = "sensor"
)

// Location is the geographic position attached to an alert.
type Location struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	ZoneLabel *string `json:"zoneLabel"`
}

// ChannelDelivery is one per-channel delivery outcome (SMS, radio, app).
// The sequence on an Alert is append-only.
type ChannelDelivery struct {
	Channel string    `json:"channel"`
	Status  string    `json:"status"`
	At      time.Time `json:"at"`
}

// Alert is the canonical, total representation of a dispatch alert.
// After normalization every required field carries a valid value and
// every nullable field is either nil or valid; the UI never sees a
// partially populated record.
type Alert struct {
	ID          string   `json:"id"`
	DetectionID string   `json:"detectionId"`
	Source      Source   `json:"source"`
	Type        Type     `json:"type"`
	Severity    Severity `json:"severity"`
	Status      Status   `json:"status"`
	Location    Location `json:"location"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy string    `json:"createdBy"`
	Notes     string    `json:"notes"`

	DeliveryChannelStatus []ChannelDelivery `json:"deliveryChannelStatus"`

	AcknowledgedAt *time.Time `json:"acknowledgedAt"`
	InProgressAt   *time.Time `json:"inProgressAt"`
	ResolvedAt     *time.Time `json:"resolvedAt"`
	RangerAssigned *string    `json:"rangerAssigned"`
}

// generateAlertIDPrefix is the prefix for locally generated alert IDs,
// assigned when an alert is fabricated offline before the backend has
// issued a server ID.
const generateAlertIDPrefix = "WW"

// GenerateAlertID returns a unique local alert identifier. Server-assigned
// IDs always win; this is only used for offline-fabricated alerts.
func GenerateAlertID() string {
	return fmt.Sprintf("%s-%d", generateAlertIDPrefix, time.Now().UnixNano())
}

// TriggerPayload is the request body for creating an alert, built by the
// alert service from a detection plus caller overrides.
type TriggerPayload struct {
	DetectionID string          `json:"detection_id"`
	Type        Type            `json:"type"`
	Severity    Severity        `json:"severity"`
	Source      Source          `json:"source"`
	Notes       string          `json:"notes"`
	Location    TriggerLocation `json:"location"`
	CreatedBy   string          `json:"createdBy"`
}

// TriggerLocation is the location block of a TriggerPayload.
type TriggerLocation struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	ZoneLabel *string `json:"zoneLabel"`
}

// Overrides carries optional caller-supplied values for TriggerAlert.
// Any non-zero field wins over the derived value.
type Overrides struct {
	Type      Type
	Severity  Severity
	Source    Source
	Notes     string
	ZoneLabel *string
	CreatedBy string
}

// StatusUpdate describes a status transition request for an alert.
type StatusUpdate struct {
	Status         Status  `json:"status"`
	RangerAssigned *string `json:"rangerAssigned,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

// RangerPosition is a read-only snapshot of a ranger's last known
// position, served when the ranger positions feature is enabled.
type RangerPosition struct {
	ID          string    `json:"id"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	LastUpdated time.Time `json:"lastUpdated"`
}
