package alert

import (
	"encoding/json"
	"time"
)

// RawAlert is the wire shape of an alert as served by either data source.
// The live backend emits snake_case field names while locally fabricated
// records and older mock snapshots use camelCase; both conventions are
// enumerated here explicitly so the normalizer resolves aliases by field,
// never by runtime property probing. For every pair the snake_case form
// takes precedence.
type RawAlert struct {
	ID      string `json:"id,omitempty"`
	AlertID string `json:"alert_id,omitempty"`

	DetectionID    string `json:"detection_id,omitempty"`
	DetectionIDAlt string `json:"detectionId,omitempty"`

	Source   string `json:"source,omitempty"`
	Type     string `json:"type,omitempty"`
	Severity string `json:"severity,omitempty"`
	Status   string `json:"status,omitempty"`

	Location *RawLocation `json:"location,omitempty"`
	GpsLat   *float64     `json:"gps_lat,omitempty"`
	GpsLng   *float64     `json:"gps_lng,omitempty"`
	// zone_label appears at the top level in some backend responses,
	// inside location in others
	ZoneLabel *string `json:"zone_label,omitempty"`

	CreatedAt    *time.Time `json:"created_at,omitempty"`
	CreatedAtAlt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	UpdatedAtAlt *time.Time `json:"updatedAt,omitempty"`

	CreatedBy    string `json:"created_by,omitempty"`
	CreatedByAlt string `json:"createdBy,omitempty"`

	Notes string `json:"notes,omitempty"`

	DeliveryChannelStatus    []ChannelDelivery `json:"delivery_channel_status,omitempty"`
	DeliveryChannelStatusAlt []ChannelDelivery `json:"deliveryChannelStatus,omitempty"`

	AcknowledgedAt    *time.Time `json:"acknowledged_at,omitempty"`
	AcknowledgedAtAlt *time.Time `json:"acknowledgedAt,omitempty"`
	InProgressAt      *time.Time `json:"in_progress_at,omitempty"`
	InProgressAtAlt   *time.Time `json:"inProgressAt,omitempty"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
	ResolvedAtAlt     *time.Time `json:"resolvedAt,omitempty"`

	RangerAssigned    *string `json:"ranger_assigned,omitempty"`
	RangerAssignedAlt *string `json:"rangerAssigned,omitempty"`
}

// RawLocation is the nested location block of a RawAlert.
type RawLocation struct {
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
	ZoneLabel *string  `json:"zoneLabel,omitempty"`
}

// RawRangerPosition is the wire shape of a ranger position snapshot.
type RawRangerPosition struct {
	ID             string     `json:"id"`
	Lat            float64    `json:"lat"`
	Lng            float64    `json:"lng"`
	LastUpdated    *time.Time `json:"last_updated,omitempty"`
	LastUpdatedAlt *time.Time `json:"lastUpdated,omitempty"`
}

// Position resolves the raw shape into a RangerPosition.
func (r *RawRangerPosition) Position() RangerPosition {
	p := RangerPosition{ID: r.ID, Lat: r.Lat, Lng: r.Lng}
	switch {
	case r.LastUpdated != nil:
		p.LastUpdated = *r.LastUpdated
	case r.LastUpdatedAlt != nil:
		p.LastUpdated = *r.LastUpdatedAlt
	}
	return p
}

// The backend wraps list responses in an envelope ({"alerts": [...]})
// in current deployments but returned bare arrays historically. These
// list types accept both.

// RawAlertList decodes either {"alerts": [...]} or a bare array.
type RawAlertList []*RawAlert

// UnmarshalJSON implements tolerant envelope decoding for alert lists.
func (l *RawAlertList) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Alerts []*RawAlert `json:"alerts"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		// nil when the envelope carried no alerts key; callers treat nil as empty
		*l = envelope.Alerts
		return nil
	}

	var bare []*RawAlert
	if err := json.Unmarshal(data, &bare); err != nil {
		return err
	}
	*l = bare
	return nil
}

// DetectionList decodes either {"detections": [...]} or a bare array.
type DetectionList []Detection

// UnmarshalJSON implements tolerant envelope decoding for detection lists.
func (l *DetectionList) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Detections []Detection `json:"detections"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		*l = envelope.Detections
		return nil
	}

	var bare []Detection
	if err := json.Unmarshal(data, &bare); err != nil {
		return err
	}
	*l = bare
	return nil
}

// RangerPositionList decodes either {"rangers": [...]} or a bare array.
type RangerPositionList []RawRangerPosition

// UnmarshalJSON implements tolerant envelope decoding for ranger lists.
func (l *RangerPositionList) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Rangers []RawRangerPosition `json:"rangers"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		*l = envelope.Rangers
		return nil
	}

	var bare []RawRangerPosition
	if err := json.Unmarshal(data, &bare); err != nil {
		return err
	}
	*l = bare
	return nil
}
