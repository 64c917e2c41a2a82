package alert

import "time"

// Documented defaults applied by Normalize when a raw record carries no
// value under either naming convention.
const (
	DefaultSource    = SourceCameraTrap
	DefaultType      = TypeUnknownThreat
	DefaultSeverity  = SeverityMedium
	DefaultStatus    = StatusSent
	DefaultCreatedBy = "Unknown"
)

// Normalize converts a raw alert from any source into the canonical
// Alert. It never fails: required fields fall back to the documented
// defaults, nullable fields stay nil when absent. For aliased fields the
// snake_case form wins over camelCase.
//
// Normalize is idempotent: feeding a canonical alert's wire form back in
// yields an observationally equal alert.
func Normalize(raw *RawAlert) Alert {
	if raw == nil {
		raw = &RawAlert{}
	}

	now := time.Now().UTC()

	a := Alert{
		ID:          firstNonEmpty(raw.ID, raw.AlertID),
		DetectionID: firstNonEmpty(raw.DetectionID, raw.DetectionIDAlt),
		Source:      Source(firstNonEmpty(raw.Source, string(DefaultSource))),
		Type:        Type(firstNonEmpty(raw.Type, string(DefaultType))),
		Severity:    Severity(firstNonEmpty(raw.Severity, string(DefaultSeverity))),
		Status:      Status(firstNonEmpty(raw.Status, string(DefaultStatus))),
		Location:    normalizeLocation(raw),
		CreatedBy:   firstNonEmpty(raw.CreatedBy, raw.CreatedByAlt, DefaultCreatedBy),
		Notes:       raw.Notes,

		AcknowledgedAt: firstTime(raw.AcknowledgedAt, raw.AcknowledgedAtAlt),
		InProgressAt:   firstTime(raw.InProgressAt, raw.InProgressAtAlt),
		ResolvedAt:     firstTime(raw.ResolvedAt, raw.ResolvedAtAlt),
		RangerAssigned: firstString(raw.RangerAssigned, raw.RangerAssignedAlt),
	}

	if a.ID == "" {
		a.ID = GenerateAlertID()
	}

	if t := firstTime(raw.CreatedAt, raw.CreatedAtAlt); t != nil {
		a.CreatedAt = *t
	} else {
		a.CreatedAt = now
	}
	if t := firstTime(raw.UpdatedAt, raw.UpdatedAtAlt); t != nil {
		a.UpdatedAt = *t
	} else {
		a.UpdatedAt = a.CreatedAt
	}
	// updatedAt >= createdAt holds for every normalized alert
	if a.UpdatedAt.Before(a.CreatedAt) {
		a.UpdatedAt = a.CreatedAt
	}

	a.DeliveryChannelStatus = raw.DeliveryChannelStatus
	if a.DeliveryChannelStatus == nil {
		a.DeliveryChannelStatus = raw.DeliveryChannelStatusAlt
	}
	if a.DeliveryChannelStatus == nil {
		a.DeliveryChannelStatus = []ChannelDelivery{}
	}

	return a
}

// NormalizeAll normalizes every record of a raw alert list, preserving order.
func NormalizeAll(raws RawAlertList) []Alert {
	alerts := make([]Alert, 0, len(raws))
	for _, raw := range raws {
		alerts = append(alerts, Normalize(raw))
	}
	return alerts
}

// normalizeLocation resolves the nested location block with top-level
// gps_lat/gps_lng and zone_label fallbacks.
func normalizeLocation(raw *RawAlert) Location {
	loc := Location{}

	if raw.Location != nil && raw.Location.Lat != nil {
		loc.Lat = *raw.Location.Lat
	} else if raw.GpsLat != nil {
		loc.Lat = *raw.GpsLat
	}

	if raw.Location != nil && raw.Location.Lng != nil {
		loc.Lng = *raw.Location.Lng
	} else if raw.GpsLng != nil {
		loc.Lng = *raw.GpsLng
	}

	if raw.Location != nil && raw.Location.ZoneLabel != nil {
		loc.ZoneLabel = raw.Location.ZoneLabel
	} else if raw.ZoneLabel != nil {
		loc.ZoneLabel = raw.ZoneLabel
	}

	return loc
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstTime(values ...*time.Time) *time.Time {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstString(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
