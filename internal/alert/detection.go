package alert

import "time"

// Detection is a single camera-trap inference result. Detections are
// produced externally and immutable once received; alerting only holds a
// back-reference via Alert.DetectionID.
type Detection struct {
	ID         string    `json:"id"`
	ClassName  string    `json:"class_name"`
	Confidence float64   `json:"confidence"`
	GpsLat     float64   `json:"gps_lat"`
	GpsLng     float64   `json:"gps_lng"`
	Timestamp  time.Time `json:"timestamp"`
}

// Detection class labels the inference model emits. Anything outside
// this set derives TypeUnknownThreat.
const (
	ClassRhino    = "rhino"
	ClassElephant = "elephant"
	ClassPoacher  = "poacher"
	ClassVehicle  = "vehicle"
	ClassUnknown  = "unknown"
)

// IsThreatClass reports whether a detection class represents a human
// threat rather than a wildlife sighting.
func IsThreatClass(className string) bool {
	switch className {
	case ClassPoacher, ClassVehicle:
		return true
	default:
		return false
	}
}
