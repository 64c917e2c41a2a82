package alert

// Confidence thresholds for severity derivation. Threat classes escalate
// at a lower bar than wildlife sightings because a missed poacher costs
// more than a false dispatch.
const (
	threatCriticalConfidence   = 0.85
	sightingElevatedConfidence = 0.90
)

// DeriveType maps a detection class to an alert type. Unrecognized
// classes derive TypeUnknownThreat.
func DeriveType(className string) Type {
	switch className {
	case ClassPoacher:
		return TypePoacherDetected
	case ClassVehicle:
		return TypeVehicleIntrusion
	case ClassRhino:
		return TypeRhinoSighting
	case ClassElephant:
		return TypeElephantSighting
	default:
		return TypeUnknownThreat
	}
}

// DeriveSeverity maps a detection's class and confidence to a severity.
// Threat classes rank higher than sightings at equal confidence, and
// higher confidence never lowers the result. Ambiguous inputs derive
// SeverityMedium.
func DeriveSeverity(d *Detection) Severity {
	if d == nil {
		return SeverityMedium
	}

	switch d.ClassName {
	case ClassPoacher:
		if d.Confidence >= threatCriticalConfidence {
			return SeverityCritical
		}
		return SeverityHigh
	case ClassVehicle:
		if d.Confidence >= threatCriticalConfidence {
			return SeverityHigh
		}
		return SeverityMedium
	case ClassRhino, ClassElephant:
		if d.Confidence >= sightingElevatedConfidence {
			return SeverityHigh
		}
		return SeverityMedium
	default:
		return SeverityMedium
	}
}

// DeriveSource returns the provenance for an alert created from a
// detection. Detections only arrive from camera traps today; callers
// override this for manual or sensor escalations.
func DeriveSource(d *Detection) Source {
	return SourceCameraTrap
}
