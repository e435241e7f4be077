package units

// Speed unit constants. Stored speeds are always meters per second; these
// name the display conversions.
const (
	MPS   = "mps"
	MPH   = "mph"
	KMPH  = "kmph"
	KPH   = "kph"
	Knots = "knots"
)

// ValidSpeedUnits contains all accepted speed unit values.
var ValidSpeedUnits = []string{MPS, MPH, KMPH, KPH, Knots}

// Conversion factors from meters per second.
const (
	mpsToMPH   = 2.2369362920544
	mpsToKMPH  = 3.6
	mpsToKnots = 1.9438444924406
)

// IsValidSpeedUnit checks if the given unit is in the list of valid units.
func IsValidSpeedUnit(unit string) bool {
	for _, valid := range ValidSpeedUnits {
		if unit == valid {
			return true
		}
	}
	return false
}

// ConvertSpeed converts a speed from meters per second to the target units.
// Unknown units fall back to meters per second.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPH:
		return speedMPS * mpsToMPH
	case KMPH, KPH:
		return speedMPS * mpsToKMPH
	case Knots:
		return speedMPS * mpsToKnots
	default:
		return speedMPS
	}
}

// ConvertToMPS converts a speed in the given units to meters per second.
// Unknown units are assumed to already be meters per second.
func ConvertToMPS(speed float64, sourceUnits string) float64 {
	switch sourceUnits {
	case MPH:
		return speed / mpsToMPH
	case KMPH, KPH:
		return speed / mpsToKMPH
	case Knots:
		return speed / mpsToKnots
	default:
		return speed
	}
}
