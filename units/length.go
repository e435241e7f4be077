package units

// LengthUnit identifies a length unit.
type LengthUnit int

const (
	Meters LengthUnit = iota
	Kilometers
	Feet
	NauticalMiles
)

// Conversion factors to meters.
const (
	metersPerKilometer    = 1000.0
	metersPerFoot         = 0.3048
	metersPerNauticalMile = 1852.0
)

// Length is a distance with an associated unit.
type Length struct {
	value float64
	unit  LengthUnit
}

// NewLength returns a length of the given value and unit.
func NewLength(value float64, unit LengthUnit) Length {
	return Length{value: value, unit: unit}
}

// NewMeters returns a length in meters.
func NewMeters(value float64) Length {
	return Length{value: value, unit: Meters}
}

// Value returns the numeric value in the length's own unit.
func (l Length) Value() float64 { return l.value }

// Unit returns the length's unit.
func (l Length) Unit() LengthUnit { return l.unit }

func metersPer(u LengthUnit) float64 {
	switch u {
	case Kilometers:
		return metersPerKilometer
	case Feet:
		return metersPerFoot
	case NauticalMiles:
		return metersPerNauticalMile
	default:
		return 1
	}
}

// As converts the length to the given unit.
func (l Length) As(unit LengthUnit) Length {
	if unit == l.unit {
		return l
	}
	m := l.value * metersPer(l.unit)
	return Length{value: m / metersPer(unit), unit: unit}
}

// Meters returns the length's value in meters.
func (l Length) Meters() float64 { return l.As(Meters).value }
