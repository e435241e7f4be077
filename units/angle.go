// Package units provides the measurement types shared across the toolkit:
// planar angles, speeds, lengths and time-of-day values, with conversions
// between the common unit systems.
package units

import (
	"fmt"
	"math"
)

// AngleUnit identifies a planar angle unit.
type AngleUnit int

const (
	// Radians is the SI base unit for planar angle; tau radians per circle.
	Radians AngleUnit = iota
	// Degrees; 360 per circle.
	Degrees
	// ArcMinutes; 60 per degree.
	ArcMinutes
	// ArcSeconds; 60 per arc-minute.
	ArcSeconds
	// Revolutions; one full circuit of the circle.
	Revolutions
	// Mils is the NATO mil; 6400 per revolution.
	Mils
)

// Conversion factors between angle units.
const (
	DegPerRad = 57.29577951308232
	RadPerDeg = 0.017453292519943295
	DegPerRev = 360.0
	MinPerDeg = 60.0
	SecPerMin = 60.0
	SecPerDeg = MinPerDeg * SecPerMin
	MilPerRev = 6400.0
	MilPerDeg = MilPerRev / DegPerRev
)

// degreesPer returns how many degrees one unit of u spans.
func degreesPer(u AngleUnit) float64 {
	switch u {
	case Radians:
		return DegPerRad
	case ArcMinutes:
		return 1 / MinPerDeg
	case ArcSeconds:
		return 1 / SecPerDeg
	case Revolutions:
		return DegPerRev
	case Mils:
		return 1 / MilPerDeg
	default:
		return 1
	}
}

// Angle is a planar angle with an associated unit.
type Angle struct {
	value float64
	unit  AngleUnit
}

// NewAngle returns an angle of the given value and unit.
func NewAngle(value float64, unit AngleUnit) Angle {
	return Angle{value: value, unit: unit}
}

// NewDegrees returns an angle in degrees.
func NewDegrees(value float64) Angle {
	return Angle{value: value, unit: Degrees}
}

// NewRadians returns an angle in radians.
func NewRadians(value float64) Angle {
	return Angle{value: value, unit: Radians}
}

// NewDMS builds an angle from degree, arc-minute and arc-second components.
// The sign of the degrees component carries to the minutes and seconds.
func NewDMS(degrees int, minutes int, seconds float64) Angle {
	mult := 1.0
	if degrees < 0 {
		mult = -1.0
	}
	value := float64(degrees) + mult*float64(minutes)/MinPerDeg + mult*seconds/SecPerDeg
	return NewDegrees(value)
}

// Value returns the numeric value in the angle's own unit.
func (a Angle) Value() float64 { return a.value }

// Unit returns the angle's unit.
func (a Angle) Unit() AngleUnit { return a.unit }

// As converts the angle to the given unit.
func (a Angle) As(unit AngleUnit) Angle {
	if unit == a.unit {
		return a
	}
	deg := a.value * degreesPer(a.unit)
	return Angle{value: deg / degreesPer(unit), unit: unit}
}

// Degrees returns the angle's value in degrees.
func (a Angle) Degrees() float64 { return a.As(Degrees).value }

// Radians returns the angle's value in radians.
func (a Angle) Radians() float64 { return a.As(Radians).value }

// DegMin decomposes the angle into whole degrees and decimal minutes. The
// sign is carried on the degrees component.
func (a Angle) DegMin() (degrees int, minutes float64) {
	val := a.Degrees()
	sign := 1
	if math.Signbit(val) {
		sign = -1
		val = -val
	}
	degrees = int(val)
	minutes = (val - float64(degrees)) * MinPerDeg
	return degrees * sign, minutes
}

// DMS decomposes the angle into degree, arc-minute and arc-second
// components. The sign is carried on the degrees component.
func (a Angle) DMS() (degrees, minutes int, seconds float64) {
	degrees, min := a.DegMin()
	minutes = int(min)
	seconds = (min - float64(minutes)) * SecPerMin
	return degrees, minutes, seconds
}

// String formats the angle in decimal degrees with a degree sign.
func (a Angle) String() string {
	return fmt.Sprintf("%03.3f°", a.Degrees())
}
