// Package carto provides geodetic primitives: reference ellipsoids,
// elliptical coordinates, dilution-of-precision values and the spherical
// (web) mercator projection.
package carto

import "github.com/meridian-nav/meridian/units"

// Ellipsoid is a reference ellipsoid described by its semi-major axis and
// inverse flattening.
type Ellipsoid struct {
	Name              string
	SemiMajor         units.Length
	InverseFlattening float64
}

// WGS84 is the World Geodetic System 1984 ellipsoid used by GPS.
var WGS84 = Ellipsoid{
	Name:              "WGS84",
	SemiMajor:         units.NewMeters(6378137.0),
	InverseFlattening: 298.257223563,
}

// GRS80 is the ITRS GRS80 ellipsoid ca. 1979.
var GRS80 = Ellipsoid{
	Name:              "GRS80",
	SemiMajor:         units.NewMeters(6378137.0),
	InverseFlattening: 298.257222101,
}

// Flattening returns the flattening f = 1 / InverseFlattening.
func (e Ellipsoid) Flattening() float64 {
	return 1 / e.InverseFlattening
}

// SemiMinor returns the semi-minor axis b = a(1-f).
func (e Ellipsoid) SemiMinor() units.Length {
	return units.NewMeters(e.SemiMajor.Meters() * (1 - e.Flattening()))
}

// FirstEccentricitySquared returns e² = f(2-f).
func (e Ellipsoid) FirstEccentricitySquared() float64 {
	f := e.Flattening()
	return f * (2 - f)
}
