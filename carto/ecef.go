package carto

import (
	"math"

	"github.com/meridian-nav/meridian/units"
)

// ECEF is an earth-centered, earth-fixed cartesian position in meters.
// SiRF receivers report their navigation solution in this frame.
type ECEF struct {
	X float64
	Y float64
	Z float64
}

// ToLatLon converts the ECEF position to geodetic coordinates on the
// given ellipsoid, returning the height above the ellipsoid in meters.
// Uses Bowring's closed-form approximation, good to well under a meter
// for terrestrial positions.
func (e ECEF) ToLatLon(ell Ellipsoid) (LatLon, float64) {
	a := ell.SemiMajor.Meters()
	b := ell.SemiMinor().Meters()
	e2 := ell.FirstEccentricitySquared()
	ep2 := (a*a - b*b) / (b * b)

	p := math.Hypot(e.X, e.Y)
	lon := math.Atan2(e.Y, e.X)

	if p == 0 {
		// On the polar axis the longitude is arbitrary.
		lat := math.Pi / 2
		if e.Z < 0 {
			lat = -lat
		}
		h := math.Abs(e.Z) - b
		return LatLon{Latitude: units.NewRadians(lat), Longitude: units.NewRadians(0), Ellipsoid: ell}, h
	}

	theta := math.Atan2(e.Z*a, p*b)
	sinT, cosT := math.Sin(theta), math.Cos(theta)
	lat := math.Atan2(e.Z+ep2*b*sinT*sinT*sinT, p-e2*a*cosT*cosT*cosT)

	sinLat := math.Sin(lat)
	n := a / math.Sqrt(1-e2*sinLat*sinLat)
	h := p/math.Cos(lat) - n

	return LatLon{Latitude: units.NewRadians(lat), Longitude: units.NewRadians(lon), Ellipsoid: ell}, h
}

// ECEFFromLatLon converts geodetic coordinates and an ellipsoidal height
// in meters to an ECEF position.
func ECEFFromLatLon(ll LatLon, height float64) ECEF {
	ell := ll.Ellipsoid
	a := ell.SemiMajor.Meters()
	e2 := ell.FirstEccentricitySquared()

	lat := ll.Latitude.Radians()
	lon := ll.Longitude.Radians()
	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	n := a / math.Sqrt(1-e2*sinLat*sinLat)

	return ECEF{
		X: (n + height) * cosLat * math.Cos(lon),
		Y: (n + height) * cosLat * math.Sin(lon),
		Z: (n*(1-e2) + height) * sinLat,
	}
}
