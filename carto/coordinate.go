package carto

import (
	"fmt"

	"github.com/meridian-nav/meridian/units"
)

// LatLon is an elliptical coordinate: a latitude and longitude relative to
// a reference ellipsoid.
type LatLon struct {
	Latitude  units.Angle
	Longitude units.Angle
	Ellipsoid Ellipsoid
}

// NewLatLon builds a WGS84 coordinate from decimal degrees.
func NewLatLon(latDeg, lonDeg float64) LatLon {
	return LatLon{
		Latitude:  units.NewDegrees(latDeg),
		Longitude: units.NewDegrees(lonDeg),
		Ellipsoid: WGS84,
	}
}

// Valid reports whether the coordinate is within the normal latitude and
// longitude ranges.
func (c LatLon) Valid() bool {
	lat := c.Latitude.Degrees()
	lon := c.Longitude.Degrees()
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// String formats the coordinate as "lat, lon" in decimal degrees.
func (c LatLon) String() string {
	return fmt.Sprintf("%.6f, %.6f", c.Latitude.Degrees(), c.Longitude.Degrees())
}
