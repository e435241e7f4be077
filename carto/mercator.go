package carto

import (
	"math"

	"github.com/meridian-nav/meridian/units"
)

// MaxMercatorLatitude is the latitude bound of the spherical mercator
// projection; beyond it tile Y diverges.
const MaxMercatorLatitude = 85.05112877980659

// tileToPixel converts fractional tile units to EPSG:3857 pixels at 256px
// tiles.
const tileToPixel = 40.74366543152521

// SphericalMercator is the EPSG:3857 web-mercator tiling projection at a
// fixed zoom level.
type SphericalMercator struct {
	zoom uint8
}

// NewSphericalMercator returns the projection for the given zoom level.
func NewSphericalMercator(zoom uint8) SphericalMercator {
	return SphericalMercator{zoom: zoom}
}

// Zoom returns the projection's zoom level.
func (p SphericalMercator) Zoom() uint8 { return p.zoom }

// tiles returns the number of tiles along one axis at this zoom.
func (p SphericalMercator) tiles() float64 {
	return float64(uint64(1) << p.zoom)
}

// TileX returns the fractional tile X index of the coordinate.
func (p SphericalMercator) TileX(c LatLon) float64 {
	lonDeg := c.Longitude.Degrees()
	return (lonDeg + 180) / 360 * p.tiles()
}

// TileY returns the fractional tile Y index of the coordinate.
func (p SphericalMercator) TileY(c LatLon) float64 {
	latRad := c.Latitude.Radians()
	offset := (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2
	return offset * p.tiles()
}

// Latitude returns the latitude of a fractional tile Y index.
func (p SphericalMercator) Latitude(tileY float64) units.Angle {
	offset := 1 - (2*tileY)/p.tiles()
	return units.NewRadians(math.Atan(math.Sinh(math.Pi * offset)))
}

// Longitude returns the longitude of a fractional tile X index.
func (p SphericalMercator) Longitude(tileX float64) units.Angle {
	offset := tileX / p.tiles()
	return units.NewRadians(offset*2*math.Pi - math.Pi)
}

// ToPixels projects the coordinate into pixel space at this zoom level.
func (p SphericalMercator) ToPixels(c LatLon) (x, y float64) {
	return p.TileX(c) * tileToPixel, p.TileY(c) * tileToPixel
}

// FromPixels inverts ToPixels back to a WGS84 coordinate.
func (p SphericalMercator) FromPixels(x, y float64) LatLon {
	lat := p.Latitude(y / tileToPixel)
	lon := p.Longitude(x / tileToPixel)
	return LatLon{Latitude: lat, Longitude: lon, Ellipsoid: WGS84}
}
