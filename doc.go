// Package meridian is a navigation-data toolkit. The repository bundles
// libraries for angular and speed units (units), astronomical and GPS
// time (julian), geodesy and map projections (carto), NMEA 0183 and SiRF
// receiver protocols (nmea0183, sirf), an InfluxDB v1 client (influx)
// and descriptive statistics (stats), together with the bundle-manifest
// model (manifest) that describes which of them a downstream build pulls
// in. The bundle.yml at the repository root is the toolkit's own
// manifest; cmd/describe reports on manifests and cmd/navd is the GPS
// daemon built from the toolkit.
package meridian
