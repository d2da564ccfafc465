// Package geo validates GeoJSON feature collections produced by the incident
// collectors and repairs positions whose latitude and longitude were stored in
// the wrong order.
//
// The input is always treated as untrusted: validators accept the untyped tree
// produced by encoding/json (maps, slices, numbers) and never assume its shape.
// Cleaned geometries are returned as orb values inside a geojson.FeatureCollection.
package geo

import "math"

// Region is a rectangular envelope in degrees.
type Region struct {
	South float64
	North float64
	West  float64
	East  float64
}

// Contains reports whether the position lies inside the envelope, edges included.
func (r Region) Contains(lat, lng float64) bool {
	return lat >= r.South && lat <= r.North && lng >= r.West && lng <= r.East
}

// serviceRegion is the envelope of Bulgaria, the only area incidents are
// collected for. It is read-only for the lifetime of the process.
var serviceRegion = Region{
	South: 41.235,
	North: 44.215,
	West:  22.357,
	East:  28.609,
}

// ServiceRegion returns a copy of the service area envelope.
func ServiceRegion() Region {
	return serviceRegion
}

// IsWithinRegion reports whether (lat, lng) falls inside the service area.
func IsWithinRegion(lat, lng float64) bool {
	return serviceRegion.Contains(lat, lng)
}

// IsValidGlobalCoordinate reports whether (lng, lat) is a finite WGS84 position.
func IsValidGlobalCoordinate(lng, lat float64) bool {
	if !isFinite(lng) || !isFinite(lat) {
		return false
	}
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
