package geo

import "github.com/paulmach/orb"

// DetectSwap reports whether the GeoJSON pair (lng, lat) is more likely a
// (lat, lng) pair written in the wrong order.
//
// The check is anchored to the service region: it only fires when the pair is
// outside the region as given and inside it once transposed. Positions that
// truly lie outside the region but whose transposition lands inside it are
// "corrected" as well; callers collecting data for other areas must not rely
// on this heuristic.
func DetectSwap(lng, lat float64) bool {
	if !isFinite(lng) || !isFinite(lat) {
		return false
	}
	// the first value has to be usable as a latitude and the second as a longitude
	if lng < -90 || lng > 90 || lat < -180 || lat > 180 {
		return false
	}
	return !IsWithinRegion(lat, lng) && IsWithinRegion(lng, lat)
}

// FixSwap exchanges the two axes of p. FixSwap(FixSwap(p)) == p.
func FixSwap(p orb.Point) orb.Point {
	return orb.Point{p[1], p[0]}
}

// correct applies swap detection and the global bounds check to a single
// position. swapped reports whether the axes were exchanged, ok whether the
// resulting position is usable.
func correct(p orb.Point) (fixed orb.Point, swapped, ok bool) {
	if DetectSwap(p[0], p[1]) {
		p = FixSwap(p)
		swapped = true
	}
	if !IsValidGlobalCoordinate(p[0], p[1]) {
		return orb.Point{}, swapped, false
	}
	return p, swapped, true
}
