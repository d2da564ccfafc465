package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestIsWithinRegion(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng float64
		expects  bool
	}{
		{"sofia", 42.7, 23.32, true},
		{"varna", 43.21, 27.91, true},
		{"south west corner", 41.235, 22.357, true},
		{"north east corner", 44.215, 28.609, true},
		{"axes transposed", 23.32, 42.7, false},
		{"belgrade", 44.82, 20.46, false},
		{"origin", 0, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expects, IsWithinRegion(tc.lat, tc.lng))
		})
	}
}

func TestIsValidGlobalCoordinate(t *testing.T) {
	cases := []struct {
		name     string
		lng, lat float64
		expects  bool
	}{
		{"sofia", 23.32, 42.7, true},
		{"limits", -180, 90, true},
		{"other limits", 180, -90, true},
		{"longitude too large", 200, 42.7, false},
		{"latitude too small", 23.32, -90.5, false},
		{"nan", math.NaN(), 42.7, false},
		{"infinity", 23.32, math.Inf(1), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expects, IsValidGlobalCoordinate(tc.lng, tc.lat))
		})
	}
}

func TestServiceRegionIsACopy(t *testing.T) {
	r := ServiceRegion()
	r.North = 0
	assert.True(t, IsWithinRegion(44, 25))
	assert.NotEqual(t, r, ServiceRegion())
}

func TestDetectSwap(t *testing.T) {
	cases := []struct {
		name     string
		lng, lat float64
		expects  bool
	}{
		{"correct order inside region", 23.32, 42.7, false},
		{"transposed sofia", 42.7, 23.32, true},
		{"transposed varna", 43.21, 27.91, true},
		{"outside region both ways", 2.35, 48.85, false},
		{"first value not a latitude", 200, 42.7, false},
		{"second value not a longitude", 42.7, 190, false},
		{"nan", math.NaN(), 23.32, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expects, DetectSwap(tc.lng, tc.lat))
		})
	}
}

func TestFixSwap(t *testing.T) {
	p := orb.Point{42.7, 23.32}
	assert.Equal(t, orb.Point{23.32, 42.7}, FixSwap(p))
	assert.Equal(t, p, FixSwap(FixSwap(p)))
}

func TestSwapCorrectionReachesFixedPoint(t *testing.T) {
	r := ServiceRegion()
	for lat := r.South; lat <= r.North; lat += 0.25 {
		for lng := r.West; lng <= r.East; lng += 0.25 {
			if !DetectSwap(lat, lng) {
				continue
			}
			fixed := FixSwap(orb.Point{lat, lng})
			assert.Equal(t, orb.Point{lng, lat}, fixed)
			assert.False(t, DetectSwap(fixed[0], fixed[1]), "lat=%v lng=%v", lat, lng)
		}
	}
}
