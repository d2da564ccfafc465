package geo

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Helpers for walking the untyped tree produced by encoding/json.

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

func asArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// asPosition decodes a two element array of numbers. Arrays with an altitude
// or any other arity are rejected.
func asPosition(v any) (orb.Point, bool) {
	a, ok := asArray(v)
	if !ok || len(a) != 2 {
		return orb.Point{}, false
	}
	lng, ok := asNumber(a[0])
	if !ok {
		return orb.Point{}, false
	}
	lat, ok := asNumber(a[1])
	if !ok {
		return orb.Point{}, false
	}
	return orb.Point{lng, lat}, true
}

// coordinates returns the "coordinates" member of a geometry object.
func coordinates(v any) (any, bool) {
	obj, ok := asObject(v)
	if !ok {
		return nil, false
	}
	c, ok := obj["coordinates"]
	return c, ok
}

// truthy mirrors the loose presence check upstream producers rely on:
// null, false, 0, NaN and "" count as absent.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	default:
		if n, ok := asNumber(v); ok {
			return n != 0 && !math.IsNaN(n)
		}
		return true
	}
}

// describe renders a tree value for an error message.
func describe(v any) string {
	switch t := v.(type) {
	case nil:
		return "undefined"
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
