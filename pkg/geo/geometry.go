package geo

import (
	"fmt"

	"github.com/paulmach/orb"
)

// GeometryType names the geometry kinds accepted by the validator.
type GeometryType string

const (
	TypePoint      GeometryType = "Point"
	TypeLineString GeometryType = "LineString"
	TypePolygon    GeometryType = "Polygon"
)

// validator checks one geometry object and returns the cleaned geometry
// together with the warnings produced while repairing it. ok is false when
// the geometry has to be dropped.
type validator func(v any) (g orb.Geometry, warnings []string, ok bool)

// validators is the closed set of supported geometries. GeometryCollection
// and the Multi* types are rejected on purpose.
var validators = map[GeometryType]validator{
	TypePoint: func(v any) (orb.Geometry, []string, bool) {
		return ValidatePoint(v)
	},
	TypeLineString: func(v any) (orb.Geometry, []string, bool) {
		return ValidateLineString(v)
	},
	TypePolygon: func(v any) (orb.Geometry, []string, bool) {
		return ValidatePolygon(v)
	},
}

// validateGeometry dispatches on the "type" member of a geometry object.
func validateGeometry(v any) (orb.Geometry, []string, bool) {
	obj, ok := asObject(v)
	if !ok {
		return nil, nil, false
	}
	name, ok := obj["type"].(string)
	if !ok {
		return nil, nil, false
	}
	check, ok := validators[GeometryType(name)]
	if !ok {
		return nil, nil, false
	}
	return check(obj)
}

// ValidatePoint validates a Point geometry object.
func ValidatePoint(v any) (orb.Point, []string, bool) {
	raw, ok := coordinates(v)
	if !ok {
		return orb.Point{}, nil, false
	}
	p, ok := asPosition(raw)
	if !ok {
		return orb.Point{}, nil, false
	}

	var warnings []string
	fixed, swapped, ok := correct(p)
	if swapped {
		warnings = append(warnings, fmt.Sprintf(
			"Point coordinates swapped from [%v, %v] to [%v, %v]", p[0], p[1], p[1], p[0]))
	}
	if !ok {
		return orb.Point{}, nil, false
	}
	return fixed, warnings, true
}

// ValidateLineString validates a LineString geometry object. A single
// position outside global bounds invalidates the whole line.
func ValidateLineString(v any) (orb.LineString, []string, bool) {
	raw, ok := coordinates(v)
	if !ok {
		return nil, nil, false
	}
	list, ok := asArray(raw)
	if !ok || len(list) < 2 {
		return nil, nil, false
	}

	line, swapped, ok := correctPositions(list)
	if !ok {
		return nil, nil, false
	}

	var warnings []string
	if swapped > 0 {
		warnings = append(warnings, fmt.Sprintf("LineString: fixed %d swapped coordinates", swapped))
	}
	return orb.LineString(line), warnings, true
}

// ValidatePolygon validates a Polygon geometry object. Every ring needs at
// least four positions and must end where it starts once swaps are fixed.
func ValidatePolygon(v any) (orb.Polygon, []string, bool) {
	raw, ok := coordinates(v)
	if !ok {
		return nil, nil, false
	}
	rings, ok := asArray(raw)
	if !ok || len(rings) == 0 {
		return nil, nil, false
	}

	poly := make(orb.Polygon, 0, len(rings))
	total := 0
	for _, r := range rings {
		list, ok := asArray(r)
		if !ok || len(list) < 4 {
			return nil, nil, false
		}
		ring, swapped, ok := correctPositions(list)
		if !ok {
			return nil, nil, false
		}
		if ring[0] != ring[len(ring)-1] {
			return nil, nil, false
		}
		total += swapped
		poly = append(poly, orb.Ring(ring))
	}

	var warnings []string
	if total > 0 {
		warnings = append(warnings, fmt.Sprintf("Polygon: fixed %d swapped coordinates", total))
	}
	return poly, warnings, true
}

// correctPositions decodes and corrects a list of positions in order. It
// fails on the first malformed or out of bounds position.
func correctPositions(list []any) ([]orb.Point, int, bool) {
	out := make([]orb.Point, 0, len(list))
	swaps := 0
	for _, item := range list {
		p, ok := asPosition(item)
		if !ok {
			return nil, 0, false
		}
		fixed, swapped, ok := correct(p)
		if !ok {
			return nil, 0, false
		}
		if swapped {
			swaps++
		}
		out = append(out, fixed)
	}
	return out, swaps, true
}
