package geo

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"
)

// ValidateAndFix validates value as a GeoJSON FeatureCollection restricted to
// Point, LineString and Polygon geometries. Features that cannot be salvaged
// are dropped with an indexed error; swapped positions are repaired and
// reported as warnings. When context is not empty every message is prefixed
// with "[context] ".
//
// value is normally the tree produced by json.Unmarshal into an interface.
// Values implementing json.Marshaler (json.RawMessage, *geojson.FeatureCollection)
// are converted to that tree first, so a previous result can be fed back in.
func ValidateAndFix(value any, context string) ValidationResult {
	r := &report{context: context}

	if fc, ok := value.(*geojson.FeatureCollection); ok && fc == nil {
		return r.invalid("GeoJSON is not an object")
	}
	if m, ok := value.(json.Marshaler); ok {
		tree, err := toTree(m)
		if err != nil {
			return r.invalid("GeoJSON is not an object")
		}
		value = tree
	}

	obj, ok := asObject(value)
	if !ok {
		return r.invalid("GeoJSON is not an object")
	}
	if t, _ := obj["type"].(string); t != "FeatureCollection" {
		return r.invalid("Invalid GeoJSON type: expected FeatureCollection, got " + describe(obj["type"]))
	}
	features, ok := asArray(obj["features"])
	if !ok {
		return r.invalid("features must be an array")
	}

	fc := geojson.NewFeatureCollection()
	for i, raw := range features {
		if f := validateFeature(r, i, raw); f != nil {
			fc.Append(f)
		}
	}

	if len(features) > 0 && len(fc.Features) == 0 {
		return r.invalid("All features are invalid")
	}
	return r.result(fc)
}

// validateFeature returns the cleaned feature at index i, or nil after
// recording why it was dropped.
func validateFeature(r *report, i int, raw any) *geojson.Feature {
	obj, ok := asObject(raw)
	if !ok {
		r.fail(fmt.Sprintf("Feature %d is not an object", i))
		return nil
	}
	if t, _ := obj["type"].(string); t != "Feature" {
		r.fail(fmt.Sprintf("Feature %d has invalid type: %s", i, describe(obj["type"])))
		return nil
	}
	if !truthy(obj["geometry"]) {
		r.fail(fmt.Sprintf("Feature %d missing geometry", i))
		return nil
	}

	g, warnings, ok := validateGeometry(obj["geometry"])
	if !ok {
		r.fail(fmt.Sprintf("Feature %d has invalid geometry", i))
		return nil
	}
	for _, w := range warnings {
		r.warn(fmt.Sprintf("Feature %d: %s", i, w))
	}

	f := geojson.NewFeature(g)
	if props, ok := asObject(obj["properties"]); ok {
		f.Properties = geojson.Properties(props)
	}
	return f
}

// ValidateJSON decodes data and validates it with ValidateAndFix. A bare JSON
// array of features is wrapped into a FeatureCollection first, since some
// sources publish features without the enclosing object.
func ValidateJSON(data []byte, context string) ValidationResult {
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		r := &report{context: context}
		return r.invalid("invalid JSON: " + err.Error())
	}
	if list, ok := asArray(tree); ok {
		tree = WrapFeatures(list)
	}
	return ValidateAndFix(tree, context)
}

// WrapFeatures builds a FeatureCollection tree around a bare feature list.
func WrapFeatures(features []any) map[string]any {
	return map[string]any{
		"type":     "FeatureCollection",
		"features": features,
	}
}

func toTree(m json.Marshaler) (any, error) {
	data, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}
