package geo

import (
	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"
)

// ValidationResult is the outcome of one validation call. Collection is only
// set when Valid is true. FixedCoordinates is true iff Warnings is non-empty.
type ValidationResult struct {
	Valid            bool                       `json:"isValid"`
	Collection       *geojson.FeatureCollection `json:"collection,omitempty"`
	Warnings         []string                   `json:"warnings"`
	Errors           []string                   `json:"errors"`
	FixedCoordinates bool                       `json:"fixedCoordinates"`
}

// MarshalCollection serializes the cleaned collection for storage.
func (r ValidationResult) MarshalCollection() (string, error) {
	if !r.Valid || r.Collection == nil {
		return "", eris.New("geo: result holds no valid collection")
	}
	data, err := r.Collection.MarshalJSON()
	if err != nil {
		return "", eris.Wrap(err, "geo: marshal collection")
	}
	return string(data), nil
}

// report accumulates messages for a single validation call.
type report struct {
	context  string
	warnings []string
	errors   []string
}

func (r *report) prefix(msg string) string {
	if r.context == "" {
		return msg
	}
	return "[" + r.context + "] " + msg
}

func (r *report) warn(msg string) {
	r.warnings = append(r.warnings, r.prefix(msg))
}

func (r *report) fail(msg string) {
	r.errors = append(r.errors, r.prefix(msg))
}

func (r *report) result(fc *geojson.FeatureCollection) ValidationResult {
	res := ValidationResult{
		Valid:            fc != nil,
		Collection:       fc,
		Warnings:         make([]string, 0, len(r.warnings)),
		Errors:           make([]string, 0, len(r.errors)),
		FixedCoordinates: len(r.warnings) > 0,
	}
	res.Warnings = append(res.Warnings, r.warnings...)
	res.Errors = append(res.Errors, r.errors...)
	return res
}

// invalid records msg and returns a result without a collection.
func (r *report) invalid(msg string) ValidationResult {
	r.fail(msg)
	return r.result(nil)
}
