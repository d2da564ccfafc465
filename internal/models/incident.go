package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Kind is the category of disruption an incident describes.
type Kind string

const (
	KindPower   Kind = "power"
	KindHeating Kind = "heating"
	KindRoad    Kind = "road"
)

// Incident is the document collectors publish and the store keeps, keyed by ID.
type Incident struct {
	// ID is the upstream URL or identifier of the incident.
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	Body        string    `json:"body,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitzero"`
	ScrapedAt   time.Time `json:"scrapedAt"`

	// Geometry is the candidate GeoJSON as scraped. It is never persisted.
	Geometry json.RawMessage `json:"geometry,omitempty"`

	// GeoJSON holds the validated FeatureCollection, empty when the incident
	// has no geometry.
	GeoJSON string `json:"geoJson,omitempty"`
}

// HasGeometry reports whether the collector attached any candidate geometry.
func (i Incident) HasGeometry() bool {
	trimmed := bytes.TrimSpace(i.Geometry)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Stored returns a copy suitable for persistence, without the raw geometry.
func (i Incident) Stored() Incident {
	i.Geometry = nil
	return i
}
