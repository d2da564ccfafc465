// Package storage persists validated incidents and loads the raw documents
// collectors drop into the object store.
package storage

import (
	"context"

	"github.com/rotisserie/eris"

	"incidentmap/internal/models"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = eris.New("storage: document not found")

// IncidentStore is a document store keyed by incident identifier. Existing
// documents are never overwritten.
type IncidentStore interface {
	// InsertIfAbsent stores the incident unless one with the same key already
	// exists. inserted is false when the document was already present.
	InsertIfAbsent(ctx context.Context, incident *models.Incident) (inserted bool, err error)
}
