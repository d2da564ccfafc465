// Package ingest validates the geometry of collected incidents and persists
// the ones that survive.
package ingest

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"incidentmap/internal/models"
	"incidentmap/internal/pipeline"
	"incidentmap/internal/service"
	"incidentmap/internal/storage"
	"incidentmap/pkg/geo"
)

// Item is the unit flowing through the ingest pipeline.
type Item struct {
	Incident *models.Incident
	Result   geo.ValidationResult
	Inserted bool
}

func logger(i *models.Incident) zerolog.Logger {
	return log.With().Str("incident", i.ID).Str("source", i.Source).Logger()
}

// ValidateGeometry replaces the candidate geometry with the validated
// FeatureCollection. Incidents whose geometry cannot be salvaged are skipped.
func ValidateGeometry(_ context.Context, item *Item) error {
	inc := item.Incident
	l := logger(inc)

	if !inc.HasGeometry() {
		inc.GeoJSON = ""
		l.Debug().Msg("Incident has no geometry")
		return nil
	}

	res := geo.ValidateJSON(inc.Geometry, inc.ID)
	item.Result = res
	if !res.Valid {
		l.Warn().Strs("errors", res.Errors).Msg("Skipping incident with invalid geometry")
		return eris.Wrapf(pipeline.ErrSkip, "incident %s: invalid geometry", inc.ID)
	}
	if len(res.Errors) > 0 {
		l.Warn().Strs("errors", res.Errors).Msg("Dropped invalid features")
	}
	if res.FixedCoordinates {
		l.Info().Strs("warnings", res.Warnings).Msg("Corrected swapped coordinates")
	}

	fc, err := res.MarshalCollection()
	if err != nil {
		return eris.Wrapf(err, "incident %s", inc.ID)
	}
	inc.GeoJSON = fc
	return nil
}

// Persist returns a step that inserts the incident unless it is already stored.
func Persist(store storage.IncidentStore) pipeline.Step[Item] {
	return func(ctx context.Context, item *Item) error {
		inserted, err := store.InsertIfAbsent(ctx, item.Incident)
		if err != nil {
			return eris.Wrapf(err, "persist incident %s", item.Incident.ID)
		}
		item.Inserted = inserted

		l := logger(item.Incident)
		if !inserted {
			l.Debug().Msg("Incident already stored")
			return nil
		}
		l.Info().Bool("fixed_coordinates", item.Result.FixedCoordinates).Msg("Stored incident")
		return nil
	}
}

// NewPipeline builds the validate-then-persist pipeline.
func NewPipeline(store storage.IncidentStore) *pipeline.Pipeline[Item] {
	return pipeline.NewPipeline(
		pipeline.NewStage("validate", ValidateGeometry),
		pipeline.NewStage("persist", Persist(store)),
	)
}

// Run feeds every fetched incident through the ingest pipeline until objects
// is closed or ctx is done.
func Run(ctx context.Context, objects <-chan *service.FetchedObject[*models.Incident], store storage.IncidentStore) pipeline.Stats {
	items := make(chan *Item)
	go func() {
		defer close(items)
		for obj := range objects {
			item := newItem(obj)
			if item == nil {
				continue
			}
			select {
			case items <- item:
			case <-ctx.Done():
				return
			}
		}
	}()
	return NewPipeline(store).Process(ctx, items)
}

func newItem(obj *service.FetchedObject[*models.Incident]) *Item {
	inc := obj.Data
	if inc == nil {
		return nil
	}
	if inc.ID == "" {
		inc.ID = obj.Key
	}
	if inc.ScrapedAt.IsZero() {
		inc.ScrapedAt = time.Now().UTC()
	}
	return &Item{Incident: inc}
}
