package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"incidentmap/internal/models"
)

// Pool is the subset of pgxpool.Pool used by PostgresStore.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const schema = `
CREATE TABLE IF NOT EXISTS incidents (
	id           TEXT PRIMARY KEY,
	source       TEXT NOT NULL,
	kind         TEXT NOT NULL,
	title        TEXT NOT NULL,
	body         TEXT NOT NULL DEFAULT '',
	published_at TIMESTAMPTZ,
	scraped_at   TIMESTAMPTZ NOT NULL,
	geojson      TEXT NOT NULL DEFAULT ''
)`

// PostgresStore keeps incidents in a single table keyed by id.
type PostgresStore struct {
	pool Pool
}

// NewPostgresStore wraps an existing pool.
func NewPostgresStore(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ConnectPostgres opens a pgx pool for databaseURL and verifies it.
func ConnectPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return pool, nil
}

// EnsureSchema creates the incidents table if needed.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return eris.Wrap(err, "postgres: ensure schema")
	}
	return nil
}

// InsertIfAbsent inserts the incident unless its id is already stored.
func (s *PostgresStore) InsertIfAbsent(ctx context.Context, incident *models.Incident) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO incidents (id, source, kind, title, body, published_at, scraped_at, geojson)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`, incident.ID, incident.Source, string(incident.Kind), incident.Title, incident.Body,
		nullableTime(incident.PublishedAt), incident.ScrapedAt, incident.GeoJSON)
	if err != nil {
		return false, eris.Wrapf(err, "postgres: insert incident %s", incident.ID)
	}
	return tag.RowsAffected() == 1, nil
}

// Get returns the stored incident with the given id.
func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Incident, error) {
	var (
		i         models.Incident
		kind      string
		published *time.Time
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, source, kind, title, body, published_at, scraped_at, geojson
		FROM incidents WHERE id = $1
	`, id).Scan(&i.ID, &i.Source, &kind, &i.Title, &i.Body, &published, &i.ScrapedAt, &i.GeoJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "incident %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get incident %s", id)
	}
	i.Kind = models.Kind(kind)
	if published != nil {
		i.PublishedAt = *published
	}
	return &i, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
