// Package postgres persists run records in PostgreSQL. The schema is two
// tables: runs for provenance, run_edges for the classified edge list.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"gocausal/domain/core"
	"gocausal/domain/run"
	"gocausal/ports"
)

// Schema creates the tables the repository needs
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	created_at   TIMESTAMPTZ NOT NULL,
	fingerprint  TEXT NOT NULL,
	iterations   INTEGER NOT NULL,
	converged    BOOLEAN NOT NULL,
	two_cycles   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_edges (
	run_id    TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position  INTEGER NOT NULL,
	tail      TEXT NOT NULL,
	head      TEXT NOT NULL,
	kind      TEXT NOT NULL,
	PRIMARY KEY (run_id, position)
);
`

// Connect opens a database handle and verifies the connection
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema applies the schema idempotently
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a repository over an open database handle
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) Save(ctx context.Context, rec *run.Record) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, fingerprint, iterations, converged, two_cycles)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID.String(), rec.CreatedAt.Time(), string(rec.Fingerprint),
		rec.Iterations, rec.Converged, rec.TwoCycles,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, e := range rec.Edges {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_edges (run_id, position, tail, head, kind)
			 VALUES ($1, $2, $3, $4, $5)`,
			rec.ID.String(), i, e.Tail, e.Head, e.Kind,
		)
		if err != nil {
			return fmt.Errorf("failed to insert edge %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

func (r *runRepository) Get(ctx context.Context, id core.RunID) (*run.Record, error) {
	rec := &run.Record{ID: id}
	var createdAt sql.NullTime
	var fingerprint string

	err := r.db.QueryRowContext(ctx,
		`SELECT created_at, fingerprint, iterations, converged, two_cycles
		 FROM runs WHERE id = $1`, id.String(),
	).Scan(&createdAt, &fingerprint, &rec.Iterations, &rec.Converged, &rec.TwoCycles)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	rec.CreatedAt = core.NewTimestamp(createdAt.Time)
	rec.Fingerprint = core.Hash(fingerprint)

	edges, err := r.loadEdges(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Edges = edges
	return rec, nil
}

func (r *runRepository) List(ctx context.Context, limit int) ([]*run.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, fingerprint, iterations, converged, two_cycles
		 FROM runs ORDER BY created_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []*run.Record
	for rows.Next() {
		rec := &run.Record{}
		var id, fingerprint string
		var createdAt sql.NullTime
		if err := rows.Scan(&id, &createdAt, &fingerprint,
			&rec.Iterations, &rec.Converged, &rec.TwoCycles); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rec.ID = core.RunID(id)
		rec.CreatedAt = core.NewTimestamp(createdAt.Time)
		rec.Fingerprint = core.Hash(fingerprint)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	for _, rec := range out {
		edges, err := r.loadEdges(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		rec.Edges = edges
	}
	return out, nil
}

func (r *runRepository) loadEdges(ctx context.Context, id core.RunID) ([]run.EdgeRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tail, head, kind FROM run_edges WHERE run_id = $1 ORDER BY position`,
		id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load edges: %w", err)
	}
	defer rows.Close()

	var edges []run.EdgeRecord
	for rows.Next() {
		var e run.EdgeRecord
		if err := rows.Scan(&e.Tail, &e.Head, &e.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load edges: %w", err)
	}
	return edges, nil
}
