// Package ports declares the boundary interfaces between the search core and
// its adapters. Adapters depend on ports; the core never depends on an
// adapter.
package ports

import (
	"context"

	"gocausal/domain/core"
	"gocausal/domain/dataset"
	"gocausal/domain/run"
)

// MatrixReader loads an observation matrix from an external source into a
// sample
type MatrixReader interface {
	Read(path string) (*dataset.Sample, error)
}

// RunRepository persists and retrieves search run records
type RunRepository interface {
	Save(ctx context.Context, rec *run.Record) error
	Get(ctx context.Context, id core.RunID) (*run.Record, error)
	List(ctx context.Context, limit int) ([]*run.Record, error)
}
