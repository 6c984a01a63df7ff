// Package memory provides an in-process RunRepository, used by the API when
// no database is configured and by tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"gocausal/domain/core"
	"gocausal/domain/run"
	"gocausal/ports"
)

type runRepository struct {
	mu    sync.RWMutex
	byID  map[core.RunID]*run.Record
	order []core.RunID
}

// NewRunRepository creates an empty in-memory repository
func NewRunRepository() ports.RunRepository {
	return &runRepository{byID: make(map[core.RunID]*run.Record)}
}

func (r *runRepository) Save(_ context.Context, rec *run.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[rec.ID]; !exists {
		r.order = append(r.order, rec.ID)
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *runRepository) Get(_ context.Context, id core.RunID) (*run.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	return rec, nil
}

func (r *runRepository) List(_ context.Context, limit int) ([]*run.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	// newest first
	out := make([]*run.Record, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, r.byID[r.order[i]])
	}
	return out, nil
}
