package fask

import (
	"gocausal/domain/core"
	"gocausal/domain/graph"
	"gocausal/domain/run"
)

// Result is the search artifact: the edge-classified graph plus run
// provenance. The graph may contain directed edges, undirected edges
// (irresolvable pairs), bidirected edges (confounder markers), and mutual
// directed pairs (feedback loops).
type Result struct {
	RunID     core.RunID     `json:"run_id"`
	CreatedAt core.Timestamp `json:"created_at"`

	Graph *graph.Graph `json:"-"`

	// DataFingerprint identifies the centered observation matrix the run
	// saw, for replayability
	DataFingerprint core.Hash `json:"data_fingerprint"`

	// Iterations is the number of fixpoint rounds executed; Converged is
	// true when the changed set emptied before the iteration bound
	Iterations int  `json:"iterations"`
	Converged  bool `json:"converged"`

	// TwoCycles counts the pairs promoted to mutual directed pairs
	TwoCycles int `json:"two_cycles"`
}

// Record flattens the result into its storage form
func (r *Result) Record() *run.Record {
	return &run.Record{
		ID:          r.RunID,
		CreatedAt:   r.CreatedAt,
		Fingerprint: r.DataFingerprint,
		Iterations:  r.Iterations,
		Converged:   r.Converged,
		TwoCycles:   r.TwoCycles,
		Edges:       run.EdgesOf(r.Graph),
	}
}
