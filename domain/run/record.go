// Package run defines the persisted artifact of one search: a flat,
// serializable record of the classified edges plus provenance. This is the
// truth source for replay and reporting; the live graph never leaves the
// search process.
package run

import (
	"gocausal/domain/core"
	"gocausal/domain/graph"
)

// EdgeRecord is one classified edge in storage form. A feedback pair
// contributes two directed records over the same variable pair.
type EdgeRecord struct {
	Tail string `json:"tail"`
	Head string `json:"head"`
	Kind string `json:"kind"`
}

// Record is the complete artifact of one search run
type Record struct {
	ID          core.RunID     `json:"id"`
	CreatedAt   core.Timestamp `json:"created_at"`
	Fingerprint core.Hash      `json:"fingerprint"`
	Iterations  int            `json:"iterations"`
	Converged   bool           `json:"converged"`
	TwoCycles   int            `json:"two_cycles"`
	Edges       []EdgeRecord   `json:"edges"`
}

// EdgesOf flattens a graph into edge records in the graph's deterministic
// order
func EdgesOf(g *graph.Graph) []EdgeRecord {
	edges := g.Edges()
	out := make([]EdgeRecord, 0, len(edges))
	for _, e := range edges {
		out = append(out, EdgeRecord{
			Tail: e.Tail.Key.String(),
			Head: e.Head.Key.String(),
			Kind: e.Kind.String(),
		})
	}
	return out
}
