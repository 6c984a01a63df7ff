// Package graph provides the mixed causal graph mutated by the search: each
// unordered pair of variables holds either nothing, one undirected edge, one
// directed edge, one bidirected edge, or a mutual pair of directed edges
// (a feedback loop). Reclassifying a pair always clears its prior relation
// first, so the classifications stay mutually exclusive.
package graph

import (
	"fmt"

	"gocausal/domain/core"
)

// pairKey identifies an unordered pair; a is always the lexicographically
// smaller key so both orientations map to the same entry.
type pairKey struct {
	a, b core.VariableKey
}

func keyFor(x, y *Variable) pairKey {
	if x.Key <= y.Key {
		return pairKey{x.Key, y.Key}
	}
	return pairKey{y.Key, x.Key}
}

// Graph is a mutable mixed graph over a fixed node set. Not safe for
// concurrent mutation; concurrent reads are fine.
type Graph struct {
	nodes []*Variable
	byKey map[core.VariableKey]*Variable
	edges map[pairKey][]Edge
	order []pairKey // insertion order of live pairs, for deterministic walks
}

// New creates an empty graph over the given nodes. Node keys must be
// distinct.
func New(nodes ...*Variable) *Graph {
	g := &Graph{
		nodes: append([]*Variable(nil), nodes...),
		byKey: make(map[core.VariableKey]*Variable, len(nodes)),
		edges: make(map[pairKey][]Edge),
	}
	for _, n := range nodes {
		g.byKey[n.Key] = n
	}
	return g
}

// Nodes returns the node set in construction order
func (g *Graph) Nodes() []*Variable {
	return append([]*Variable(nil), g.nodes...)
}

// Node looks a node up by key
func (g *Graph) Node(key core.VariableKey) (*Variable, bool) {
	v, ok := g.byKey[key]
	return v, ok
}

// NumNodes returns the node count
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

func (g *Graph) contains(v *Variable) bool {
	return g.byKey[v.Key] == v
}

func (g *Graph) checkNodes(x, y *Variable) error {
	if !g.contains(x) {
		return fmt.Errorf("%w: %s", core.ErrVariableNotFound, x)
	}
	if !g.contains(y) {
		return fmt.Errorf("%w: %s", core.ErrVariableNotFound, y)
	}
	if x == y {
		return core.NewInvalidGraphError("self edge on " + x.String())
	}
	return nil
}

// put installs the pair's new classification, replacing any prior relation
// in place so the pair keeps its slot in the deterministic walk order
func (g *Graph) put(k pairKey, edges []Edge) {
	if _, live := g.edges[k]; !live {
		g.order = append(g.order, k)
	}
	g.edges[k] = edges
}

// RemoveEdges clears whatever relation the pair currently holds
func (g *Graph) RemoveEdges(x, y *Variable) {
	k := keyFor(x, y)
	if _, live := g.edges[k]; !live {
		return
	}
	delete(g.edges, k)
	for i, o := range g.order {
		if o == k {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// SetUndirected classifies the pair as undirected, replacing any prior
// relation
func (g *Graph) SetUndirected(x, y *Variable) error {
	if err := g.checkNodes(x, y); err != nil {
		return err
	}
	g.put(keyFor(x, y), []Edge{{Tail: x, Head: y, Kind: Undirected}})
	return nil
}

// SetDirected classifies the pair as tail --> head, replacing any prior
// relation
func (g *Graph) SetDirected(tail, head *Variable) error {
	if err := g.checkNodes(tail, head); err != nil {
		return err
	}
	g.put(keyFor(tail, head), []Edge{{Tail: tail, Head: head, Kind: Directed}})
	return nil
}

// SetBidirected classifies the pair as bidirected, replacing any prior
// relation
func (g *Graph) SetBidirected(x, y *Variable) error {
	if err := g.checkNodes(x, y); err != nil {
		return err
	}
	g.put(keyFor(x, y), []Edge{{Tail: x, Head: y, Kind: Bidirected}})
	return nil
}

// SetMutual installs a feedback pair: x --> y and y --> x coexisting on the
// same pair, replacing any prior relation
func (g *Graph) SetMutual(x, y *Variable) error {
	if err := g.checkNodes(x, y); err != nil {
		return err
	}
	g.put(keyFor(x, y), []Edge{
		{Tail: x, Head: y, Kind: Directed},
		{Tail: y, Head: x, Kind: Directed},
	})
	return nil
}

// EdgesBetween returns the pair's edge records (nil, one, or two for a
// mutual pair)
func (g *Graph) EdgesBetween(x, y *Variable) []Edge {
	return append([]Edge(nil), g.edges[keyFor(x, y)]...)
}

// IsAdjacent reports whether the pair holds any relation
func (g *Graph) IsAdjacent(x, y *Variable) bool {
	return len(g.edges[keyFor(x, y)]) > 0
}

// IsUndirected reports whether the pair holds a single undirected edge
func (g *Graph) IsUndirected(x, y *Variable) bool {
	es := g.edges[keyFor(x, y)]
	return len(es) == 1 && es[0].Kind == Undirected
}

// IsBidirected reports whether the pair holds a single bidirected edge
func (g *Graph) IsBidirected(x, y *Variable) bool {
	es := g.edges[keyFor(x, y)]
	return len(es) == 1 && es[0].Kind == Bidirected
}

// IsDirectedFrom reports whether the pair holds exactly one directed edge
// tail --> head
func (g *Graph) IsDirectedFrom(tail, head *Variable) bool {
	es := g.edges[keyFor(tail, head)]
	return len(es) == 1 && es[0].Kind == Directed && es[0].Tail == tail && es[0].Head == head
}

// IsMutual reports whether the pair holds a feedback pair of directed edges
func (g *Graph) IsMutual(x, y *Variable) bool {
	es := g.edges[keyFor(x, y)]
	return len(es) == 2
}

// PointsToward reports whether some directed edge x --> y exists; a mutual
// pair points both ways
func (g *Graph) PointsToward(x, y *Variable) bool {
	for _, e := range g.edges[keyFor(x, y)] {
		if e.Kind == Directed && e.Tail == x && e.Head == y {
			return true
		}
	}
	return false
}

// Edges returns a deterministic snapshot of every edge record
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, g.edges[k]...)
	}
	return out
}

// NumEdges returns the total number of edge records (a mutual pair counts
// twice)
func (g *Graph) NumEdges() int {
	n := 0
	for _, es := range g.edges {
		n += len(es)
	}
	return n
}

// Adjacents returns every node sharing a relation with v, in deterministic
// pair-insertion order
func (g *Graph) Adjacents(v *Variable) []*Variable {
	var out []*Variable
	for _, k := range g.order {
		for _, e := range g.edges[k][:1] {
			if e.Tail == v {
				out = append(out, e.Head)
			} else if e.Head == v {
				out = append(out, e.Tail)
			}
		}
	}
	return out
}

// Parents returns the tails of directed edges pointing into v, in
// deterministic order. Both members of a mutual pair contribute.
func (g *Graph) Parents(v *Variable) []*Variable {
	var out []*Variable
	for _, k := range g.order {
		for _, e := range g.edges[k] {
			if e.Kind == Directed && e.Head == v {
				out = append(out, e.Tail)
			}
		}
	}
	return out
}

func (g *Graph) String() string {
	s := fmt.Sprintf("graph over %d nodes:\n", len(g.nodes))
	for i, e := range g.Edges() {
		s += fmt.Sprintf("  %d. %s\n", i+1, e)
	}
	return s
}
