package fask

import (
	"context"

	"gocausal/domain/graph"
	"gocausal/domain/knowledge"
	"gocausal/internal/skew"
)

// nodeSet is one half of the double-buffered worklist: the fixpoint reads
// the current round's set and writes re-orientation marks into the next
type nodeSet map[*graph.Variable]struct{}

func newNodeSet(vars ...*graph.Variable) nodeSet {
	s := make(nodeSet, len(vars))
	for _, v := range vars {
		s[v] = struct{}{}
	}
	return s
}

func (s nodeSet) add(v *graph.Variable) { s[v] = struct{}{} }

func (s nodeSet) has(v *graph.Variable) bool {
	_, ok := s[v]
	return ok
}

// orientEdges drives edge directions to a fixpoint. The first sweep
// evaluates every edge with empty conditioning sets; subsequent rounds
// condition on current parent sets and only revisit edges touching the
// previous round's changed nodes. Directed edges are revisited only when
// their head changed.
func (s *Search) orientEdges(ctx context.Context, g *graph.Graph) (iterations int, converged bool, err error) {
	changed := newNodeSet(g.Nodes()...)
	pending := newNodeSet(g.Nodes()...)

	for _, e := range g.Edges() {
		s.orientEdge(g, e.Tail, e.Head, nil, nil, pending)
	}

	for d := 0; d < s.cfg.MaxIterations; d++ {
		if err := ctx.Err(); err != nil {
			return iterations, false, err
		}
		if len(changed) == 0 {
			return iterations, true, nil
		}
		changed = pending
		pending = newNodeSet()

		for _, e := range g.Edges() {
			x, y := e.Tail, e.Head
			if e.Kind == graph.Directed {
				if !changed.has(y) {
					continue
				}
			} else {
				if !changed.has(x) && !changed.has(y) {
					continue
				}
			}
			s.orientEdge(g, x, y, g.Parents(x), g.Parents(y), pending)
		}
		iterations = d + 1
	}
	return iterations, len(pending) == 0, nil
}

// orientEdge re-evaluates one pair and applies at most one atomic
// transition. Knowledge wins over statistics; a singular conditioning design
// leaves the pair's prior state unchanged for the round.
func (s *Search) orientEdge(g *graph.Graph, x, y *graph.Variable, zx, zy []*graph.Variable, pending nodeSet) {
	if knowledge.ForbiddenBoth(s.know, x, y) {
		return
	}
	if knowledge.Orients(s.know, x, y) {
		if !g.PointsToward(x, y) {
			g.SetDirected(x, y)
			pending.add(y)
		}
		return
	}
	if knowledge.Orients(s.know, y, x) {
		if !g.PointsToward(y, x) {
			g.SetDirected(y, x)
			pending.add(x)
		}
		return
	}

	zx = knowledge.FilterConditioning(s.know, without(zx, y))
	zy = knowledge.FilterConditioning(s.know, without(zy, x))

	xcol, ycol := s.col(x), s.col(y)

	lrXY, errXY := skew.LeftRight(xcol, ycol, s.cols(zy))
	lrYX, errYX := skew.LeftRight(ycol, xcol, s.cols(zx))
	if errXY != nil || errYX != nil {
		s.log.Warn("inconclusive pair %s - %s: singular conditioning design, keeping prior state", x, y)
		return
	}

	// NaN statistics (empty tail subset) compare false and count against
	// the direction
	cxy := lrXY > 0
	cyx := lrYX > 0

	switch {
	case cxy && !cyx:
		if !g.PointsToward(x, y) {
			g.SetDirected(x, y)
			pending.add(y)
		}
	case cyx && !cxy:
		if !g.PointsToward(y, x) {
			g.SetDirected(y, x)
			pending.add(x)
		}
	case !cxy && !cyx && !g.IsBidirected(x, y):
		g.SetBidirected(x, y)
		pending.add(x)
		pending.add(y)
	case !cxy && !cyx && !g.IsUndirected(x, y):
		g.SetUndirected(x, y)
		pending.add(x)
		pending.add(y)
	}
	// cxy and cyx both true is a known ambiguity: no transition fires and
	// the pair keeps its state for the round
}

// without returns z minus v, never mutating the input
func without(z []*graph.Variable, v *graph.Variable) []*graph.Variable {
	out := make([]*graph.Variable, 0, len(z))
	for _, w := range z {
		if w != v {
			out = append(out, w)
		}
	}
	return out
}
