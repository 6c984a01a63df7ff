package fask

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/combin"

	"gocausal/domain/core"
	"gocausal/domain/graph"
	"gocausal/domain/knowledge"
	"gocausal/internal/regress"
	"gocausal/internal/welch"
)

// detectTwoCycles runs once after the fixpoint, over edges still undirected
// and not knowledge-constrained. Pair scans are independent reads of the
// frozen graph and may run concurrently; mutations are applied sequentially
// afterwards. Each confirmed pair becomes a mutual directed pair.
func (s *Search) detectTwoCycles(ctx context.Context, g *graph.Graph) (int, error) {
	type candidate struct {
		x, y *graph.Variable
	}

	var cands []candidate
	for _, e := range g.Edges() {
		x, y := e.Nodes()
		if !g.IsUndirected(x, y) {
			continue
		}
		if knowledge.ForbiddenBoth(s.know, x, y) {
			continue
		}
		if knowledge.Orients(s.know, x, y) || knowledge.Orients(s.know, y, x) {
			continue
		}
		cands = append(cands, candidate{x, y})
	}
	if len(cands) == 0 {
		return 0, nil
	}

	confirmed := make([]bool, len(cands))

	eg, gctx := errgroup.WithContext(ctx)
	limit := s.cfg.Parallelism
	if limit == 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	eg.SetLimit(limit)

	for i, c := range cands {
		i, c := i, c
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			confirmed[i] = s.twoCycle(g, c.x, c.y)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}

	n := 0
	for i, c := range cands {
		if !confirmed[i] {
			continue
		}
		g.SetMutual(c.x, c.y)
		n++
		s.log.Info("feedback pair: %s <=> %s", c.x, c.y)
	}
	return n, nil
}

// twoCycle decides whether the undirected pair is better modeled as a
// feedback loop. Every conditioning subset up to the depth bound must
// confirm; the first subset that does not rejects the pair immediately.
func (s *Search) twoCycle(g *graph.Graph, x, y *graph.Variable) bool {
	adj := s.candidateConditioning(g, x, y)

	maxSize := s.cfg.Depth
	if maxSize > len(adj) {
		maxSize = len(adj)
	}

	for size := 0; size <= maxSize; size++ {
		if size == 0 {
			if !s.twoCycleSubset(x, y, nil) {
				return false
			}
			continue
		}
		gen := combin.NewCombinationGenerator(len(adj), size)
		comb := make([]int, size)
		for gen.Next() {
			gen.Combination(comb)
			z := make([]*graph.Variable, size)
			for i, idx := range comb {
				z[i] = adj[idx]
			}
			if !s.twoCycleSubset(x, y, z) {
				return false
			}
		}
	}
	return true
}

// candidateConditioning builds the adjacency pool the subset scan draws
// from: neighbors of either endpoint, excluding ones joined to that endpoint
// by a mutual pair or an undirected edge, excluding protected-tier
// variables, and excluding the endpoints themselves.
func (s *Search) candidateConditioning(g *graph.Graph, x, y *graph.Variable) []*graph.Variable {
	seen := make(map[*graph.Variable]bool)
	var pool []*graph.Variable

	collect := func(v *graph.Variable) {
		for _, a := range g.Adjacents(v) {
			if g.IsMutual(a, v) || g.IsUndirected(a, v) {
				continue
			}
			if a == x || a == y || seen[a] {
				continue
			}
			seen[a] = true
			pool = append(pool, a)
		}
	}
	collect(x)
	collect(y)

	return knowledge.FilterConditioning(s.know, pool)
}

// twoCycleSubset tests one conditioning subset: both orderings must reject
// the Welch test for the subset to confirm the pair
func (s *Search) twoCycleSubset(x, y *graph.Variable, z []*graph.Variable) bool {
	zc := s.cols(z)
	return s.orderingRejects(x, y, zc) && s.orderingRejects(y, x, zc)
}

// orderingRejects compares the scaled residual products over all rows
// against the same statistic truncated to rows where the first variable is
// positive. Numerical failures count as "does not confirm".
func (s *Search) orderingRejects(x, y *graph.Variable, zc [][]float64) bool {
	full, err := s.residualProducts(x, y, zc, nil)
	if err != nil {
		s.log.Debug("two-cycle subset inconclusive for %s - %s: %v", x, y, err)
		return false
	}
	trunc, err := s.residualProducts(x, y, zc, s.col(x))
	if err != nil {
		s.log.Debug("two-cycle subset inconclusive for %s - %s: %v", x, y, err)
		return false
	}
	return welch.Test(full, trunc).Rejects(s.cfg.TwoCycleAlpha)
}

// residualProducts residualizes both variables on z over the selected rows
// (all rows, or rows where cond is positive) and returns the elementwise
// residual products scaled by the mean squared residual of x
func (s *Search) residualProducts(x, y *graph.Variable, zc [][]float64, cond []float64) ([]float64, error) {
	var rows []int
	if cond == nil {
		rows = regress.AllRows(s.sample.N())
	} else {
		rows = regress.PositiveRows(cond)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %d usable rows for %s - %s", core.ErrInsufficientData, len(rows), x, y)
	}

	rx, err := regress.Residuals(s.col(x), zc, rows)
	if err != nil {
		return nil, err
	}
	ry, err := regress.Residuals(s.col(y), zc, rows)
	if err != nil {
		return nil, err
	}

	scale := 0.0
	for _, v := range rx {
		scale += v * v
	}
	scale /= float64(len(rx))
	if scale == 0 {
		return nil, fmt.Errorf("%w: zero residual variance for %s", core.ErrInsufficientData, x)
	}

	out := make([]float64, len(rx))
	for i := range rx {
		out[i] = rx[i] * ry[i] / scale
	}
	return out, nil
}
