package fask

import (
	"context"
	"math/rand"
	"testing"

	"gocausal/domain/core"
	"gocausal/domain/dataset"
	"gocausal/domain/graph"
	"gocausal/domain/knowledge"
)

// coupledColumns draws a feedback pair: each row couple holds (a,b) and
// (b,a) from a shared pair of skewed drivers, so the joint sample is exactly
// swap-symmetric and neither direction can win the orientation stage
func coupledColumns(n int, seed int64) (x, y []float64) {
	rng := rand.New(rand.NewSource(seed))
	x = make([]float64, n)
	y = make([]float64, n)
	for i := 0; i+1 < n; i += 2 {
		e1 := rng.ExpFloat64() - 1
		e2 := rng.ExpFloat64() - 1
		a := e1 + 0.2*e2
		b := e2 + 0.2*e1
		x[i], y[i] = a, b
		x[i+1], y[i+1] = b, a
	}
	return x, y
}

func coupledSample(t *testing.T, n int, seed int64) *dataset.Sample {
	t.Helper()
	x, y := coupledColumns(n, seed)
	s, err := dataset.New([]core.VariableKey{"X", "Y"}, [][]float64{x, y})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestDetectsFeedbackPair(t *testing.T) {
	sample := coupledSample(t, 20000, 19)
	x, y := sample.Variables()[0], sample.Variables()[1]

	s, err := New(sample, DefaultConfig(), WithInitialGraph(pairGraph(sample)))
	if err != nil {
		t.Fatal(err)
	}
	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if res.TwoCycles != 1 {
		t.Fatalf("two-cycle count = %d, want 1:\n%s", res.TwoCycles, res.Graph)
	}
	if !res.Graph.IsMutual(x, y) {
		t.Fatalf("expected a mutual pair, got:\n%s", res.Graph)
	}
	// a mutual pair points both ways but is not a bidirected edge
	if res.Graph.IsBidirected(x, y) {
		t.Fatal("feedback pair misclassified as bidirected")
	}
	if !res.Graph.PointsToward(x, y) || !res.Graph.PointsToward(y, x) {
		t.Fatal("feedback pair must point both ways")
	}
}

func TestTwoCycleIsConjunctiveOverSubsets(t *testing.T) {
	xcol, ycol := coupledColumns(20000, 19)
	rng := rand.New(rand.NewSource(23))
	z1 := make([]float64, len(xcol))
	for i := range z1 {
		z1[i] = rng.NormFloat64()
	}
	z2 := append([]float64(nil), z1...) // exact duplicate

	sample, err := dataset.New(
		[]core.VariableKey{"X", "Y", "Z1", "Z2"},
		[][]float64{xcol, ycol, z1, z2},
	)
	if err != nil {
		t.Fatal(err)
	}

	s, err := New(sample, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	vars := s.sample.Variables()
	x, y, v1, v2 := vars[0], vars[1], vars[2], vars[3]

	g := graph.New(vars...)
	g.SetUndirected(x, y)
	g.SetDirected(v1, x)
	g.SetDirected(v2, x)

	// at depth 0 only the empty subset runs and the pair confirms
	s.cfg.Depth = 0
	if !s.twoCycle(g, x, y) {
		t.Fatal("the empty conditioning subset should confirm the pair")
	}

	// at depth 2 the {Z1, Z2} subset is collinear, cannot confirm, and a
	// single non-confirming subset vetoes the pair
	s.cfg.Depth = 2
	if s.twoCycle(g, x, y) {
		t.Fatal("a non-confirming subset must veto the pair")
	}
}

func TestCandidateConditioningPool(t *testing.T) {
	n := 10
	cols := make([][]float64, 6)
	rng := rand.New(rand.NewSource(29))
	for i := range cols {
		cols[i] = make([]float64, n)
		for j := range cols[i] {
			cols[i][j] = rng.NormFloat64()
		}
	}
	sample, err := dataset.New([]core.VariableKey{"X", "Y", "A", "B", "C", "D"}, cols)
	if err != nil {
		t.Fatal(err)
	}

	s, err := New(sample, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	vars := s.sample.Variables()
	x, y, a, b, c, d := vars[0], vars[1], vars[2], vars[3], vars[4], vars[5]

	g := graph.New(vars...)
	g.SetUndirected(x, y)
	g.SetDirected(a, x)   // eligible via X
	g.SetMutual(b, x)     // mutual neighbors are excluded
	g.SetUndirected(c, y) // undirected neighbors are excluded
	g.SetDirected(y, d)   // eligible via Y

	pool := s.candidateConditioning(g, x, y)
	if len(pool) != 2 || pool[0] != a || pool[1] != d {
		t.Fatalf("pool = %v, want [A D]", pool)
	}

	// tier protection removes D from the pool
	s.know = knowledge.NewStore().SetTier(a, 0).SetTier(d, 1)
	pool = s.candidateConditioning(g, x, y)
	if len(pool) != 1 || pool[0] != a {
		t.Fatalf("pool = %v, want [A]", pool)
	}
}
