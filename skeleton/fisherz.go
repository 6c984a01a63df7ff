// Package skeleton provides the default adjacency collaborator: a Fisher-z
// correlation screen that connects every pair whose marginal correlation is
// significant. Callers needing a full score-based structure search can plug
// in their own fask.SkeletonBuilder.
package skeleton

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"gocausal/domain/core"
	"gocausal/domain/dataset"
	"gocausal/domain/graph"
	"gocausal/domain/knowledge"
	"gocausal/fask"
)

// FisherZ screens all variable pairs with the Fisher z-transform of the
// sample correlation. The penalty discount tightens the screen: the working
// significance level is Alpha / PenaltyDiscount.
type FisherZ struct {
	// Alpha is the base significance level of the screen
	Alpha float64
}

// New creates a screen at the conventional 0.01 level
func New() *FisherZ {
	return &FisherZ{Alpha: 0.01}
}

// Build returns the undirected adjacency graph over the sample's variables.
// Pairs forbidden in both directions by knowledge are never connected. The
// faithfulness and symmetric-first-step flags exist for score-based
// builders; a marginal screen has no use for them.
func (f *FisherZ) Build(ctx context.Context, sample *dataset.Sample, cfg fask.Config, k knowledge.Knowledge) (*graph.Graph, error) {
	if f.Alpha <= 0 || f.Alpha >= 1 {
		return nil, core.NewConfigurationError("Alpha", "must be strictly between 0 and 1")
	}
	n := sample.N()
	if n < 4 {
		return nil, fmt.Errorf("%w: %d rows, need at least 4 for the Fisher z screen", core.ErrInsufficientData, n)
	}

	alpha := f.Alpha / cfg.PenaltyDiscount
	if alpha >= 1 {
		alpha = f.Alpha
	}

	vars := sample.Variables()
	g := graph.New(vars...)

	for i := 0; i < len(vars); i++ {
		for j := i + 1; j < len(vars); j++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			x, y := vars[i], vars[j]
			if knowledge.ForbiddenBoth(k, x, y) {
				continue
			}
			p := fisherZPValue(sample.Column(x), sample.Column(y), n)
			if p < alpha {
				if err := g.SetUndirected(x, y); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}

// fisherZPValue is the two-sided p-value for zero correlation
func fisherZPValue(x, y []float64, n int) float64 {
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 1
	}
	// guard |r| = 1: the transform diverges, the pair is maximally dependent
	if r >= 1 || r <= -1 {
		return 0
	}
	z := 0.5 * math.Log((1+r)/(1-r))
	zstat := math.Sqrt(float64(n-3)) * math.Abs(z)
	return 2 * (1 - distuv.UnitNormal.CDF(zstat))
}
