// Package skew computes the signed directional statistic that orients edges:
// a tail-conditioned expectation difference that is nonzero only when the
// data carry non-Gaussian skew under a linear causal model.
package skew

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"gocausal/internal/regress"
)

// LeftRight computes the directional statistic for x against y given the
// conditioning set z. y is residualized on {x} ∪ z; the statistic is
// E(+1) − E(−1) over the tail subsets where x and the reconstructed y-like
// quantity disagree in sign. A strictly positive value favors x --> y.
//
// The reverse-direction statistic is a fully independent computation with
// the roles swapped; the two are not negatives of each other.
//
// If a tail subset is empty the statistic is NaN, which callers must read as
// evidence against the direction (NaN > 0 is false). A singular conditioning
// design surfaces as an error.
func LeftRight(x, y []float64, z [][]float64) (float64, error) {
	cond := make([][]float64, 0, len(z)+1)
	cond = append(cond, x)
	cond = append(cond, z...)

	ry, err := regress.Residuals(y, cond, regress.AllRows(len(y)))
	if err != nil {
		return 0, err
	}

	a := stat.Covariance(x, y, nil) / stat.Variance(x, nil)

	return tailExpectation(a, x, ry, +1) - tailExpectation(a, x, ry, -1), nil
}

// tailExpectation averages x·ry over the rows where x has sign dir but the
// reconstructed |a|·x + ry has the opposite sign. An empty subset yields NaN.
func tailExpectation(a float64, x, ry []float64, dir float64) float64 {
	exy := 0.0
	n := 0
	for k := range x {
		yk := math.Abs(a)*x[k] + ry[k]
		if x[k]*dir > 0 && yk*dir < 0 {
			exy += x[k] * ry[k]
			n++
		}
	}
	return exy / float64(n)
}
