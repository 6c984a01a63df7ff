// Package welch implements the two-sample mean-difference test with unequal
// variances used by the two-cycle detector.
package welch

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Result holds the test statistic, the Welch–Satterthwaite degrees of
// freedom, and the two-sided p-value.
type Result struct {
	T  float64
	DF float64
	P  float64
}

// Rejects reports whether the mean difference is significant at alpha
func (r Result) Rejects(alpha float64) bool {
	return r.P < alpha
}

// Test compares the means of a and b without assuming equal variances.
// Degenerate inputs (fewer than two observations per sample, zero variance
// in both samples) never reject: they report p = 1 so a conjunctive caller
// reads them as "does not confirm" rather than failing.
func Test(a, b []float64) Result {
	na := float64(len(a))
	nb := float64(len(b))
	if na < 2 || nb < 2 {
		return Result{P: 1}
	}

	meanA, _ := stats.Mean(a)
	meanB, _ := stats.Mean(b)
	varA, _ := stats.SampleVariance(a)
	varB, _ := stats.SampleVariance(b)

	ea := varA / na
	eb := varB / nb
	se := math.Sqrt(ea + eb)
	if se == 0 || math.IsNaN(se) {
		return Result{P: 1}
	}

	t := (meanB - meanA) / se

	// Welch–Satterthwaite
	df := (ea + eb) * (ea + eb) / (ea*ea/(na-1) + eb*eb/(nb-1))
	if math.IsNaN(df) || df <= 0 {
		return Result{T: t, P: 1}
	}

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))

	return Result{T: t, DF: df, P: p}
}
