package skew

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Skewness computes the standardized third moment of x
func Skewness(x []float64) float64 {
	m, err := stats.Mean(x)
	if err != nil {
		return math.NaN()
	}
	sd, err := stats.StandardDeviationPopulation(x)
	if err != nil || sd == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range x {
		d := (v - m) / sd
		sum += d * d * d
	}
	return sum / float64(len(x))
}

// SmoothlySkewed reports whether the empirical mass of centered x is
// one-sidedly dominant across a ladder of symmetric intervals around zero.
// Diagnostic only; logged per variable when the search runs verbose.
func SmoothlySkewed(x []float64) bool {
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	maxAbs := math.Max(math.Abs(sorted[0]), math.Abs(sorted[len(sorted)-1]))
	if maxAbs == 0 {
		return false
	}

	const numIntervals = 5

	smoothPositive := true
	smoothNegative := true

	for i := 1; i <= numIntervals; i++ {
		t := (float64(i) * maxAbs) / numIntervals
		neg := massWithin(sorted, -t, 0)
		pos := massWithin(sorted, 0, t)

		if neg < pos {
			smoothPositive = false
		}
		if neg > pos {
			smoothNegative = false
		}
	}

	return smoothPositive || smoothNegative
}

func massWithin(sorted []float64, lo, hi float64) int {
	n := 0
	for _, v := range sorted {
		if v > hi {
			break
		}
		if v >= lo {
			n++
		}
	}
	return n
}
