// Package regress is the residualizer: no-intercept ordinary least squares
// over a row selection. Input columns are centered, so the intercept term is
// deliberately absent.
package regress

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"gocausal/domain/core"
)

// AllRows returns the identity row selection 0..n-1
func AllRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}

// PositiveRows returns the indices where cond is strictly positive. This is
// the one-sided truncation used by the two-cycle statistic; the positive
// direction is a fixed convention, not a mirror-able choice.
func PositiveRows(cond []float64) []int {
	var rows []int
	for i, v := range cond {
		if v > 0 {
			rows = append(rows, i)
		}
	}
	return rows
}

// Residuals regresses y on the columns of z over the selected rows and
// returns the residual vector aligned to the row selection. An empty z
// returns the selected values of y unchanged. A collinear design, or one
// with more conditioning columns than selected rows, fails with
// ErrSingularDesign; callers treat that subset as inconclusive.
func Residuals(y []float64, z [][]float64, rows []int) ([]float64, error) {
	n := len(rows)
	p := len(z)

	if p == 0 {
		out := make([]float64, n)
		for i, r := range rows {
			out[i] = y[r]
		}
		return out, nil
	}
	if n < p {
		return nil, core.NewSingularDesignError(fmt.Sprintf("%d rows", n), p)
	}

	x := mat.NewDense(n, p, nil)
	yv := mat.NewVecDense(n, nil)
	for i, r := range rows {
		for j := 0; j < p; j++ {
			x.Set(i, j, z[j][r])
		}
		yv.SetVec(i, y[r])
	}

	// Normal equations: b = (XᵀX)⁻¹ Xᵀy
	var xtx mat.Dense
	xtx.Mul(x.T(), x)

	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSingularDesign, err)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), yv)

	var b mat.VecDense
	b.MulVec(&inv, &xty)

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		fit := 0.0
		for j := 0; j < p; j++ {
			fit += x.At(i, j) * b.AtVec(j)
		}
		out[i] = yv.AtVec(i) - fit
	}
	return out, nil
}
