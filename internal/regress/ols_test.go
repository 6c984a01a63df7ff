package regress

import (
	"errors"
	"math"
	"testing"

	"gocausal/domain/core"
)

func TestEmptyConditioningReturnsFilteredValues(t *testing.T) {
	y := []float64{1, 2, 3, 4}
	out, err := Residuals(y, nil, []int{1, 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0] != 2 || out[1] != 4 {
		t.Fatalf("got %v, want [2 4]", out)
	}
}

func TestExactLinearFitHasZeroResiduals(t *testing.T) {
	z1 := []float64{1, 2, 3, 4, 5}
	z2 := []float64{2, -1, 0, 1, -2}
	y := make([]float64, 5)
	for i := range y {
		y[i] = 2*z1[i] - 3*z2[i]
	}

	out, err := Residuals(y, [][]float64{z1, z2}, AllRows(5))
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range out {
		if math.Abs(r) > 1e-9 {
			t.Fatalf("residual[%d] = %g, want ~0", i, r)
		}
	}
}

func TestResidualsAreOrthogonalToDesign(t *testing.T) {
	z := []float64{1, -1, 2, -2, 3, -3}
	y := []float64{1.1, -0.7, 2.4, -1.6, 2.2, -3.5}

	out, err := Residuals(y, [][]float64{z}, AllRows(6))
	if err != nil {
		t.Fatal(err)
	}
	dot := 0.0
	for i, r := range out {
		dot += r * z[i]
	}
	if math.Abs(dot) > 1e-9 {
		t.Fatalf("residuals not orthogonal to z: dot = %g", dot)
	}
}

func TestCollinearDesignIsSingular(t *testing.T) {
	z1 := []float64{1, 2, 3, 4}
	z2 := []float64{2, 4, 6, 8} // exactly 2*z1
	y := []float64{1, 0, 1, 0}

	_, err := Residuals(y, [][]float64{z1, z2}, AllRows(4))
	if !errors.Is(err, core.ErrSingularDesign) {
		t.Fatalf("expected ErrSingularDesign, got %v", err)
	}
}

func TestMoreColumnsThanRowsIsSingular(t *testing.T) {
	y := []float64{1, 2}
	z := [][]float64{{1, 2}, {0, 1}, {1, 1}}

	_, err := Residuals(y, z, AllRows(2))
	if !errors.Is(err, core.ErrSingularDesign) {
		t.Fatalf("expected ErrSingularDesign, got %v", err)
	}
}

func TestRowSelectionRestrictsTheFit(t *testing.T) {
	// y = z on the selected rows only; the unselected rows would break the fit
	z := []float64{1, 2, 3, 100}
	y := []float64{1, 2, 3, -50}

	out, err := Residuals(y, [][]float64{z}, []int{0, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range out {
		if math.Abs(r) > 1e-9 {
			t.Fatalf("residual[%d] = %g, want ~0", i, r)
		}
	}
}

func TestPositiveRows(t *testing.T) {
	rows := PositiveRows([]float64{-1, 0.5, 0, 2, -0.1})
	if len(rows) != 2 || rows[0] != 1 || rows[1] != 3 {
		t.Fatalf("got %v, want [1 3]", rows)
	}
	if len(PositiveRows([]float64{-1, -2})) != 0 {
		t.Fatal("no positive rows expected")
	}
}
