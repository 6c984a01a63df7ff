package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matrix.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeTempCSV(t, "X,Y\n1.5,2\n-0.5,4\n3,6\n")

	sample, err := NewDataReader().Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if sample.NumVariables() != 2 || sample.N() != 3 {
		t.Fatalf("shape = %dx%d, want 2x3", sample.NumVariables(), sample.N())
	}
	vars := sample.Variables()
	if vars[0].Key != "X" || vars[1].Key != "Y" {
		t.Fatalf("variables = %v", vars)
	}
	if col := sample.Column(vars[0]); col[0] != 1.5 || col[1] != -0.5 {
		t.Fatalf("column X = %v", col)
	}
}

func TestReadCSVRejectsNonNumericCell(t *testing.T) {
	path := writeTempCSV(t, "X,Y\n1,2\nfoo,4\n")
	if _, err := NewDataReader().Read(path); err == nil {
		t.Fatal("expected an error for a non-numeric cell")
	}
}

func TestReadCSVRejectsHeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "X,Y\n")
	if _, err := NewDataReader().Read(path); err == nil {
		t.Fatal("expected an error for a header-only file")
	}
}

func TestReadExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.xlsx")

	f := excelize.NewFile()
	cells := [][]any{
		{"X", "Y"},
		{1.0, 2.0},
		{3.0, 4.0},
		{5.0, 6.0},
	}
	for r, row := range cells {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	sample, err := NewDataReader().Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if sample.NumVariables() != 2 || sample.N() != 3 {
		t.Fatalf("shape = %dx%d, want 2x3", sample.NumVariables(), sample.N())
	}
	vars := sample.Variables()
	if col := sample.Column(vars[1]); col[2] != 6 {
		t.Fatalf("column Y = %v", col)
	}
}

func TestUnsupportedExtension(t *testing.T) {
	if _, err := NewDataReader().Read("matrix.parquet"); err == nil {
		t.Fatal("expected an error for an unsupported extension")
	}
}
