// Package excel loads observation matrices from Excel and CSV files. The
// expected layout is one header row of variable names followed by one row per
// observation, every cell numeric.
package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"gocausal/domain/core"
	"gocausal/domain/dataset"
	"gocausal/ports"
)

// DataReader reads matrix files; the format is chosen by extension
type DataReader struct{}

var _ ports.MatrixReader = (*DataReader)(nil)

// NewDataReader creates a reader handling .xlsx and .csv files
func NewDataReader() *DataReader {
	return &DataReader{}
}

// Read loads the file into a sample
func (r *DataReader) Read(path string) (*dataset.Sample, error) {
	var rows [][]string
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		rows, err = readCSVRows(path)
	case ".xlsx":
		rows, err = readExcelRows(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
	if err != nil {
		return nil, err
	}
	return rowsToSample(rows)
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv file: %w", err)
	}
	return rows, nil
}

func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets: %s", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// rowsToSample converts header + data rows into column-major numeric data
func rowsToSample(rows [][]string) (*dataset.Sample, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: need a header row and at least one data row", core.ErrInsufficientData)
	}

	header := rows[0]
	keys := make([]core.VariableKey, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("empty variable name in header column %d", i+1)
		}
		keys[i] = core.VariableKey(name)
	}

	columns := make([][]float64, len(keys))
	for i := range columns {
		columns[i] = make([]float64, 0, len(rows)-1)
	}
	for rowIdx, row := range rows[1:] {
		if len(row) != len(keys) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", rowIdx+2, len(row), len(keys))
		}
		for colIdx, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %q is not numeric", rowIdx+2, keys[colIdx], cell)
			}
			columns[colIdx] = append(columns[colIdx], v)
		}
	}

	return dataset.New(keys, columns)
}
