// Package dataset holds the canonical observation bundle fed to the search:
// a column-major matrix of continuous samples with an ordered variable list
// bound to its columns.
package dataset

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"gocausal/domain/core"
	"gocausal/domain/graph"
)

// Sample is the observation bundle. Columns[i] belongs to Variables[i]; all
// columns share the same length and row alignment, and rows are never
// reordered once assigned an index.
type Sample struct {
	variables []*graph.Variable
	columns   [][]float64
	byVar     map[*graph.Variable]int

	// Fingerprint for replayability
	Fingerprint core.Hash
}

// New builds a sample over named columns. Variables are created in column
// order and bound to their index.
func New(keys []core.VariableKey, columns [][]float64) (*Sample, error) {
	if len(keys) != len(columns) {
		return nil, fmt.Errorf("%w: %d variables for %d columns", core.ErrInsufficientData, len(keys), len(columns))
	}
	vars := make([]*graph.Variable, len(keys))
	for i, k := range keys {
		vars[i] = graph.NewVariable(k, i)
	}
	return FromVariables(vars, columns)
}

// FromVariables builds a sample over pre-constructed variables. Column
// indices are rebound to match position.
func FromVariables(variables []*graph.Variable, columns [][]float64) (*Sample, error) {
	if len(variables) == 0 {
		return nil, fmt.Errorf("%w: no variables", core.ErrInsufficientData)
	}
	if len(variables) != len(columns) {
		return nil, fmt.Errorf("%w: %d variables for %d columns", core.ErrInsufficientData, len(variables), len(columns))
	}
	n := len(columns[0])
	for i, col := range columns {
		if len(col) != n {
			return nil, fmt.Errorf("%w: column %s has %d rows, want %d", core.ErrInsufficientData, variables[i], len(col), n)
		}
	}
	s := &Sample{
		variables: append([]*graph.Variable(nil), variables...),
		columns:   make([][]float64, len(columns)),
		byVar:     make(map[*graph.Variable]int, len(variables)),
	}
	for i, col := range columns {
		s.columns[i] = append([]float64(nil), col...)
		s.variables[i].Column = i
		s.byVar[s.variables[i]] = i
	}
	s.Fingerprint = core.ComputeMatrixHash(s.columns)
	return s, nil
}

// Variables returns the ordered variable list
func (s *Sample) Variables() []*graph.Variable {
	return append([]*graph.Variable(nil), s.variables...)
}

// N returns the row count
func (s *Sample) N() int {
	return len(s.columns[0])
}

// NumVariables returns the column count
func (s *Sample) NumVariables() int {
	return len(s.variables)
}

// Column returns the data column bound to v, or nil if v is not part of the
// sample. The returned slice is the backing array; callers must not mutate
// it.
func (s *Sample) Column(v *graph.Variable) []float64 {
	i, ok := s.byVar[v]
	if !ok {
		return nil
	}
	return s.columns[i]
}

// ColumnAt returns the data column at index i
func (s *Sample) ColumnAt(i int) []float64 {
	return s.columns[i]
}

// Center subtracts each column's mean in place. The search requires centered
// data and centers its working copy on construction.
func (s *Sample) Center() {
	for _, col := range s.columns {
		m, err := stats.Mean(col)
		if err != nil {
			continue
		}
		for i := range col {
			col[i] -= m
		}
	}
	s.Fingerprint = core.ComputeMatrixHash(s.columns)
}

// Clone deep-copies the sample, sharing variable identities
func (s *Sample) Clone() *Sample {
	c := &Sample{
		variables:   s.variables,
		columns:     make([][]float64, len(s.columns)),
		byVar:       s.byVar,
		Fingerprint: s.Fingerprint,
	}
	for i, col := range s.columns {
		c.columns[i] = append([]float64(nil), col...)
	}
	return c
}
