package graph

import (
	"gocausal/domain/core"
)

// Variable is a named column of the observation matrix. Variables have
// identity semantics: two *Variable values are the same node only if they are
// the same pointer. The column index is fixed at construction and never
// changes.
type Variable struct {
	Key    core.VariableKey
	Column int
}

// NewVariable creates a variable bound to a matrix column
func NewVariable(key core.VariableKey, column int) *Variable {
	return &Variable{Key: key, Column: column}
}

// String returns the variable key
func (v *Variable) String() string {
	return v.Key.String()
}
