package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Numerical errors, recoverable by callers
	ErrSingularDesign   = errors.New("singular regression design")
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// Structural errors, fatal
	ErrInvalidGraph     = errors.New("invalid graph")
	ErrVariableNotFound = errors.New("variable not found")

	// Configuration errors, fatal before any data is processed
	ErrConfiguration = errors.New("invalid configuration")
)

// Error constructors with context

func NewConfigurationError(param string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrConfiguration, param, reason)
}

func NewInvalidGraphError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidGraph, reason)
}

func NewSingularDesignError(target string, size int) error {
	return fmt.Errorf("%w: regressing %s on %d conditioning columns", ErrSingularDesign, target, size)
}

// Error checking helpers

// IsNumerical reports whether err is a recoverable numerical failure:
// callers treat the affected subset as inconclusive rather than aborting.
func IsNumerical(err error) bool {
	return errors.Is(err, ErrSingularDesign) || errors.Is(err, ErrInsufficientData)
}

func IsFatal(err error) bool {
	return errors.Is(err, ErrInvalidGraph) ||
		errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrVariableNotFound)
}
