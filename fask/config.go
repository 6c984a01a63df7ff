package fask

import (
	"gocausal/domain/core"
)

// Config is the scalar parameter surface of the search. Zero values are not
// usable; start from DefaultConfig.
type Config struct {
	// TwoCycleAlpha is the significance level of the two-cycle test,
	// strictly inside (0,1)
	TwoCycleAlpha float64

	// Depth bounds the size of conditioning subsets enumerated by the
	// two-cycle detector
	Depth int

	// MaxIterations caps the orientation fixpoint loop
	MaxIterations int

	// PenaltyDiscount is forwarded to the skeleton collaborator
	PenaltyDiscount float64

	// FaithfulnessAssumed and SymmetricFirstStep are forwarded to the
	// skeleton collaborator and do not affect orientation
	FaithfulnessAssumed bool
	SymmetricFirstStep  bool

	// Parallelism bounds concurrent two-cycle pair scans; 0 means one per
	// available CPU
	Parallelism int

	// Verbose promotes the search logger to debug level
	Verbose bool
}

// DefaultConfig mirrors the conventional parameterization of the search
func DefaultConfig() Config {
	return Config{
		TwoCycleAlpha:       0.05,
		Depth:               1000,
		MaxIterations:       15,
		PenaltyDiscount:     1,
		FaithfulnessAssumed: true,
	}
}

// Validate rejects unusable parameters before any data is touched
func (c Config) Validate() error {
	if c.TwoCycleAlpha <= 0 || c.TwoCycleAlpha >= 1 {
		return core.NewConfigurationError("TwoCycleAlpha", "must be strictly between 0 and 1")
	}
	if c.Depth < 0 {
		return core.NewConfigurationError("Depth", "must not be negative")
	}
	if c.MaxIterations < 0 {
		return core.NewConfigurationError("MaxIterations", "must not be negative")
	}
	if c.PenaltyDiscount <= 0 {
		return core.NewConfigurationError("PenaltyDiscount", "must be positive")
	}
	if c.Parallelism < 0 {
		return core.NewConfigurationError("Parallelism", "must not be negative")
	}
	return nil
}
