package api

// RunRequest submits an observation matrix and search parameters
type RunRequest struct {
	// Variables names the columns; Columns is column-major numeric data
	Variables []string    `json:"variables"`
	Columns   [][]float64 `json:"columns"`

	Config    *RunConfig    `json:"config,omitempty"`
	Knowledge *RunKnowledge `json:"knowledge,omitempty"`
}

// RunConfig overrides search defaults; omitted fields keep their default
type RunConfig struct {
	TwoCycleAlpha   *float64 `json:"two_cycle_alpha,omitempty"`
	Depth           *int     `json:"depth,omitempty"`
	MaxIterations   *int     `json:"max_iterations,omitempty"`
	PenaltyDiscount *float64 `json:"penalty_discount,omitempty"`
	ScreenAlpha     *float64 `json:"screen_alpha,omitempty"`
	Verbose         bool     `json:"verbose,omitempty"`
}

// RunKnowledge carries background constraints as [from, to] variable pairs
// plus an optional tier assignment per variable
type RunKnowledge struct {
	Forbidden [][2]string    `json:"forbidden,omitempty"`
	Required  [][2]string    `json:"required,omitempty"`
	Tiers     map[string]int `json:"tiers,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
