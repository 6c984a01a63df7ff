// Package fask infers a directed, possibly cyclic, causal graph over
// continuous variables from observational data. Adjacency comes from a
// skeleton collaborator (or a caller-supplied graph); directions come from a
// skew-based asymmetry statistic driven to a fixpoint; feedback loops are
// detected afterwards by a conjunctive two-sample test over conditioning
// subsets. The skew orientation requires non-Gaussian data; the two-cycle
// test does not.
package fask

import (
	"context"

	"gocausal/domain/core"
	"gocausal/domain/dataset"
	"gocausal/domain/graph"
	"gocausal/domain/knowledge"
	"gocausal/internal"
	"gocausal/internal/skew"
)

// SkeletonBuilder produces the initial undirected adjacency structure over
// the sample's variables. Implementations must return a graph over the very
// variable identities of the sample.
type SkeletonBuilder interface {
	Build(ctx context.Context, sample *dataset.Sample, cfg Config, k knowledge.Knowledge) (*graph.Graph, error)
}

// Search holds the immutable inputs of one run. The observation matrix is
// centered into a private working copy at construction; the graph is the
// only mutable state and is owned by Run for the duration of a call.
type Search struct {
	sample  *dataset.Sample
	cfg     Config
	know    knowledge.Knowledge
	builder SkeletonBuilder
	initial *graph.Graph
	log     *internal.Logger
}

// Option configures a Search
type Option func(*Search)

// WithKnowledge installs background knowledge; default is empty knowledge
func WithKnowledge(k knowledge.Knowledge) Option {
	return func(s *Search) { s.know = k }
}

// WithSkeletonBuilder installs the skeleton collaborator
func WithSkeletonBuilder(b SkeletonBuilder) Option {
	return func(s *Search) { s.builder = b }
}

// WithInitialGraph supplies the initial graph directly, skipping the
// skeleton collaborator. The graph is converted to fully-undirected form and
// its nodes are rebound to the sample's variables before use.
func WithInitialGraph(g *graph.Graph) Option {
	return func(s *Search) { s.initial = g }
}

// New validates the configuration and prepares a centered working copy of
// the sample. Variable columns must already be row-aligned; that is an
// upstream precondition, not re-validated here.
func New(sample *dataset.Sample, cfg Config, opts ...Option) (*Search, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	working := sample.Clone()
	working.Center()

	s := &Search{
		sample: working,
		cfg:    cfg,
		know:   knowledge.Empty{},
		log:    internal.FromVerbose(cfg.Verbose),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run executes the search: skeleton bootstrap, knowledge pre-orientation,
// the orientation fixpoint, then the two-cycle pass. The stages mutate one
// owned graph strictly in sequence; a failure leaves unprocessed edges
// untouched.
func (s *Search) Run(ctx context.Context) (*Result, error) {
	s.logSkewDiagnostics()

	g, err := s.bootstrap(ctx)
	if err != nil {
		return nil, err
	}

	s.preorient(g)

	iterations, converged, err := s.orientEdges(ctx, g)
	if err != nil {
		return nil, err
	}
	s.log.Debug("orientation fixpoint done after %d rounds (converged=%v)", iterations, converged)

	twoCycles, err := s.detectTwoCycles(ctx, g)
	if err != nil {
		return nil, err
	}

	return &Result{
		RunID:           core.RunID(core.NewID()),
		CreatedAt:       core.Now(),
		Graph:           g,
		DataFingerprint: s.sample.Fingerprint,
		Iterations:      iterations,
		Converged:       converged,
		TwoCycles:       twoCycles,
	}, nil
}

// bootstrap obtains the initial undirected graph
func (s *Search) bootstrap(ctx context.Context) (*graph.Graph, error) {
	if s.initial != nil {
		return s.rebindUndirected(s.initial)
	}
	if s.builder != nil {
		g, err := s.builder.Build(ctx, s.sample, s.cfg, s.know)
		if err != nil {
			return nil, err
		}
		if g == nil {
			return nil, core.NewInvalidGraphError("skeleton builder returned no graph")
		}
		return g, nil
	}
	return nil, core.NewInvalidGraphError("no skeleton source: supply an initial graph or a skeleton builder")
}

// rebindUndirected converts a caller-supplied graph to fully-undirected form
// over the sample's own variable identities
func (s *Search) rebindUndirected(in *graph.Graph) (*graph.Graph, error) {
	byKey := make(map[core.VariableKey]*graph.Variable)
	for _, v := range s.sample.Variables() {
		byKey[v.Key] = v
	}

	g := graph.New(s.sample.Variables()...)
	for _, e := range in.Edges() {
		x, ok := byKey[e.Tail.Key]
		if !ok {
			return nil, core.NewInvalidGraphError("initial graph node " + e.Tail.String() + " is not a sample variable")
		}
		y, ok := byKey[e.Head.Key]
		if !ok {
			return nil, core.NewInvalidGraphError("initial graph node " + e.Head.String() + " is not a sample variable")
		}
		if g.IsAdjacent(x, y) {
			continue
		}
		if err := g.SetUndirected(x, y); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// preorient applies constraints fully determined by knowledge before any
// statistic runs: pairs forbidden in both directions are dropped, forced
// directions are installed.
func (s *Search) preorient(g *graph.Graph) {
	for _, e := range g.Edges() {
		x, y := e.Nodes()
		switch {
		case knowledge.ForbiddenBoth(s.know, x, y):
			g.RemoveEdges(x, y)
			s.log.Debug("dropped %s - %s: forbidden in both directions", x, y)
		case knowledge.Orients(s.know, x, y):
			g.SetDirected(x, y)
		case knowledge.Orients(s.know, y, x):
			g.SetDirected(y, x)
		}
	}
}

func (s *Search) logSkewDiagnostics() {
	if !s.cfg.Verbose {
		return
	}
	for _, v := range s.sample.Variables() {
		col := s.sample.Column(v)
		s.log.Debug("%s skewness = %.4f smooth = %v", v, skew.Skewness(col), skew.SmoothlySkewed(col))
	}
}

// col returns v's centered data column
func (s *Search) col(v *graph.Variable) []float64 {
	return s.sample.Column(v)
}

// cols returns the centered columns of a conditioning set
func (s *Search) cols(vars []*graph.Variable) [][]float64 {
	if len(vars) == 0 {
		return nil
	}
	out := make([][]float64, len(vars))
	for i, v := range vars {
		out[i] = s.sample.Column(v)
	}
	return out
}
