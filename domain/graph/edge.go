package graph

import "fmt"

// Kind classifies a single edge record
type Kind int

const (
	// Undirected marks an adjacency whose direction is not yet resolved
	Undirected Kind = iota
	// Directed points from Tail to Head
	Directed
	// Bidirected marks an unresolved pair where neither direction is
	// statistically favored (distinct from a mutual directed pair, which is
	// stored as two coexisting Directed edges)
	Bidirected
)

func (k Kind) String() string {
	switch k {
	case Undirected:
		return "undirected"
	case Directed:
		return "directed"
	case Bidirected:
		return "bidirected"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Edge is a single edge record between two variables. For Undirected and
// Bidirected edges the Tail/Head order carries no meaning.
type Edge struct {
	Tail *Variable
	Head *Variable
	Kind Kind
}

// Nodes returns both endpoints in stored order
func (e Edge) Nodes() (*Variable, *Variable) {
	return e.Tail, e.Head
}

// PointsToward reports whether e is a directed edge with head v
func (e Edge) PointsToward(v *Variable) bool {
	return e.Kind == Directed && e.Head == v
}

func (e Edge) String() string {
	switch e.Kind {
	case Directed:
		return fmt.Sprintf("%s --> %s", e.Tail, e.Head)
	case Bidirected:
		return fmt.Sprintf("%s <-> %s", e.Tail, e.Head)
	default:
		return fmt.Sprintf("%s --- %s", e.Tail, e.Head)
	}
}
