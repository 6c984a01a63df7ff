// Package knowledge models the background constraints the search obeys:
// forbidden and required directed edges plus a tier ordering over variables.
// The search only ever reads knowledge; it is configured by the caller.
package knowledge

import (
	"gocausal/domain/core"
	"gocausal/domain/graph"
)

// Knowledge answers the constraint queries consumed by the search
type Knowledge interface {
	// Forbidden reports whether the directed edge a --> b is forbidden
	Forbidden(a, b *graph.Variable) bool
	// Required reports whether the directed edge a --> b is required
	Required(a, b *graph.Variable) bool
	// NumTiers returns the number of tiers in the variable ordering; a
	// single tier means no ordering is imposed
	NumTiers() int
	// InTier reports whether v belongs to the given tier index
	InTier(tier int, v *graph.Variable) bool
}

// Orients reports whether knowledge forces the direction a --> b, either
// because the reverse is forbidden or because a --> b is required.
// Knowledge always wins over statistics.
func Orients(k Knowledge, a, b *graph.Variable) bool {
	return k.Forbidden(b, a) || k.Required(a, b)
}

// ForbiddenBoth reports whether the pair is permanently unorientable
func ForbiddenBoth(k Knowledge, a, b *graph.Variable) bool {
	return k.Forbidden(a, b) && k.Forbidden(b, a)
}

// FilterConditioning removes variables that may not be conditioned on: when
// more than one tier is defined, members of tier 1 are protected and never
// enter a conditioning set.
func FilterConditioning(k Knowledge, z []*graph.Variable) []*graph.Variable {
	if k.NumTiers() <= 1 {
		return z
	}
	out := z[:0:0]
	for _, v := range z {
		if !k.InTier(1, v) {
			out = append(out, v)
		}
	}
	return out
}

// Empty is the no-op default: nothing forbidden, nothing required, a single
// tier
type Empty struct{}

func (Empty) Forbidden(a, b *graph.Variable) bool     { return false }
func (Empty) Required(a, b *graph.Variable) bool      { return false }
func (Empty) NumTiers() int                           { return 1 }
func (Empty) InTier(tier int, v *graph.Variable) bool { return tier == 0 }

type edgeKey struct {
	from, to core.VariableKey
}

// Store is a map-backed Knowledge implementation
type Store struct {
	forbidden map[edgeKey]bool
	required  map[edgeKey]bool
	tiers     map[core.VariableKey]int
	numTiers  int
}

// NewStore creates an empty store with a single tier
func NewStore() *Store {
	return &Store{
		forbidden: make(map[edgeKey]bool),
		required:  make(map[edgeKey]bool),
		tiers:     make(map[core.VariableKey]int),
		numTiers:  1,
	}
}

// SetForbidden forbids the directed edge a --> b
func (s *Store) SetForbidden(a, b *graph.Variable) *Store {
	s.forbidden[edgeKey{a.Key, b.Key}] = true
	return s
}

// SetRequired requires the directed edge a --> b
func (s *Store) SetRequired(a, b *graph.Variable) *Store {
	s.required[edgeKey{a.Key, b.Key}] = true
	return s
}

// SetTier assigns v to a tier; the tier count grows to cover it
func (s *Store) SetTier(v *graph.Variable, tier int) *Store {
	s.tiers[v.Key] = tier
	if tier+1 > s.numTiers {
		s.numTiers = tier + 1
	}
	return s
}

func (s *Store) Forbidden(a, b *graph.Variable) bool {
	return s.forbidden[edgeKey{a.Key, b.Key}]
}

func (s *Store) Required(a, b *graph.Variable) bool {
	return s.required[edgeKey{a.Key, b.Key}]
}

func (s *Store) NumTiers() int {
	return s.numTiers
}

func (s *Store) InTier(tier int, v *graph.Variable) bool {
	t, ok := s.tiers[v.Key]
	return ok && t == tier
}
