package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gocausal/domain/graph"
)

func vars3() (*graph.Variable, *graph.Variable, *graph.Variable) {
	return graph.NewVariable("A", 0), graph.NewVariable("B", 1), graph.NewVariable("C", 2)
}

func TestEmptyKnowledge(t *testing.T) {
	a, b, _ := vars3()
	k := Empty{}

	assert.False(t, k.Forbidden(a, b))
	assert.False(t, k.Required(a, b))
	assert.Equal(t, 1, k.NumTiers())
	assert.False(t, Orients(k, a, b))
	assert.False(t, ForbiddenBoth(k, a, b))
}

func TestOrients(t *testing.T) {
	a, b, c := vars3()

	// required edge forces the direction
	k := NewStore().SetRequired(a, b)
	assert.True(t, Orients(k, a, b))
	assert.False(t, Orients(k, b, a))

	// forbidding the reverse also forces the direction
	k = NewStore().SetForbidden(c, b)
	assert.True(t, Orients(k, b, c))
	assert.False(t, Orients(k, c, b))
}

func TestForbiddenBoth(t *testing.T) {
	a, b, _ := vars3()
	k := NewStore().SetForbidden(a, b)
	assert.False(t, ForbiddenBoth(k, a, b))

	k.SetForbidden(b, a)
	assert.True(t, ForbiddenBoth(k, a, b))
	assert.True(t, ForbiddenBoth(k, b, a))
}

func TestFilterConditioningProtectsTierOne(t *testing.T) {
	a, b, c := vars3()

	// single tier: nothing removed
	k := NewStore().SetTier(a, 0)
	assert.Equal(t, []*graph.Variable{a, b}, FilterConditioning(k, []*graph.Variable{a, b}))

	// two tiers: tier-1 members never condition
	k = NewStore().SetTier(a, 0).SetTier(b, 1).SetTier(c, 1)
	filtered := FilterConditioning(k, []*graph.Variable{a, b, c})
	assert.Equal(t, []*graph.Variable{a}, filtered)
}

func TestFilterConditioningDoesNotMutateInput(t *testing.T) {
	a, b, _ := vars3()
	k := NewStore().SetTier(a, 1).SetTier(b, 0)

	in := []*graph.Variable{a, b}
	out := FilterConditioning(k, in)

	assert.Equal(t, []*graph.Variable{b}, out)
	assert.Equal(t, []*graph.Variable{a, b}, in)
}
