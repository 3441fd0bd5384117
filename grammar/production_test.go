package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatternMatcherGetNonterminalVariadicClampsToLast(t *testing.T) {
	p := &PatternMatcher[string, string]{
		target:     "block",
		nodeType:   "seq",
		childTypes: []string{"reg"},
		isVarArgs:  true,
	}
	assert.Equal(t, "reg", p.GetNonterminal(0))
	assert.Equal(t, "reg", p.GetNonterminal(1))
	assert.Equal(t, "reg", p.GetNonterminal(99))
}

func TestPatternMatcherGetNonterminalFixedArity(t *testing.T) {
	p := &PatternMatcher[string, string]{
		target:     "reg",
		nodeType:   "plus",
		childTypes: []string{"reg", "con"},
	}
	assert.Equal(t, "reg", p.GetNonterminal(0))
	assert.Equal(t, "con", p.GetNonterminal(1))
}

func TestPatternMatcherAcceptsDimension(t *testing.T) {
	fixed := &PatternMatcher[string, string]{childTypes: []string{"reg", "reg"}}
	assert.True(t, fixed.AcceptsDimension(2))
	assert.False(t, fixed.AcceptsDimension(1))
	assert.False(t, fixed.AcceptsDimension(3))

	variadic := &PatternMatcher[string, string]{childTypes: []string{"reg"}, isVarArgs: true}
	assert.True(t, variadic.AcceptsDimension(1))
	assert.True(t, variadic.AcceptsDimension(5))
	assert.False(t, variadic.AcceptsDimension(0))
}

func TestPatternMatcherIsLeafAndArity(t *testing.T) {
	leaf := &PatternMatcher[string, string]{}
	assert.True(t, leaf.IsLeaf())
	assert.Equal(t, 0, leaf.Arity())

	branch := &PatternMatcher[string, string]{childTypes: []string{"reg", "reg"}}
	assert.False(t, branch.IsLeaf())
	assert.Equal(t, 2, branch.Arity())
}

func TestUsesNonterminalAt(t *testing.T) {
	p := &PatternMatcher[string, string]{childTypes: []string{"reg", "con"}}
	assert.True(t, p.UsesNonterminalAt("reg", 0))
	assert.False(t, p.UsesNonterminalAt("con", 0))
}

func TestValidateClosureEndpointsRejectsSelfLoop(t *testing.T) {
	assert.Error(t, validateClosureEndpoints("x", "x"))
	assert.NoError(t, validateClosureEndpoints("x", "y"))
}

func TestProductionRegistryAssignsIncreasingIDs(t *testing.T) {
	var r productionRegistry
	a := r.nextID()
	b := r.nextID()
	c := r.nextID()
	assert.Equal(t, productionID(1), a)
	assert.Equal(t, productionID(2), b)
	assert.Equal(t, productionID(3), c)
}
