package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPattern(target, nodeType string, pid productionID, cost Cost, childTypes []string) *PatternMatcher[string, string] {
	return &PatternMatcher[string, string]{
		pid:        pid,
		target:     target,
		nodeType:   nodeType,
		childTypes: childTypes,
		ownCost:    cost,
	}
}

func TestStateSetPatternProductionKeepsCheaperPattern(t *testing.T) {
	s := newState[string, string]("neg", true)
	cheap := newTestPattern("reg", "neg", 1, 2, nil)
	expensive := newTestPattern("reg", "neg", 2, 5, nil)

	s.SetPatternProduction(cheap, cheap.Cost())
	s.SetPatternProduction(expensive, expensive.Cost())

	prod, err := s.GetProduction("reg")
	assert.NoError(t, err)
	assert.Equal(t, cheap, prod)
	assert.Equal(t, Cost(2), s.GetCost("reg"))
}

// TestStateSetPatternProductionTieBreakLastWins directly exercises spec.md
// scenario S3: two matchers producing Reg at equal cost 2, the second
// registered must win.
func TestStateSetPatternProductionTieBreakLastWins(t *testing.T) {
	s := newState[string, string]("neg", true)
	first := newTestPattern("reg", "neg", 1, 2, nil)
	second := newTestPattern("reg", "neg", 2, 2, nil)

	s.SetPatternProduction(first, first.Cost())
	s.SetPatternProduction(second, second.Cost())

	prod, err := s.GetProduction("reg")
	assert.NoError(t, err)
	assert.Equal(t, second, prod)
}

func TestStateGetCostFallsBackToClosureChain(t *testing.T) {
	s := newState[string, string]("const", true)
	con := newTestPattern("con", "const", 1, 0, nil)
	s.SetPatternProduction(con, con.Cost())

	toReg := &Closure[string, string]{cid: 2, target: "reg", source: "con", ownCost: 1}
	accepted := s.AddClosure(toReg)
	assert.True(t, accepted)

	assert.Equal(t, Cost(1), s.GetCost("reg"))
	assert.True(t, s.GetCost("nonexistent").IsInfinite())
}

func TestStateAddClosureRejectsWorseAndRejectsAfterFinished(t *testing.T) {
	s := newState[string, string]("const", true)
	con := newTestPattern("con", "const", 1, 0, nil)
	s.SetPatternProduction(con, con.Cost())

	cheap := &Closure[string, string]{cid: 2, target: "reg", source: "con", ownCost: 1}
	assert.True(t, s.AddClosure(cheap))

	worse := &Closure[string, string]{cid: 3, target: "reg", source: "con", ownCost: 5}
	assert.False(t, s.AddClosure(worse))
	assert.Equal(t, Cost(1), s.GetCost("reg"))

	s.finished = true
	another := &Closure[string, string]{cid: 4, target: "sreg", source: "con", ownCost: 1}
	assert.False(t, s.AddClosure(another))
}

func TestStateKeyIgnoresCostsAndClosuresButNotPatterns(t *testing.T) {
	a := newState[string, string]("const", true)
	b := newState[string, string]("const", true)

	p1 := newTestPattern("con", "const", 1, 0, nil)
	a.SetPatternProduction(p1, 0)
	b.SetPatternProduction(p1, 3)

	// Costs and closures differ between a and b but must not affect the key.
	a.AddClosure(&Closure[string, string]{cid: 2, target: "reg", source: "con", ownCost: 1})
	assert.Equal(t, a.key(), b.key())

	p2 := newTestPattern("con", "const", 2, 0, nil)
	c := newState[string, string]("const", true)
	c.SetPatternProduction(p2, 0)
	assert.NotEqual(t, a.key(), c.key())
}

func TestStateIsVarArgsVacuouslyTrueWhenEmpty(t *testing.T) {
	s := newState[string, string]("const", true)
	assert.True(t, s.IsVarArgs())
}
