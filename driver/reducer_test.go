package driver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bursgen/burs/grammar"
	"github.com/bursgen/burs/internal/arith"
)

type testNode[T comparable] struct {
	typ      T
	children []*testNode[T]
	state    int
}

func (n *testNode[T]) NodeType() T           { return n.typ }
func (n *testNode[T]) SubtreeCount() int     { return len(n.children) }
func (n *testNode[T]) Subtree(i int) grammar.Node[T] { return n.children[i] }
func (n *testNode[T]) StateNumber() int      { return n.state }
func (n *testNode[T]) SetStateNumber(s int)  { n.state = s }

func leaf[T comparable](typ T) *testNode[T] {
	return &testNode[T]{typ: typ}
}

func branch[T comparable](typ T, children ...*testNode[T]) *testNode[T] {
	return &testNode[T]{typ: typ, children: children}
}

// TestReduceClosureChainAppliesLIFO builds a two-link closure chain
// (sreg <- reg <- con <- const) and checks that reducing toward "sreg"
// applies the closure nearest the pattern match (reg<-con) before the one
// nearest the goal (sreg<-reg) — outer wrapping happens last.
func TestReduceClosureChainAppliesLIFO(t *testing.T) {
	table := grammar.NewProductionTable[string, string]()

	base := grammar.NewFuncCallback[string](func(visitor any, node grammar.Node[string], args ...any) (any, error) {
		return "5", nil
	})
	_, err := table.AddPatternMatch("con", "const", 0, base, nil)
	require.NoError(t, err)

	toReg := grammar.NewFuncCallback[string](func(visitor any, node grammar.Node[string], args ...any) (any, error) {
		return fmt.Sprintf("reg(%v)", args[0]), nil
	})
	_, err = table.AddClosure("reg", "con", 1, toReg)
	require.NoError(t, err)

	toSReg := grammar.NewFuncCallback[string](func(visitor any, node grammar.Node[string], args ...any) (any, error) {
		return fmt.Sprintf("sreg(%v)", args[0]), nil
	})
	_, err = table.AddClosure("sreg", "reg", 1, toSReg)
	require.NoError(t, err)

	require.NoError(t, table.GenerateStates())

	r := New[string, string](table)
	result, err := r.Reduce(nil, leaf("const"), "sreg")
	require.NoError(t, err)
	assert.Equal(t, "sreg(reg(5))", result)
}

// preCBFunc adapts a plain func to grammar.PreCallback for tests, the same
// way grammar.FuncCallback adapts one to grammar.ActionCallback.
type preCBFunc func(visitor any, node grammar.Node[string], goal string) error

func (f preCBFunc) Invoke(visitor any, node grammar.Node[string], goal string) error {
	return f(visitor, node, goal)
}

// TestReduceClosurePreCallbackOrderAndGoal checks that a closure's
// preCallback fires pre-order, before the pattern at the bottom of the
// chain is reduced, in goal-to-source order (sreg<-reg fires before
// reg<-con), and that every preCallback receives the outer goal ("sreg"),
// not its own closure's target.
func TestReduceClosurePreCallbackOrderAndGoal(t *testing.T) {
	table := grammar.NewProductionTable[string, string]()

	var calls []string
	var goals []string

	base := grammar.NewFuncCallback[string](func(visitor any, node grammar.Node[string], args ...any) (any, error) {
		calls = append(calls, "pattern:con")
		return "5", nil
	})
	_, err := table.AddPatternMatch("con", "const", 0, base, nil)
	require.NoError(t, err)

	regPre := preCBFunc(func(visitor any, node grammar.Node[string], goal string) error {
		calls = append(calls, "pre:reg")
		goals = append(goals, goal)
		return nil
	})
	toReg := grammar.NewFuncCallback[string](func(visitor any, node grammar.Node[string], args ...any) (any, error) {
		calls = append(calls, "post:reg")
		return fmt.Sprintf("reg(%v)", args[0]), nil
	})
	_, err = table.AddClosure("reg", "con", 1, toReg, grammar.WithClosurePreCallback[string, string](regPre))
	require.NoError(t, err)

	sregPre := preCBFunc(func(visitor any, node grammar.Node[string], goal string) error {
		calls = append(calls, "pre:sreg")
		goals = append(goals, goal)
		return nil
	})
	toSReg := grammar.NewFuncCallback[string](func(visitor any, node grammar.Node[string], args ...any) (any, error) {
		calls = append(calls, "post:sreg")
		return fmt.Sprintf("sreg(%v)", args[0]), nil
	})
	_, err = table.AddClosure("sreg", "reg", 1, toSReg, grammar.WithClosurePreCallback[string, string](sregPre))
	require.NoError(t, err)

	require.NoError(t, table.GenerateStates())

	r := New[string, string](table)
	result, err := r.Reduce(nil, leaf("const"), "sreg")
	require.NoError(t, err)
	assert.Equal(t, "sreg(reg(5))", result)

	assert.Equal(t, []string{"pre:sreg", "pre:reg", "pattern:con", "post:reg", "post:sreg"}, calls)
	assert.Equal(t, []string{"sreg", "sreg"}, goals)
}

func TestReducePredicateRejection(t *testing.T) {
	table := grammar.NewProductionTable[string, string]()

	cheap := grammar.NewFuncCallback[string](func(visitor any, node grammar.Node[string], args ...any) (any, error) {
		return "cheap", nil
	})
	pred := rejectAll{}
	_, err := table.AddPatternMatch("reg", "const", 0, cheap, nil, grammar.WithPredicate[string, string](pred))
	require.NoError(t, err)

	require.NoError(t, table.GenerateStates())

	r := New[string, string](table)
	_, err = r.Reduce(nil, leaf("const"), "reg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, grammar.ErrNoProduction))
}

type rejectAll struct{}

func (rejectAll) Invoke(visitor any, node grammar.Node[string]) (bool, error) { return false, nil }

func TestReduceArityMismatch(t *testing.T) {
	table := grammar.NewProductionTable[string, string]()

	// declares exactly one fixed operand but the pattern below has two.
	mismatched := &fixedArityCallback{n: 1}
	_, err := table.AddPatternMatch("reg", "plus", 1, mismatched, []string{"reg", "reg"})
	require.NoError(t, err)
	leafCB := grammar.NewFuncCallback[string](func(visitor any, node grammar.Node[string], args ...any) (any, error) {
		return 0, nil
	})
	_, err = table.AddPatternMatch("reg", "const", 0, leafCB, nil)
	require.NoError(t, err)

	require.NoError(t, table.GenerateStates())

	r := New[string, string](table)
	tree := branch("plus", leaf("const"), leaf("const"))
	_, err = r.Reduce(nil, tree, "reg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, grammar.ErrArityMismatch))
}

type fixedArityCallback struct{ n int }

func (c *fixedArityCallback) ParameterCount() int { return c.n }
func (c *fixedArityCallback) IsVariadic() bool     { return false }
func (c *fixedArityCallback) Invoke(visitor any, node grammar.Node[string], args []any) (any, error) {
	return nil, nil
}

// TestReduceVariadicBlock exercises the arith demo grammar end to end,
// including its variadic Seq/Block production.
func TestReduceVariadicBlock(t *testing.T) {
	table, err := arith.BuildTable()
	require.NoError(t, err)

	tree := arith.Seq(
		arith.Mult(arith.Plus(arith.Const(3), arith.Const(4)), arith.Const(5)),
		arith.Plus(arith.Const(6), arith.Const(7)),
	)

	r := New[arith.NonTerm, arith.NodeType](table)
	result, err := r.Reduce(nil, tree, arith.Block)
	require.NoError(t, err)
	assert.Equal(t, "mul add li 3, li 4, li 5; add li 6, li 7", result)
}
