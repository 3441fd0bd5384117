package grammar

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExprPredicate evaluates a compiled expr-lang expression against an
// environment of {"visitor": visitor, "node": node}, giving grammars a way to
// write a PatternMatcher's predicate as a string instead of hand-rolling a
// Predicate implementation — the same expr.Compile/expr.Run pairing
// smilemakc/mbflow's condition_cache.go and conditional.go use to evaluate
// user-supplied routing conditions.
type ExprPredicate[T comparable] struct {
	source  string
	program *vm.Program
}

// NewExprPredicate compiles expression against the {visitor, node}
// environment and fails at registration time (rather than at every Invoke)
// if it does not compile to a bool-returning expression. Like
// smilemakc/mbflow's conditions.go/graph.go, a compile against the env
// falls back to compiling with no env at all (fully dynamic, resolved by
// reflection at Run time) if the first attempt fails — the env here only
// ever holds untyped nils, so this mainly guards expressions that reference
// neither visitor nor node.
func NewExprPredicate[T comparable](expression string) (*ExprPredicate[T], error) {
	env := map[string]any{
		"visitor": any(nil),
		"node":    any(nil),
	}
	program, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
	if err != nil {
		program, err = expr.Compile(expression, expr.AsBool())
	}
	if err != nil {
		return nil, fmt.Errorf("compiling predicate expression %q: %w", expression, err)
	}
	return &ExprPredicate[T]{source: expression, program: program}, nil
}

func (p *ExprPredicate[T]) Invoke(visitor any, node Node[T]) (bool, error) {
	env := map[string]any{
		"visitor": visitor,
		"node":    node,
	}
	out, err := expr.Run(p.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluating predicate expression %q: %w", p.source, err)
	}
	result, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("predicate expression %q did not evaluate to a bool", p.source)
	}
	return result, nil
}
