// Package driver implements the reduce pass of the two-pass reducer (spec
// §4.7): given a tree already labeled by grammar.ProductionTable.Label, it
// walks goal-directed from the root, picks a production for each goal at
// each node, and invokes the registered semantic callbacks bottom-up. It
// mirrors the shape of the teacher's semantic action dispatcher
// (semantic_action.go in the original vartan driver package, which pushed
// reduced values onto a semanticStack as Reduce ran) but drives that
// dispatch goal-first from a pre-labeled tree instead of LR shift/reduce
// events from a parser.
package driver

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bursgen/burs/grammar"
)

// Option configures a Reducer.
type Option[N comparable, T comparable] func(*Reducer[N, T])

// WithLogger overrides the zerolog.Logger a Reducer reports reduce steps to.
func WithLogger[N comparable, T comparable](logger zerolog.Logger) Option[N, T] {
	return func(r *Reducer[N, T]) { r.logger = logger }
}

// Reducer runs the reduce pass against a generated grammar.ProductionTable.
// A single Reducer is safe for concurrent use by multiple goroutines calling
// Reduce on different trees, since ProductionTable is read-only once
// generated and Reducer keeps no mutable state of its own between calls.
type Reducer[N comparable, T comparable] struct {
	table  *grammar.ProductionTable[N, T]
	logger zerolog.Logger
}

// New builds a Reducer driven by table, which must already have had
// GenerateStates called on it.
func New[N comparable, T comparable](table *grammar.ProductionTable[N, T], opts ...Option[N, T]) *Reducer[N, T] {
	r := &Reducer[N, T]{table: table, logger: log.Logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Label runs pass 1 over node, assigning every node in its subtree a state
// number. Reduce calls this automatically if node is still unlabeled, so
// callers only need it directly when they want to label once and Reduce
// toward several different goals afterward (e.g. CanProduce checks).
func (r *Reducer[N, T]) Label(node grammar.Node[T]) error {
	return r.table.Label(node)
}

// Reduce labels node if necessary, then walks it goal-directed toward goal,
// invoking every matched production's preCallback and postCallback bottom-up,
// and returns the root production's result.
func (r *Reducer[N, T]) Reduce(visitor any, node grammar.Node[T], goal N) (any, error) {
	if node.StateNumber() == grammar.UnlabeledState {
		if err := r.table.Label(node); err != nil {
			return nil, err
		}
	}
	state, ok := r.table.StateByNumber(node.StateNumber())
	if !ok {
		return nil, fmt.Errorf("%w", grammar.ErrUnlabeledNode)
	}
	return r.reduceState(visitor, node, state, goal)
}

// reduceState walks the closure chain from goal down to the nonterminal an
// actual PatternMatcher produces. Each closure's preCallback, if any, fires
// immediately as that closure is encountered on the way down — pre-order,
// before the pattern at the bottom of the chain is even reached — with the
// outer goal as its argument (spec §4.7). Each closure is then collected on
// pending in the order visited (goal-nearest first), so that once the
// pattern has been reduced, its postCallback chain can unwind pending LIFO:
// the closure nearest the pattern match applies its postCallback first, and
// the one nearest goal last.
func (r *Reducer[N, T]) reduceState(visitor any, node grammar.Node[T], state *grammar.State[N, T], goal N) (any, error) {
	var pending []*grammar.Closure[N, T]
	cur := goal
	for {
		prod, err := state.GetProduction(cur)
		if err != nil {
			return nil, fmt.Errorf("reducing node toward %v: %w", goal, err)
		}
		switch p := prod.(type) {
		case *grammar.PatternMatcher[N, T]:
			result, err := r.reducePattern(visitor, node, p)
			if err != nil {
				return nil, err
			}
			return r.applyPending(visitor, node, pending, result)
		case *grammar.Closure[N, T]:
			if pre := p.PreCallback(); pre != nil {
				if err := pre.Invoke(visitor, node, goal); err != nil {
					return nil, err
				}
			}
			pending = append(pending, p)
			cur = p.Source()
		default:
			return nil, fmt.Errorf("grammar: unrecognized production type %T", prod)
		}
	}
}

func (r *Reducer[N, T]) reducePattern(visitor any, node grammar.Node[T], p *grammar.PatternMatcher[N, T]) (any, error) {
	if pred := p.Predicate(); pred != nil {
		ok, err := pred.Invoke(visitor, node)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: predicate rejected pattern for %v", grammar.ErrNoProduction, p.Target())
		}
	}

	if pre := p.PreCallback(); pre != nil {
		if err := pre.Invoke(visitor, node, p.Target()); err != nil {
			return nil, err
		}
	}

	n := node.SubtreeCount()
	args := make([]any, n)
	for i := 0; i < n; i++ {
		child := node.Subtree(i)
		result, err := r.Reduce(visitor, child, p.GetNonterminal(i))
		if err != nil {
			return nil, err
		}
		args[i] = result
	}

	cb := p.PostCallback()
	if err := validateArity[T](cb, n, p.IsVarArgs()); err != nil {
		return nil, err
	}
	r.logger.Debug().
		Int("state", node.StateNumber()).
		Interface("target", p.Target()).
		Int("operands", n).
		Msg("burs: reduced pattern")
	return cb.Invoke(visitor, node, args)
}

func (r *Reducer[N, T]) applyPending(visitor any, node grammar.Node[T], pending []*grammar.Closure[N, T], result any) (any, error) {
	for i := len(pending) - 1; i >= 0; i-- {
		c := pending[i]
		cb := c.PostCallback()
		if err := validateArity[T](cb, 1, false); err != nil {
			return nil, err
		}
		next, err := cb.Invoke(visitor, node, []any{result})
		if err != nil {
			return nil, err
		}
		r.logger.Debug().Interface("target", c.Target()).Msg("burs: applied closure")
		result = next
	}
	return result, nil
}

// validateArity checks a registered callback's declared shape against the
// production's structural arity before Invoke runs, so a mismatched
// registration surfaces as ErrArityMismatch instead of a reflect panic deep
// inside FuncCallback.Invoke.
func validateArity[T comparable](cb grammar.ActionCallback[T], actual int, isVarArgs bool) error {
	if cb == nil {
		return fmt.Errorf("%w: no callback registered", grammar.ErrArityMismatch)
	}
	if cb.IsVariadic() {
		if actual >= cb.ParameterCount() {
			return nil
		}
		return fmt.Errorf("%w: variadic callback needs at least %d operands, production has %d", grammar.ErrArityMismatch, cb.ParameterCount(), actual)
	}
	if isVarArgs {
		// A variadic production may legitimately bind to a fixed-arity
		// callback only when its actual operand count matches exactly.
		if cb.ParameterCount() == actual {
			return nil
		}
		return fmt.Errorf("%w: fixed callback declares %d operands, variadic production has %d", grammar.ErrArityMismatch, cb.ParameterCount(), actual)
	}
	if cb.ParameterCount() != actual {
		return fmt.Errorf("%w: callback declares %d operands, production has %d", grammar.ErrArityMismatch, cb.ParameterCount(), actual)
	}
	return nil
}
