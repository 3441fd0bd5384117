package grammar

import "fmt"

// HyperPlane is one dimension of the multi-dimensional map from child-state
// tuples to parent states that an Operator owns. A plane is either
// intermediate (nextDimension only), final (finalDimension only), or both at
// once — the "both" case is how a variadic matcher's trailing dimension
// loops back on itself to accept any number of additional operands (spec
// §4.5 / design note §9: modeled as an index/reference into the Operator's
// own arena rather than an embedded owning pointer, so "self" is just this
// same *HyperPlane value).
type HyperPlane[N comparable, T comparable] struct {
	nextDimension  map[representerKey]*HyperPlane[N, T]
	finalDimension map[representerKey]*State[N, T]
	repByKey       map[representerKey]*RepresenterState[N, T]
}

func newHyperPlane[N comparable, T comparable]() *HyperPlane[N, T] {
	return &HyperPlane[N, T]{
		nextDimension:  map[representerKey]*HyperPlane[N, T]{},
		finalDimension: map[representerKey]*State[N, T]{},
		repByKey:       map[representerKey]*RepresenterState[N, T]{},
	}
}

// add inserts a path of length len(childReps)-dim into the plane tree,
// descending from this plane, writing result at the leaf. When result is
// variadic in every position (State.IsVarArgs), the leaf key is also
// installed into nextDimension pointing back to the same plane, so that
// further operands beyond the declared arity keep resolving through this
// same final dimension (spec §4.5).
func (hp *HyperPlane[N, T]) add(childReps []*RepresenterState[N, T], dim int, result *State[N, T]) {
	rs := childReps[dim]
	key := rs.Key()
	hp.repByKey[key] = rs

	if dim == len(childReps)-1 {
		hp.finalDimension[key] = result
		if result.IsVarArgs() {
			hp.nextDimension[key] = hp
		}
		return
	}

	next, ok := hp.nextDimension[key]
	if !ok {
		next = newHyperPlane[N, T]()
		hp.nextDimension[key] = next
	}
	next.add(childReps, dim+1, result)
}

// getNextDimension returns the child plane reached by rs, or
// ErrMissingTransition if no transition was ever installed for it.
func (hp *HyperPlane[N, T]) getNextDimension(rs *RepresenterState[N, T]) (*HyperPlane[N, T], error) {
	next, ok := hp.nextDimension[rs.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: no next dimension for representer state %v", ErrMissingTransition, rs.Key())
	}
	return next, nil
}

// getResultState returns the result state reached by rs in this plane's
// final dimension, or ErrMissingTransition if none was installed.
func (hp *HyperPlane[N, T]) getResultState(rs *RepresenterState[N, T]) (*State[N, T], error) {
	s, ok := hp.finalDimension[rs.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: no result state for representer state %v", ErrMissingTransition, rs.Key())
	}
	return s, nil
}

// isVarArgs reports whether every final state reachable from this plane is
// variadic, and every child plane this plane transitions through is either
// itself a self-loop or recursively variadic (spec §4.5). It is a
// diagnostic, not used by label/reduce.
func (hp *HyperPlane[N, T]) isVarArgs() bool {
	for _, s := range hp.finalDimension {
		if !s.IsVarArgs() {
			return false
		}
	}
	for _, next := range hp.nextDimension {
		if next == hp {
			continue
		}
		if !next.isVarArgs() {
			return false
		}
	}
	return true
}
