package grammar

import "fmt"

// operatorKey groups every pattern sharing (nodeType, arity) into one
// Operator (spec §4.4).
type operatorKey[T comparable] struct {
	nodeType T
	arity    int
}

// Operator owns the transition table for every pattern sharing a node type
// and declared arity: one RepresenterState set per operand position, the
// root of the HyperPlane decision tree, and — for arity 0 — the single leaf
// state every zero-operand node of this type labels to.
type Operator[N comparable, T comparable] struct {
	nodeType  T
	arity     int
	isVarArgs bool

	patterns []*PatternMatcher[N, T]

	// reps[i] is the set of RepresenterStates known at operand position i,
	// keyed by their canonical signature for O(1) "already known" checks.
	reps []map[representerKey]*RepresenterState[N, T]
	// repOrder preserves insertion order per dimension, since permute must
	// enumerate every known representer state at each non-pivot dimension.
	repOrder [][]*RepresenterState[N, T]

	root      *HyperPlane[N, T]
	leafState *State[N, T]

	// numberIndex maps a labeled child's state number to the RepresenterState
	// containing it, per dimension. Built by ensureNumberIndex once
	// GenerateStates has drained its worklist, so that Label only reads it
	// when looking child states up by number instead of by RepresenterState.
	numberIndex []map[int]*RepresenterState[N, T]
}

func newOperator[N comparable, T comparable](nodeType T, arity int, isVarArgs bool) *Operator[N, T] {
	op := &Operator[N, T]{
		nodeType:  nodeType,
		arity:     arity,
		isVarArgs: isVarArgs,
		reps:      make([]map[representerKey]*RepresenterState[N, T], arity),
		repOrder:  make([][]*RepresenterState[N, T], arity),
	}
	for i := range op.reps {
		op.reps[i] = map[representerKey]*RepresenterState[N, T]{}
	}
	if arity > 0 {
		op.root = newHyperPlane[N, T]()
	}
	return op
}

// Key returns the (nodeType, arity) grouping key for this operator.
func (op *Operator[N, T]) Key() operatorKey[T] { return operatorKey[T]{op.nodeType, op.arity} }

// Arity returns the operator's declared arity (the number of operand
// positions its patterns explicitly mention).
func (op *Operator[N, T]) Arity() int { return op.arity }

// IsVarArgs reports whether at least one pattern registered under this
// operator is variadic, meaning the operator's HyperPlane may contain
// self-loops at its final dimension and ProductionTable.OperatorFor accepts
// it for any actual arity >= Arity().
func (op *Operator[N, T]) IsVarArgs() bool { return op.isVarArgs }

// LeafState returns the operator's zero-arity leaf state, if any.
func (op *Operator[N, T]) LeafState() *State[N, T] { return op.leafState }

// representerStateAt returns the known RepresenterState at dimension dim
// with the given signature, inserting it if absent, and reports whether it
// was newly inserted.
func (op *Operator[N, T]) representerStateAt(dim int, rs *RepresenterState[N, T]) (*RepresenterState[N, T], bool) {
	if existing, ok := op.reps[dim][rs.Key()]; ok {
		return existing, false
	}
	op.reps[dim][rs.Key()] = rs
	op.repOrder[dim] = append(op.repOrder[dim], rs)
	op.numberIndex = nil // invalidate the lazily-built lookup index
	return rs, true
}

// addTransition installs the transition from a tuple of RepresenterStates
// (one per operand position) to result, in this operator's HyperPlane.
func (op *Operator[N, T]) addTransition(childReps []*RepresenterState[N, T], result *State[N, T]) {
	op.root.add(childReps, 0, result)
}

// ensureNumberIndex (re)builds the per-dimension state-number -> representer
// lookup index used by Label if the representer sets changed since it was
// last built. GenerateStates calls it for every operator before returning,
// so on a generated table the call from Label finds the index built and
// writes nothing.
func (op *Operator[N, T]) ensureNumberIndex() {
	if op.numberIndex != nil {
		return
	}
	idx := make([]map[int]*RepresenterState[N, T], op.arity)
	for dim := 0; dim < op.arity; dim++ {
		m := map[int]*RepresenterState[N, T]{}
		for _, rs := range op.repOrder[dim] {
			for s := range rs.represented {
				m[s.number] = rs
			}
		}
		idx[dim] = m
	}
	op.numberIndex = idx
}

// RepresenterStateFor returns the RepresenterState at dimension dim
// containing the state numbered childStateNumber. Dimension indices at or
// beyond Arity()-1 clamp to Arity()-1, since a variadic operator projects
// every operand past its declared arity onto the same final-position
// representer set (spec §4.4/§4.7).
func (op *Operator[N, T]) RepresenterStateFor(childStateNumber int, dim int) (*RepresenterState[N, T], error) {
	if dim >= op.arity {
		dim = op.arity - 1
	}
	op.ensureNumberIndex()
	rs, ok := op.numberIndex[dim][childStateNumber]
	if !ok {
		return nil, fmt.Errorf("%w: no representer state at dimension %d for child state %d", ErrMissingTransition, dim, childStateNumber)
	}
	return rs, nil
}

// Label walks the operator's HyperPlane for the given actual child state
// numbers (which may exceed Arity() for a variadic operator) and returns the
// resulting parent state.
func (op *Operator[N, T]) Label(childStateNumbers []int) (*State[N, T], error) {
	if len(childStateNumbers) == 0 {
		if op.leafState == nil {
			return nil, fmt.Errorf("%w: operator has no leaf state", ErrMissingTransition)
		}
		return op.leafState, nil
	}

	hp := op.root
	last := len(childStateNumbers) - 1
	for dim := 0; dim < last; dim++ {
		rs, err := op.RepresenterStateFor(childStateNumbers[dim], dim)
		if err != nil {
			return nil, err
		}
		hp, err = hp.getNextDimension(rs)
		if err != nil {
			return nil, err
		}
	}

	rs, err := op.RepresenterStateFor(childStateNumbers[last], last)
	if err != nil {
		return nil, err
	}
	return hp.getResultState(rs)
}
