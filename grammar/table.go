package grammar

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// GenerateOption configures ProductionTable.GenerateStates, following the
// functional-options shape used across the retrieved pack (e.g.
// katalvlaran/lvlath's builder.BuilderOption).
type GenerateOption func(*genConfig)

type genConfig struct {
	logger zerolog.Logger
}

// WithLogger overrides the zerolog.Logger state generation reports progress
// to. The default is the global github.com/rs/zerolog/log logger.
func WithLogger(logger zerolog.Logger) GenerateOption {
	return func(c *genConfig) {
		c.logger = logger
	}
}

// PatternOption configures the optional fields of a registered PatternMatcher.
type PatternOption[N comparable, T comparable] func(*PatternMatcher[N, T])

// WithPredicate attaches a dynamic guard evaluated by Reducer.Reduce before
// the pattern's callbacks run (see Predicate's doc comment).
func WithPredicate[N comparable, T comparable](p Predicate[T]) PatternOption[N, T] {
	return func(pm *PatternMatcher[N, T]) { pm.predicate = p }
}

// WithPatternPreCallback attaches a preCallback invoked once, right before a
// matched pattern's operands are reduced.
func WithPatternPreCallback[N comparable, T comparable](pc PreCallback[N, T]) PatternOption[N, T] {
	return func(pm *PatternMatcher[N, T]) { pm.preCallback = pc }
}

// ClosureOption configures the optional preCallback field of a registered
// Closure.
type ClosureOption[N comparable, T comparable] func(*Closure[N, T])

// WithClosurePreCallback attaches a preCallback invoked once per closure
// frame as Reducer.Reduce walks the closure chain toward a pattern match.
func WithClosurePreCallback[N comparable, T comparable](pc PreCallback[N, T]) ClosureOption[N, T] {
	return func(c *Closure[N, T]) { c.preCallback = pc }
}

// ProductionTable orchestrates state generation (spec §4.6): it owns every
// registered production, every Operator grouping, and the canonical State
// set, and drives the leaf-seeding / worklist / project / permute / closure
// / dedup fixed point that produces them. Once GenerateStates returns, the
// table is read-only: its canonical state set lives in an xsync.MapOf, which
// serves concurrent lookups from many Reducers with no locking (spec §5),
// rather than a map guarded by a sync.RWMutex the teacher might reach for.
type ProductionTable[N comparable, T comparable] struct {
	id uuid.UUID

	registry productionRegistry
	patterns []*PatternMatcher[N, T]
	closures []*Closure[N, T]

	operators       map[operatorKey[T]]*Operator[N, T]
	operatorsByType map[T][]*Operator[N, T]
	usedAt          map[*Operator[N, T]][]map[N]struct{}

	states          *xsync.MapOf[stateKey, *State[N, T]]
	statesByNumber  []*State[N, T] // statesByNumber[i] holds the state numbered i+1
	nextStateNumber int

	generated bool
	logger    zerolog.Logger
}

// NewProductionTable creates an empty table ready to accept registrations.
func NewProductionTable[N comparable, T comparable]() *ProductionTable[N, T] {
	id, err := uuid.NewRandom()
	if err != nil {
		id = uuid.Nil
	}
	return &ProductionTable[N, T]{
		id:              id,
		operators:       map[operatorKey[T]]*Operator[N, T]{},
		operatorsByType: map[T][]*Operator[N, T]{},
		states:          xsync.NewMapOf[stateKey, *State[N, T]](),
		nextStateNumber: 1,
		logger:          log.Logger,
	}
}

// ID returns the generation-scoped identifier stamped on Dump output.
func (pt *ProductionTable[N, T]) ID() uuid.UUID { return pt.id }

func (pt *ProductionTable[N, T]) operatorFor(nodeType T, arity int, isVarArgs bool) *Operator[N, T] {
	key := operatorKey[T]{nodeType, arity}
	if op, ok := pt.operators[key]; ok {
		return op
	}
	op := newOperator[N, T](nodeType, arity, isVarArgs)
	pt.operators[key] = op
	pt.operatorsByType[nodeType] = append(pt.operatorsByType[nodeType], op)
	return op
}

// AddPatternMatch registers a fixed-arity production: target is produced
// from a node of nodeType with len(childTypes) operands, each expected to
// already produce the corresponding entry of childTypes, at ownCost plus the
// sum of operand costs.
func (pt *ProductionTable[N, T]) AddPatternMatch(target N, nodeType T, ownCost Cost, callback ActionCallback[T], childTypes []N, opts ...PatternOption[N, T]) (*PatternMatcher[N, T], error) {
	return pt.addPatternMatch(target, nodeType, ownCost, callback, childTypes, false, opts...)
}

// AddVarArgsPatternMatch registers a variadic production: the last entry of
// childTypes repeats for any operand beyond len(childTypes)-1. childTypes
// must be non-empty, since a variadic matcher needs a "last" type to repeat.
func (pt *ProductionTable[N, T]) AddVarArgsPatternMatch(target N, nodeType T, ownCost Cost, callback ActionCallback[T], childTypes []N, opts ...PatternOption[N, T]) (*PatternMatcher[N, T], error) {
	if len(childTypes) == 0 {
		return nil, fmt.Errorf("a variadic pattern match needs at least one child type to repeat")
	}
	return pt.addPatternMatch(target, nodeType, ownCost, callback, childTypes, true, opts...)
}

func (pt *ProductionTable[N, T]) addPatternMatch(target N, nodeType T, ownCost Cost, callback ActionCallback[T], childTypes []N, isVarArgs bool, opts ...PatternOption[N, T]) (*PatternMatcher[N, T], error) {
	if pt.generated {
		return nil, fmt.Errorf("cannot register productions after GenerateStates has run")
	}
	if ownCost < 0 {
		return nil, fmt.Errorf("pattern match cost must be >= 0, got %d", ownCost)
	}

	p := &PatternMatcher[N, T]{
		pid:          pt.registry.nextID(),
		target:       target,
		nodeType:     nodeType,
		childTypes:   append([]N(nil), childTypes...),
		ownCost:      ownCost,
		isVarArgs:    isVarArgs,
		postCallback: callback,
	}
	for _, opt := range opts {
		opt(p)
	}

	pt.patterns = append(pt.patterns, p)
	op := pt.operatorFor(nodeType, len(childTypes), isVarArgs)
	op.patterns = append(op.patterns, p)
	if isVarArgs {
		op.isVarArgs = true
	}
	if len(childTypes) == 0 {
		// leafState is assigned during generateLeafStates; nothing to do yet.
	}
	return p, nil
}

// AddClosure registers a unit production: target is produced from source at
// ownCost plus whatever it costs to produce source. target must differ from
// source; ProductionTable.GenerateStates rejects cycles across the whole
// registered closure set.
func (pt *ProductionTable[N, T]) AddClosure(target, source N, ownCost Cost, callback ActionCallback[T], opts ...ClosureOption[N, T]) (*Closure[N, T], error) {
	if pt.generated {
		return nil, fmt.Errorf("cannot register productions after GenerateStates has run")
	}
	if ownCost < 0 {
		return nil, fmt.Errorf("closure cost must be >= 0, got %d", ownCost)
	}
	if err := validateClosureEndpoints(target, source); err != nil {
		return nil, err
	}

	c := &Closure[N, T]{
		cid:          pt.registry.nextID(),
		target:       target,
		source:       source,
		ownCost:      ownCost,
		postCallback: callback,
	}
	for _, opt := range opts {
		opt(c)
	}
	pt.closures = append(pt.closures, c)
	return c, nil
}

// StateByNumber returns the canonical state assigned n, if any.
func (pt *ProductionTable[N, T]) StateByNumber(n int) (*State[N, T], bool) {
	idx := n - 1
	if idx < 0 || idx >= len(pt.statesByNumber) {
		return nil, false
	}
	return pt.statesByNumber[idx], true
}

// OperatorFor returns the Operator that should label a node of nodeType with
// k actual operands: an exact (nodeType, k) match if one was registered,
// else the most specific variadic operator for nodeType whose arity is <= k.
func (pt *ProductionTable[N, T]) OperatorFor(nodeType T, k int) (*Operator[N, T], bool) {
	if op, ok := pt.operators[operatorKey[T]{nodeType, k}]; ok {
		return op, true
	}
	var best *Operator[N, T]
	for _, op := range pt.operatorsByType[nodeType] {
		if !op.isVarArgs || op.arity > k {
			continue
		}
		if best == nil || op.arity > best.arity {
			best = op
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

// dedupe canonicalizes candidate against the global state set: if an
// equal-keyed state already exists, it is returned (discarding candidate);
// otherwise candidate is assigned the next state number and inserted.
func (pt *ProductionTable[N, T]) dedupe(candidate *State[N, T]) (*State[N, T], bool) {
	key := candidate.key()
	if existing, ok := pt.states.Load(key); ok {
		return existing, false
	}
	candidate.number = pt.nextStateNumber
	pt.nextStateNumber++
	actual, loaded := pt.states.LoadOrStore(key, candidate)
	if loaded {
		// Lost a race against an equal candidate inserted concurrently.
		// GenerateStates itself is single-threaded (spec §5), so this only
		// guards against a future concurrent caller; roll the number back.
		pt.nextStateNumber--
		return actual, false
	}
	pt.statesByNumber = append(pt.statesByNumber, candidate)
	return candidate, true
}

// Label runs pass 1 of the two-pass reducer (spec §4.7) over node and its
// subtree, post-order, storing each classified node's assigned state number
// via Node.SetStateNumber. A node whose (NodeType, arity) has no registered
// Operator is left at UnlabeledState; a node whose children ARE classified
// but whose exact transition was never generated fails with
// ErrMissingTransition, since that indicates the tree does not actually
// conform to the grammar that typed it.
func (pt *ProductionTable[N, T]) Label(node Node[T]) error {
	n := node.SubtreeCount()
	for i := 0; i < n; i++ {
		if err := pt.Label(node.Subtree(i)); err != nil {
			return err
		}
	}

	op, ok := pt.OperatorFor(node.NodeType(), n)
	if !ok {
		node.SetStateNumber(UnlabeledState)
		return nil
	}

	if n == 0 {
		node.SetStateNumber(op.LeafState().Number())
		return nil
	}

	childNums := make([]int, n)
	for i := 0; i < n; i++ {
		childNums[i] = node.Subtree(i).StateNumber()
	}
	result, err := op.Label(childNums)
	if err != nil {
		return err
	}
	node.SetStateNumber(result.Number())
	return nil
}

// CanProduce labels node if necessary and reports whether its resulting
// state can produce goal, without invoking any callback.
func (pt *ProductionTable[N, T]) CanProduce(node Node[T], goal N) (bool, error) {
	if node.StateNumber() == UnlabeledState {
		if err := pt.Label(node); err != nil {
			return false, err
		}
	}
	state, ok := pt.StateByNumber(node.StateNumber())
	if !ok {
		return false, fmt.Errorf("%w", ErrUnlabeledNode)
	}
	_, err := state.GetProduction(goal)
	if err != nil {
		return false, nil
	}
	return true, nil
}
