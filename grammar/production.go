package grammar

import "fmt"

// productionID is assigned in registration order, starting at 1. It is part
// of the identity a State's canonical key hashes over (see State.key) —
// using an incrementing counter rather than a pointer or content hash keeps
// state generation deterministic across runs of the same grammar, which the
// Determinism property (spec §8.1) requires.
type productionID int

// Production is the sum of the two production kinds a grammar can register:
// a PatternMatcher (a tree-pattern rule) or a Closure (a nonterminal-to-
// nonterminal unit production). isProduction is an unexported marker method,
// the same closed-sum-type shape the teacher uses for its conflict interface
// in grammar/parsing_table_builder.go.
type Production[N comparable, T comparable] interface {
	// Target returns the nonterminal this production produces.
	Target() N
	// Cost returns the production's own cost, excluding any operand costs.
	Cost() Cost
	// id returns the registration-order identity used for state hashing.
	id() productionID
	isProduction()
}

// PatternMatcher matches a node of NodeType with Arity() operands, each
// expected to already be labeled with (i.e. able to produce) a particular
// nonterminal, and produces Target() at OwnCost plus the sum of the matched
// operands' costs.
type PatternMatcher[N comparable, T comparable] struct {
	pid          productionID
	target       N
	nodeType     T
	childTypes   []N
	ownCost      Cost
	isVarArgs    bool
	predicate    Predicate[T]
	preCallback  PreCallback[N, T]
	postCallback ActionCallback[T]
}

var _ Production[int, int] = (*PatternMatcher[int, int])(nil)

func (p *PatternMatcher[N, T]) isProduction()    {}
func (p *PatternMatcher[N, T]) id() productionID { return p.pid }
func (p *PatternMatcher[N, T]) Target() N        { return p.target }
func (p *PatternMatcher[N, T]) Cost() Cost        { return p.ownCost }
func (p *PatternMatcher[N, T]) NodeType() T       { return p.nodeType }
func (p *PatternMatcher[N, T]) IsVarArgs() bool   { return p.isVarArgs }
func (p *PatternMatcher[N, T]) Predicate() Predicate[T]         { return p.predicate }
func (p *PatternMatcher[N, T]) PreCallback() PreCallback[N, T]  { return p.preCallback }
func (p *PatternMatcher[N, T]) PostCallback() ActionCallback[T] { return p.postCallback }

// Arity returns the number of declared operand positions (the length of
// childTypes). For a variadic matcher this is the minimum arity; additional
// operands beyond Arity()-1 reuse the last declared nonterminal, see
// GetNonterminal.
func (p *PatternMatcher[N, T]) Arity() int {
	return len(p.childTypes)
}

// IsLeaf reports whether the matcher has zero operands.
func (p *PatternMatcher[N, T]) IsLeaf() bool {
	return len(p.childTypes) == 0
}

// GetNonterminal returns the nonterminal expected at operand position i. For
// a variadic matcher, positions at or beyond Arity()-1 all return the last
// declared child type.
func (p *PatternMatcher[N, T]) GetNonterminal(i int) N {
	if p.isVarArgs && i >= len(p.childTypes)-1 {
		return p.childTypes[len(p.childTypes)-1]
	}
	return p.childTypes[i]
}

// UsesNonterminalAt reports whether operand position i is produced from n by
// this matcher.
func (p *PatternMatcher[N, T]) UsesNonterminalAt(n N, i int) bool {
	return p.GetNonterminal(i) == n
}

// AcceptsDimension reports whether this matcher can be evaluated against a
// tuple of d operands: exactly Arity() for a fixed-arity matcher, or at
// least Arity() for a variadic one.
func (p *PatternMatcher[N, T]) AcceptsDimension(d int) bool {
	if p.isVarArgs {
		return len(p.childTypes) <= d
	}
	return len(p.childTypes) == d
}

// Closure is a unit production: Target is produced from Source at OwnCost
// plus whatever it costs to produce Source. Target must differ from Source;
// ProductionTable.GenerateStates rejects cycles among registered closures.
type Closure[N comparable, T comparable] struct {
	cid          productionID
	target       N
	source       N
	ownCost      Cost
	preCallback  PreCallback[N, T]
	postCallback ActionCallback[T]
}

var _ Production[int, int] = (*Closure[int, int])(nil)

func (c *Closure[N, T]) isProduction()    {}
func (c *Closure[N, T]) id() productionID { return c.cid }
func (c *Closure[N, T]) Target() N        { return c.target }
func (c *Closure[N, T]) Cost() Cost       { return c.ownCost }
func (c *Closure[N, T]) Source() N        { return c.source }
func (c *Closure[N, T]) PreCallback() PreCallback[N, T]   { return c.preCallback }
func (c *Closure[N, T]) PostCallback() ActionCallback[T]  { return c.postCallback }

// productionRegistry assigns monotonically increasing IDs to every
// PatternMatcher and Closure a ProductionTable registers, mirroring the
// teacher's productionSet counter (grammar/production.go in the original).
type productionRegistry struct {
	next productionID
}

func (r *productionRegistry) nextID() productionID {
	r.next++
	return r.next
}

// validateClosureEndpoints checks the one structural rule a Closure must
// satisfy at registration time: target and source must differ. Cycle
// detection across the whole closure set happens later, in
// ProductionTable.GenerateStates, once all closures are known.
func validateClosureEndpoints[N comparable](target, source N) error {
	if target == source {
		return fmt.Errorf("closure target and source must differ: %v", target)
	}
	return nil
}
