package grammar

import (
	"fmt"
	"sort"
	"strings"
)

// stateKey is the canonical signature a State hashes and dedups on. Per spec
// §3/§4.2, identity depends ONLY on nodeType and patterns — never on costs or
// closures, since closures can inflate costs across fixed-point iterations
// without carrying new information; hashing cost would make the worklist
// never converge (spec design note §9).
type stateKey string

// State is an equivalence class of input subtrees: the set of nonterminals
// it can produce, each either by a directly matched pattern or transitively
// by a closure, at minimum cost.
type State[N comparable, T comparable] struct {
	nodeType    T
	hasNodeType bool

	patterns     map[N]*PatternMatcher[N, T]
	patternCosts map[N]Cost
	closures     map[N]*Closure[N, T]

	number   int // -1 until inserted into the canonical state set
	finished bool
}

func newState[N comparable, T comparable](nodeType T, hasNodeType bool) *State[N, T] {
	return &State[N, T]{
		nodeType:     nodeType,
		hasNodeType:  hasNodeType,
		patterns:     map[N]*PatternMatcher[N, T]{},
		patternCosts: map[N]Cost{},
		closures:     map[N]*Closure[N, T]{},
		number:       -1,
	}
}

// Number returns the state's assigned number, or -1 if it has not yet been
// inserted into the canonical state set.
func (s *State[N, T]) Number() int { return s.number }

// NodeType returns the node type this state classifies, and whether it has
// one at all (a null-guard state has none).
func (s *State[N, T]) NodeType() (T, bool) { return s.nodeType, s.hasNodeType }

// IsEmpty reports whether the state has recorded no patterns at all. An
// empty candidate state carries no information and must not be inserted
// into the canonical set or pushed onto the worklist.
func (s *State[N, T]) IsEmpty() bool { return len(s.patterns) == 0 }

// SetPatternProduction records p as the production for p.Target(), with the
// precondition (spec §4.2/§4.6) that cost is no worse than the state's
// current cost for p.Target(). Equal cost is accepted, not just strict
// improvement: on a tie between two patterns producing the same nonterminal,
// the later-registered pattern must win (spec §4.6 tie-breaking, scenario
// S3), and callers present candidates in registration order, so accepting
// ties lets the later call overwrite the earlier one. The check is
// re-verified defensively here rather than trusted blindly, since a violated
// precondition would silently corrupt the state's canonical key.
func (s *State[N, T]) SetPatternProduction(p *PatternMatcher[N, T], cost Cost) {
	if cost > s.GetCost(p.Target()) {
		return
	}
	s.patterns[p.Target()] = p
	s.patternCosts[p.Target()] = cost
}

// GetCost returns the minimum cost at which this state can produce n: direct
// pattern cost if one is recorded, else the best closure chain's cost
// (recursively, guaranteed to terminate by the closure acyclicity
// invariant), else Infinite.
func (s *State[N, T]) GetCost(n N) Cost {
	if c, ok := s.patternCosts[n]; ok {
		return c
	}
	if c, ok := s.closures[n]; ok {
		return AddCost(c.Cost(), s.GetCost(c.Source()))
	}
	return Infinite
}

// GetProduction returns the production that produces n: the pattern if one
// is recorded, else the closure, else ErrNoProduction.
func (s *State[N, T]) GetProduction(n N) (Production[N, T], error) {
	if p, ok := s.patterns[n]; ok {
		return p, nil
	}
	if c, ok := s.closures[n]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrNoProduction, n)
}

// AddClosure accepts c iff its cost (its own cost plus the cost of producing
// its source) improves on the state's current cost for its target, and the
// state has not yet been finished. It returns whether c was accepted.
func (s *State[N, T]) AddClosure(c *Closure[N, T]) bool {
	if s.finished {
		return false
	}
	cost := AddCost(c.Cost(), s.GetCost(c.Source()))
	if cost >= s.GetCost(c.Target()) {
		return false
	}
	s.closures[c.Target()] = c
	return true
}

// IsVarArgs reports whether every pattern recorded in this state is
// variadic. Vacuously true for a state with no patterns.
func (s *State[N, T]) IsVarArgs() bool {
	for _, p := range s.patterns {
		if !p.IsVarArgs() {
			return false
		}
	}
	return true
}

// key computes the canonical signature used for dedup: nodeType plus the
// sorted (nonterminal, production id) pairs of patterns only — closures and
// costs are deliberately excluded, see the stateKey doc comment.
func (s *State[N, T]) key() stateKey {
	type entry struct {
		n   N
		pid productionID
	}
	entries := make([]entry, 0, len(s.patterns))
	for n, p := range s.patterns {
		entries = append(entries, entry{n, p.id()})
	}
	sort.Slice(entries, func(i, j int) bool {
		return fmt.Sprint(entries[i].n) < fmt.Sprint(entries[j].n)
	})

	var b strings.Builder
	if s.hasNodeType {
		fmt.Fprintf(&b, "%v", s.nodeType)
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "|%v:%d", e.n, e.pid)
	}
	return stateKey(b.String())
}
