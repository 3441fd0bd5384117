package grammar

import "fmt"

// applyClosure repeatedly scans the registered closures and accepts any
// whose source is now reachable and whose target is not, until a pass makes
// no change — the same "loop until no more changes" shape the teacher uses
// to compute FIRST/FOLLOW sets (grammar/first.go's genFirstSet,
// grammar/follow.go). Termination is guaranteed by closure acyclicity: each
// acceptance strictly grows the set of nonterminals s can produce, and that
// set is bounded by the number of registered closures.
//
// Restricting acceptance to nonterminals s cannot otherwise produce
// (GetCost(target) still Infinite) is what spec §4.6 relies on to guarantee
// a closure can never displace a pattern match, which in turn is what keeps
// State.key's pattern-only identity sound (spec design note §9(iii)).
func applyClosure[N comparable, T comparable](s *State[N, T], closures []*Closure[N, T]) {
	for {
		changed := false
		for _, c := range closures {
			if !s.GetCost(c.Target()).IsInfinite() {
				continue
			}
			if s.GetCost(c.Source()).IsInfinite() {
				continue
			}
			if s.AddClosure(c) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	s.finished = true
}

// checkClosureAcyclic validates, once over the whole registered closure set,
// that no cycle exists among nonterminals linked by a closure's
// source -> target edge. It runs once at GenerateStates time (spec §7:
// ErrClosureCycle is "surfaced at grammar-load time"), not per state, since
// the check only depends on the grammar, not on any particular State.
func checkClosureAcyclic[N comparable, T comparable](closures []*Closure[N, T]) error {
	edges := map[N][]N{}
	for _, c := range closures {
		edges[c.Source()] = append(edges[c.Source()], c.Target())
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := map[N]int{}

	var visit func(n N, path []N) error
	visit = func(n N, path []N) error {
		switch state[n] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %v", ErrClosureCycle, append(path, n))
		}
		state[n] = visiting
		for _, next := range edges[n] {
			if err := visit(next, append(path, n)); err != nil {
				return err
			}
		}
		state[n] = done
		return nil
	}

	for n := range edges {
		if err := visit(n, nil); err != nil {
			return err
		}
	}
	return nil
}
