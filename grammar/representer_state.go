package grammar

import (
	"fmt"
	"sort"
	"strings"
)

// representerKey is the canonical signature a RepresenterState hashes and
// dedups on: (nodeType, costs) — see RepresenterState doc comment.
type representerKey string

// RepresenterState is the projection of a State onto one operand position of
// one Operator: only the nonterminals that some pattern of that operator
// actually uses at that position are carried forward, each with its cost in
// the projected State. Collapsing States that project to the same
// RepresenterState at a given position is what keeps the operator's
// transition table finite (spec §4.3).
type RepresenterState[N comparable, T comparable] struct {
	nodeType T
	costs    map[N]Cost
	key      representerKey

	represented map[*State[N, T]]struct{}
}

func newRepresenterState[N comparable, T comparable](nodeType T, costs map[N]Cost) *RepresenterState[N, T] {
	rs := &RepresenterState[N, T]{
		nodeType:    nodeType,
		costs:       costs,
		represented: map[*State[N, T]]struct{}{},
	}
	rs.key = computeRepresenterKey(nodeType, costs)
	return rs
}

func computeRepresenterKey[N comparable, T comparable](nodeType T, costs map[N]Cost) representerKey {
	type entry struct {
		n N
		c Cost
	}
	entries := make([]entry, 0, len(costs))
	for n, c := range costs {
		entries = append(entries, entry{n, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		return fmt.Sprint(entries[i].n) < fmt.Sprint(entries[j].n)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%v", nodeType)
	for _, e := range entries {
		fmt.Fprintf(&b, "|%v:%d", e.n, e.c)
	}
	return representerKey(b.String())
}

// Key returns the canonical (nodeType, costs) signature.
func (rs *RepresenterState[N, T]) Key() representerKey { return rs.key }

// GetCost returns the projected cost for n, or Infinite if n was not carried
// forward by this projection (it is absent from costs entirely, per spec
// §4.3: "only those nonterminals that actually appear at that position...
// are carried forward").
func (rs *RepresenterState[N, T]) GetCost(n N) Cost {
	if c, ok := rs.costs[n]; ok {
		return c
	}
	return Infinite
}

// addRepresented records s as one of the States that projected to rs.
func (rs *RepresenterState[N, T]) addRepresented(s *State[N, T]) {
	rs.represented[s] = struct{}{}
}

// contains reports whether s is one of the States that projected to rs.
func (rs *RepresenterState[N, T]) contains(s *State[N, T]) bool {
	_, ok := rs.represented[s]
	return ok
}

// RepresentedStates returns the States that project to rs, for dumping.
func (rs *RepresenterState[N, T]) RepresentedStates() []*State[N, T] {
	out := make([]*State[N, T], 0, len(rs.represented))
	for s := range rs.represented {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].number < out[j].number })
	return out
}
