package grammar

import "fmt"

// GenerateStates runs the fixed-point state generation algorithm (spec
// §4.6): seed leaf states from every arity-0 operator, then repeatedly pop an
// operand state off a worklist, project it onto every operator/dimension
// pair that could consume it, permute it against every already-known
// representer state at the other dimensions, apply closures to each
// resulting candidate, and canonicalize the result into the global state
// set, pushing genuinely new states back onto the worklist. The loop
// terminates once the worklist drains, which State.key's pattern-only
// identity guarantees happens in finite time (spec design note §9(iii)):
// there are only finitely many (nodeType, pattern-set) combinations.
//
// GenerateStates may be called at most once; a second call, like any
// production registered afterward, is rejected with an error.
func (pt *ProductionTable[N, T]) GenerateStates(opts ...GenerateOption) error {
	if pt.generated {
		return fmt.Errorf("GenerateStates has already run on this table")
	}
	cfg := genConfig{logger: pt.logger}
	for _, opt := range opts {
		opt(&cfg)
	}
	pt.logger = cfg.logger

	if err := checkClosureAcyclic(pt.closures); err != nil {
		return err
	}

	pt.usedNonterminals()

	worklist := pt.generateLeafStates()
	pt.logger.Debug().Int("leaf_states", len(worklist)).Msg("burs: leaf states seeded")

	for len(worklist) > 0 {
		n := len(worklist) - 1
		s := worklist[n]
		worklist = worklist[:n]

		for _, op := range pt.operators {
			if op.arity == 0 {
				continue
			}
			for dim := 0; dim < op.arity; dim++ {
				newStates := pt.project(op, dim, s)
				worklist = append(worklist, newStates...)
			}
		}
	}

	// Build every operator's state-number index now, so that Label on the
	// generated table only reads it.
	for _, op := range pt.operators {
		op.ensureNumberIndex()
	}

	pt.generated = true
	pt.logger.Info().
		Int("states", len(pt.statesByNumber)).
		Int("operators", len(pt.operators)).
		Msg("burs: state generation complete")
	return nil
}

// usedNonterminals computes, per operator and per operand position, the set
// of nonterminals some registered pattern actually reads there — the
// projection RepresenterState needs (spec §4.3). Stored on the table
// (usedAt) rather than on each Operator, since it is only consulted during
// generation.
func (pt *ProductionTable[N, T]) usedNonterminals() map[*Operator[N, T]][]map[N]struct{} {
	used := map[*Operator[N, T]][]map[N]struct{}{}
	for _, op := range pt.operators {
		if op.arity == 0 {
			continue
		}
		perDim := make([]map[N]struct{}, op.arity)
		for i := range perDim {
			perDim[i] = map[N]struct{}{}
		}
		for _, p := range op.patterns {
			for i := 0; i < op.arity; i++ {
				perDim[i][p.GetNonterminal(i)] = struct{}{}
			}
		}
		used[op] = perDim
	}
	pt.usedAt = used
	return used
}

// generateLeafStates builds the single candidate state for every arity-0
// operator from its patterns' own costs, applies closures, canonicalizes it,
// and returns the resulting set of newly-created states to seed the
// worklist.
func (pt *ProductionTable[N, T]) generateLeafStates() []*State[N, T] {
	var worklist []*State[N, T]
	for _, op := range pt.operators {
		if op.arity != 0 {
			continue
		}
		candidate := newState[N, T](op.nodeType, true)
		for _, p := range op.patterns {
			cost := p.Cost()
			// <= rather than < so that on a cost tie the later-registered
			// pattern wins, per spec §4.6's tie-breaking rule (scenario S3).
			if cost <= candidate.GetCost(p.Target()) {
				candidate.SetPatternProduction(p, cost)
			}
		}
		if candidate.IsEmpty() {
			continue
		}
		applyClosure(candidate, pt.closures)
		canonical, isNew := pt.dedupe(candidate)
		op.leafState = canonical
		if isNew {
			worklist = append(worklist, canonical)
		}
	}
	return worklist
}

// project registers s as a known operand at (op, dim): if s's projection
// there is a RepresenterState already known at that dimension, it is merely
// recorded as represented by s and no new work follows; otherwise the
// projection is newly inserted and permute enumerates every candidate parent
// state it can now form together with the other dimensions' known
// representer states.
func (pt *ProductionTable[N, T]) project(op *Operator[N, T], dim int, s *State[N, T]) []*State[N, T] {
	used := pt.usedAt[op][dim]
	if len(used) == 0 {
		return nil
	}
	costs := map[N]Cost{}
	for n := range used {
		c := s.GetCost(n)
		if !c.IsInfinite() {
			costs[n] = c
		}
	}
	candidate := newRepresenterState[N, T](op.nodeType, costs)
	rs, isNewRS := op.representerStateAt(dim, candidate)
	rs.addRepresented(s)
	if !isNewRS {
		return nil
	}
	return pt.permute(op, dim, rs)
}

// permute enumerates every tuple of RepresenterStates across op's operand
// dimensions with pivot fixed at dim, forming one candidate parent state per
// tuple from the patterns whose every operand cost is finite, and
// canonicalizes each into the global state set.
func (pt *ProductionTable[N, T]) permute(op *Operator[N, T], dim int, pivot *RepresenterState[N, T]) []*State[N, T] {
	choices := make([][]*RepresenterState[N, T], op.arity)
	for i := 0; i < op.arity; i++ {
		if i == dim {
			choices[i] = []*RepresenterState[N, T]{pivot}
			continue
		}
		choices[i] = op.repOrder[i]
		if len(choices[i]) == 0 {
			// An unresolved dimension means no complete tuple can exist yet.
			return nil
		}
	}

	var newStates []*State[N, T]
	tuple := make([]*RepresenterState[N, T], op.arity)
	var rec func(i int)
	rec = func(i int) {
		if i == op.arity {
			if s, isNew := pt.buildCandidate(op, tuple); s != nil {
				if isNew {
					newStates = append(newStates, s)
				}
			}
			return
		}
		for _, rs := range choices[i] {
			tuple[i] = rs
			rec(i + 1)
		}
	}
	rec(0)
	return newStates
}

// buildCandidate sums costs across tuple for every pattern of op, records the
// best-cost pattern per target, applies closures, canonicalizes the result,
// and installs the resulting transition. Returns (nil, false) if no
// pattern's full operand cost was finite (no transition to install).
func (pt *ProductionTable[N, T]) buildCandidate(op *Operator[N, T], tuple []*RepresenterState[N, T]) (*State[N, T], bool) {
	candidate := newState[N, T](op.nodeType, true)
	for _, p := range op.patterns {
		cost := p.Cost()
		infinite := false
		for dim := 0; dim < op.arity; dim++ {
			c := tuple[dim].GetCost(p.GetNonterminal(dim))
			if c.IsInfinite() {
				infinite = true
				break
			}
			cost = AddCost(cost, c)
			if cost.IsInfinite() {
				infinite = true
				break
			}
		}
		if infinite {
			continue
		}
		// <= rather than < so that on a cost tie the later-registered
		// pattern wins, per spec §4.6's tie-breaking rule (scenario S3).
		if cost <= candidate.GetCost(p.Target()) {
			candidate.SetPatternProduction(p, cost)
		}
	}
	if candidate.IsEmpty() {
		return nil, false
	}

	applyClosure(candidate, pt.closures)
	canonical, isNew := pt.dedupe(candidate)
	op.addTransition(tuple, canonical)
	return canonical, isNew
}
