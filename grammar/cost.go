package grammar

import "math"

// Cost is the wide cost type used throughout state generation. It is kept as
// a 64-bit signed integer so that chains of additions over deeply nested
// trees cannot overflow the way a 32-bit accumulator could.
type Cost int64

// Infinite is the sentinel meaning "no production reaches this cost". Any
// value at or above Infinite is treated as infinite; the comparison uses >=
// rather than == so that a saturated sum of two already-large costs is still
// recognized as infinite.
const Infinite Cost = Cost(math.MaxInt32)

// IsInfinite reports whether c is at or beyond the Infinite sentinel.
func (c Cost) IsInfinite() bool {
	return c >= Infinite
}

// AddCost adds two costs, saturating at Infinite instead of overflowing.
// Guarding the addition this way means infinity + x == infinity always holds,
// which state generation (see ProductionTable.buildCandidate) relies on to short
// circuit a pattern as soon as any one of its operands is unreachable.
func AddCost(a, b Cost) Cost {
	if a.IsInfinite() || b.IsInfinite() {
		return Infinite
	}
	sum := a + b
	if sum.IsInfinite() {
		return Infinite
	}
	return sum
}
