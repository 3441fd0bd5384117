package grammar

// Node is the consumer-supplied input-tree interface (spec §6). The core
// never constructs a Node; it only reads NodeType/SubtreeCount/Subtree during
// labeling and writes the assigned state number back via SetStateNumber.
type Node[T comparable] interface {
	NodeType() T
	SubtreeCount() int
	Subtree(i int) Node[T]
	StateNumber() int
	SetStateNumber(n int)
}

// UnlabeledState is the sentinel state number a Node carries before Label
// visits it, and the value Label writes back when a node's (NodeType,arity)
// combination has no registered Operator. State numbers assigned by
// GenerateStates start at 1, so 0 unambiguously means "unlabeled" without the
// caller having to initialize anything (spec design note: "choose one and
// document").
const UnlabeledState = 0
