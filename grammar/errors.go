package grammar

import "errors"

// Sentinel causes. Callers should compare with errors.Is against these, not
// against the wrapping error returned by State.GetProduction, Reducer.Reduce,
// etc., since those wrap a sentinel with positional context via fmt.Errorf's
// %w verb.
var (
	// ErrNoProduction is returned when a state cannot produce a requested
	// nonterminal, neither directly via a pattern match nor transitively via
	// a closure chain.
	ErrNoProduction = errors.New("no production reaches the requested nonterminal")

	// ErrUnlabeledNode is returned when a reduce is attempted on a node that
	// was never labeled, or whose operator set cannot classify its node
	// type/arity combination.
	ErrUnlabeledNode = errors.New("node has no assigned state")

	// ErrMissingTransition is returned when a HyperPlane lookup fails during
	// labeling. It indicates a bug in the generator or a grammar that does
	// not type the input tree being labeled; a correctly generated table
	// driven by a well-typed tree must never hit this.
	ErrMissingTransition = errors.New("no transition for this child state tuple")

	// ErrArityMismatch is returned when a registered callback's declared
	// parameter count or variadic-ness disagrees with the structural arity
	// of the production invoking it.
	ErrArityMismatch = errors.New("callback arity does not match production arity")

	// ErrClosureCycle is returned at grammar-load time (from
	// ProductionTable.GenerateStates) when the registered closures contain a
	// cycle among nonterminals.
	ErrClosureCycle = errors.New("cycle detected among closures")

	// ErrUnsupportedFormat is returned by ProductionTable.Dump when asked for
	// a format other than "xml", the only renderer this package implements.
	ErrUnsupportedFormat = errors.New("unsupported dump format")
)
