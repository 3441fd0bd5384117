// Package arith is the small demonstration grammar the burs CLI builds and
// dumps. It stands in for the grammar front-end parsing spec.md places out
// of scope (§1): a real front end would read productions from a grammar
// file, but this package hand-registers them directly against
// grammar.ProductionTable, the way a generated or hand-written grammar
// front end would.
//
// It is the classic BURS instruction-selection shape: integer constants and
// a Plus/Mult expression tree reduce to either a Con (a value known to fit
// an immediate operand) or a Reg (a value that must occupy a register),
// plus a variadic Seq node that folds any number of Reg-valued statements
// into one Block.
package arith

import (
	"fmt"
	"strings"

	"github.com/bursgen/burs/grammar"
)

// NodeType identifies the shape of a demo tree node.
type NodeType int

const (
	NodeConst NodeType = iota
	NodePlus
	NodeMult
	NodeSeq
)

func (t NodeType) String() string {
	switch t {
	case NodeConst:
		return "Const"
	case NodePlus:
		return "Plus"
	case NodeMult:
		return "Mult"
	case NodeSeq:
		return "Seq"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// NonTerm is the demo grammar's goal symbol alphabet.
type NonTerm int

const (
	Con NonTerm = iota
	Reg
	Block
)

func (n NonTerm) String() string {
	switch n {
	case Con:
		return "Con"
	case Reg:
		return "Reg"
	case Block:
		return "Block"
	default:
		return fmt.Sprintf("NonTerm(%d)", int(n))
	}
}

// Tree is the minimal grammar.Node[NodeType] implementation the demo CLI
// reduces. A real caller supplies its own tree type; Tree exists only so
// the CLI has something concrete to label and reduce.
type Tree struct {
	Type     NodeType
	Value    int
	Children []*Tree
	state    int
}

func (t *Tree) NodeType() NodeType    { return t.Type }
func (t *Tree) SubtreeCount() int     { return len(t.Children) }
func (t *Tree) Subtree(i int) grammar.Node[NodeType] { return t.Children[i] }
func (t *Tree) StateNumber() int      { return t.state }
func (t *Tree) SetStateNumber(n int)  { t.state = n }

// Const builds a leaf constant node.
func Const(v int) *Tree { return &Tree{Type: NodeConst, Value: v} }

// Plus builds a Plus(a, b) node.
func Plus(a, b *Tree) *Tree { return &Tree{Type: NodePlus, Children: []*Tree{a, b}} }

// Mult builds a Mult(a, b) node.
func Mult(a, b *Tree) *Tree { return &Tree{Type: NodeMult, Children: []*Tree{a, b}} }

// Seq builds a variadic Seq(stmts...) node.
func Seq(stmts ...*Tree) *Tree { return &Tree{Type: NodeSeq, Children: stmts} }

// BuildTable registers the demo grammar's productions and runs
// GenerateStates, returning the frozen table ready for Dump or a Reducer.
func BuildTable(opts ...grammar.GenerateOption) (*grammar.ProductionTable[NonTerm, NodeType], error) {
	t := grammar.NewProductionTable[NonTerm, NodeType]()

	loadConst := grammar.NewFuncCallback[NodeType](func(visitor any, node grammar.Node[NodeType], args ...any) (any, error) {
		v := node.(*Tree)
		return fmt.Sprintf("%d", v.Value), nil
	})
	if _, err := t.AddPatternMatch(Con, NodeConst, 0, loadConst, nil); err != nil {
		return nil, err
	}

	loadImmediate := grammar.NewFuncCallback[NodeType](func(visitor any, node grammar.Node[NodeType], args ...any) (any, error) {
		return fmt.Sprintf("li %v", args[0]), nil
	})
	if _, err := t.AddClosure(Reg, Con, 1, loadImmediate); err != nil {
		return nil, err
	}

	add := grammar.NewFuncCallback[NodeType](func(visitor any, node grammar.Node[NodeType], args ...any) (any, error) {
		return fmt.Sprintf("add %v, %v", args[0], args[1]), nil
	})
	if _, err := t.AddPatternMatch(Reg, NodePlus, 1, add, []NonTerm{Reg, Reg}); err != nil {
		return nil, err
	}

	mul := grammar.NewFuncCallback[NodeType](func(visitor any, node grammar.Node[NodeType], args ...any) (any, error) {
		return fmt.Sprintf("mul %v, %v", args[0], args[1]), nil
	})
	if _, err := t.AddPatternMatch(Reg, NodeMult, 3, mul, []NonTerm{Reg, Reg}); err != nil {
		return nil, err
	}

	block := grammar.NewFuncCallback[NodeType](func(visitor any, node grammar.Node[NodeType], args ...any) (any, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = fmt.Sprint(a)
		}
		return strings.Join(parts, "; "), nil
	})
	if _, err := t.AddVarArgsPatternMatch(Block, NodeSeq, 0, block, []NonTerm{Reg}); err != nil {
		return nil, err
	}

	if err := t.GenerateStates(opts...); err != nil {
		return nil, err
	}
	return t, nil
}
