// Package ast implements the GLSL ES 1.0 syntax tree, symbol table and
// scope model.
//
// The tree is an intrusive first-child/next-sibling structure: every
// node owns its children and carries a parent back-pointer. Node kinds
// are grouped into ordered numeric bands (statements, expressions,
// unary prefix/postfix, binary, binary-assign, literals) so that class
// membership tests reduce to integer-range comparisons; the band
// boundaries are a load-bearing contract, not an implementation detail.
//
// Go has no tagged unions, so — per the systems-language guidance of
// preferring an arena of handle-linked records over one struct type per
// node kind — every tree node is the same concrete *Node type; the Kind
// field selects which of its generic child slots and payload fields are
// meaningful for that kind.
package ast

import (
	"github.com/HugoDaniel/glslx/internal/source"
	"github.com/HugoDaniel/glslx/internal/types"
)

// NodeKind tags the role of a Node. Bands are spaced apart so new kinds
// can be inserted without renumbering neighbors.
type NodeKind int32

const (
	KindBlock NodeKind = 100 + iota
	KindBreak
	KindContinue
	KindDiscard
	KindDoWhile
	KindExpressionStmt
	KindFor
	KindIf
	KindReturn
	KindStructDecl
	KindVariables
	KindWhile
	KindFunctionDecl
	KindPrecision
	KindVersion
	KindExtension
	KindInclude
)

const (
	firstStatement = KindBlock
	lastStatement  = KindInclude
)

const (
	KindCall NodeKind = 200 + iota
	KindDot
	KindHook
	KindIndex
	KindName
	KindParseError
	KindSequence
	KindType
)

const (
	KindNegative NodeKind = 300 + iota
	KindLogicalNot
	KindBitwiseNot
	KindPositive
)

const (
	firstUnaryPrefix = KindNegative
	lastUnaryPrefix  = KindPositive
)

const (
	KindPrefixIncrement NodeKind = 310 + iota
	KindPrefixDecrement
)

const (
	KindPostfixIncrement NodeKind = 320 + iota
	KindPostfixDecrement
)

const (
	KindAdd NodeKind = 400 + iota
	KindSubtract
	KindMultiply
	KindDivide
	KindModulo
	KindEqual
	KindNotEqual
	KindLessThan
	KindLessThanOrEqual
	KindGreaterThan
	KindGreaterThanOrEqual
	KindLogicalAnd
	KindLogicalOr
	KindLogicalXor
	KindBitwiseAnd
	KindBitwiseOr
	KindBitwiseXor
	KindShiftLeft
	KindShiftRight
	KindComma
)

const (
	firstBinary = KindAdd
	lastBinary  = KindComma
)

const (
	KindAssign NodeKind = 500 + iota
	KindAssignAdd
	KindAssignSubtract
	KindAssignMultiply
	KindAssignDivide
)

const (
	firstBinaryAssign = KindAssign
	lastBinaryAssign  = KindAssignDivide
)

const (
	KindBool NodeKind = 600 + iota
	KindInt
	KindFloat
)

const (
	firstExpression = KindCall
	lastExpression  = KindAssignDivide
	firstLiteral    = KindBool
	lastLiteral     = KindFloat
)

// IsStatement reports whether k is in the statement band.
func (k NodeKind) IsStatement() bool { return k >= firstStatement && k <= lastStatement }

// IsExpression reports whether k is in the expression (including
// literal) bands.
func (k NodeKind) IsExpression() bool {
	return (k >= firstExpression && k <= lastExpression) || k.IsLiteral()
}

// IsLiteral reports whether k is BOOL, INT or FLOAT.
func (k NodeKind) IsLiteral() bool { return k >= firstLiteral && k <= lastLiteral }

// IsUnaryPrefix reports whether k is a unary prefix operator (-,!,~,+).
func (k NodeKind) IsUnaryPrefix() bool { return k >= firstUnaryPrefix && k <= lastUnaryPrefix }

// IsUnaryAssign reports whether k is ++/-- in prefix or postfix form.
func (k NodeKind) IsUnaryAssign() bool {
	return k == KindPrefixIncrement || k == KindPrefixDecrement ||
		k == KindPostfixIncrement || k == KindPostfixDecrement
}

// IsBinary reports whether k is a non-assigning binary operator.
func (k NodeKind) IsBinary() bool { return k >= firstBinary && k <= lastBinary }

// IsBinaryAssign reports whether k is =, +=, -=, *=, /=.
func (k NodeKind) IsBinaryAssign() bool { return k >= firstBinaryAssign && k <= lastBinaryAssign }

// Node is the single concrete tree-node type. Children are threaded via
// FirstChild/LastChild/Prev/Next; Parent is always consistent with
// exactly one traversal from the root reaching this node.
type Node struct {
	Id            uint32
	Kind          NodeKind
	Range         source.Range
	InternalRange source.Range // e.g. the operator span of a binary expression

	Parent, FirstChild, LastChild, Prev, Next *Node

	Symbol       *Symbol
	ResolvedType types.Type

	// Per-kind immediate payload.
	Literal      int64 // packs INT and BOOL
	LiteralFloat float64
	Text         string // DOT member name / extension name / pragma text

	HasControlFlowAtEnd bool // set by the control-flow analyzer on blocks
}

// NewNode allocates a detached node with the given kind and range.
func NewNode(cd *CompilerData, kind NodeKind, r source.Range) *Node {
	return &Node{Id: cd.NewNodeId(), Kind: kind, Range: r}
}

// AppendChild attaches child as the new last child of n.
func (n *Node) AppendChild(child *Node) {
	if child == nil {
		return
	}
	child.Remove()
	child.Parent = n
	child.Prev = n.LastChild
	child.Next = nil
	if n.LastChild != nil {
		n.LastChild.Next = child
	} else {
		n.FirstChild = child
	}
	n.LastChild = child
}

// InsertBefore inserts newNode as the immediate predecessor of n within
// its parent's child list.
func (n *Node) InsertBefore(newNode *Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	newNode.Remove()
	newNode.Parent = parent
	newNode.Prev = n.Prev
	newNode.Next = n
	if n.Prev != nil {
		n.Prev.Next = newNode
	} else {
		parent.FirstChild = newNode
	}
	n.Prev = newNode
}

// Remove detaches n from its parent and siblings, restoring the
// invariant that a detached node has Parent == Prev == Next == nil.
func (n *Node) Remove() {
	if n.Parent == nil && n.Prev == nil && n.Next == nil {
		return
	}
	if n.Prev != nil {
		n.Prev.Next = n.Next
	} else if n.Parent != nil {
		n.Parent.FirstChild = n.Next
	}
	if n.Next != nil {
		n.Next.Prev = n.Prev
	} else if n.Parent != nil {
		n.Parent.LastChild = n.Prev
	}
	n.Parent, n.Prev, n.Next = nil, nil, nil
}

// ReplaceWith swaps n out of the tree for replacement, preserving
// replacement's freshly detached state beforehand.
func (n *Node) ReplaceWith(replacement *Node) {
	if n.Parent == nil {
		return
	}
	n.InsertBefore(replacement)
	n.Remove()
}

// Become overwrites n's payload and children with other's, while
// preserving n's own identity (Id) and its attachment to its parent.
// Callers rely on this to rewrite sub-expressions in place without
// re-threading parent pointers.
func (n *Node) Become(other *Node) {
	id := n.Id
	parent, prev, next := n.Parent, n.Prev, n.Next
	*n = *other
	n.Id = id
	n.Parent, n.Prev, n.Next = parent, prev, next
	// Re-parent other's former children onto n.
	for c := n.FirstChild; c != nil; c = c.Next {
		c.Parent = n
	}
}

// Clone produces a deep, fully detached copy of n with fresh node ids.
func (n *Node) Clone(cd *CompilerData) *Node {
	if n == nil {
		return nil
	}
	clone := &Node{
		Id:            cd.NewNodeId(),
		Kind:          n.Kind,
		Range:         n.Range,
		InternalRange: n.InternalRange,
		Symbol:        n.Symbol,
		ResolvedType:  n.ResolvedType,
		Literal:       n.Literal,
		LiteralFloat:  n.LiteralFloat,
		Text:          n.Text,
	}
	for c := n.FirstChild; c != nil; c = c.Next {
		clone.AppendChild(c.Clone(cd))
	}
	return clone
}

// Children returns the node's children as a slice, in order. Convenient
// for callers that do not want to hand-walk the sibling list.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.Next {
		out = append(out, c)
	}
	return out
}

// ChildCount counts the immediate children of n.
func (n *Node) ChildCount() int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.Next {
		count++
	}
	return count
}

// ChildAt returns the i-th child (0-based), or nil if out of range.
func (n *Node) ChildAt(i int) *Node {
	for c := n.FirstChild; c != nil; c = c.Next {
		if i == 0 {
			return c
		}
		i--
	}
	return nil
}

// Named two/three-child accessors used throughout the component design
// to read kind-specific shapes without re-deriving indices everywhere.
func (n *Node) Left() *Node   { return n.FirstChild }
func (n *Node) Right() *Node  { return n.childOrNil(1) }
func (n *Node) Third() *Node  { return n.childOrNil(2) }
func (n *Node) Single() *Node { return n.FirstChild }

func (n *Node) childOrNil(i int) *Node {
	c := n.ChildAt(i)
	return c
}

// CompilerData holds the compile-wide monotonic id generators and the
// current #extension behavior map, mutated only by the parser and
// resolver on the current (single) thread.
type CompilerData struct {
	nextSymbolId      uint32
	nextNodeId        uint32
	ExtensionBehavior map[string]ExtensionBehavior
}

// NewCompilerData creates a fresh, empty CompilerData.
func NewCompilerData() *CompilerData {
	return &CompilerData{ExtensionBehavior: make(map[string]ExtensionBehavior)}
}

// NewSymbolId returns the next globally monotonic symbol id.
func (cd *CompilerData) NewSymbolId() uint32 {
	cd.nextSymbolId++
	return cd.nextSymbolId
}

// NewNodeId returns the next globally monotonic node id.
func (cd *CompilerData) NewNodeId() uint32 {
	cd.nextNodeId++
	return cd.nextNodeId
}

// ExtensionBehavior is the per-extension state set by #extension.
type ExtensionBehavior uint8

const (
	Default ExtensionBehavior = iota
	Disable
	EnableBehavior
	Require
	WarnBehavior
)
