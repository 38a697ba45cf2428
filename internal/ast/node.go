package ast

import (
	"github.com/matlire/BrainrotLang/internal/token"
	"github.com/matlire/BrainrotLang/internal/types"
)

// NodeID indexes into a Tree's node arena. NilNode marks an absent child,
// sibling, or parent.
type NodeID int32

const NilNode NodeID = -1

// Node is one arena-owned AST node. Children are represented as a
// first-child/next-sibling list: Left is the first child, and a child's
// Right is its next sibling; Parent points back to the owning node.
//
// The payload fields below are a discriminated union keyed by Kind — see
// the per-kind comments. Only the fields documented for a given Kind are
// meaningful; codegen and the .east writer read only those fields and
// ignore the rest.
type Node struct {
	Kind Kind
	Pos  token.Pos
	Type types.Type

	Parent NodeID
	Left   NodeID // first child
	Right  NodeID // next sibling

	// NameID is valid for Func, Param, VarDecl, Assign, Ident, Call.
	NameID int

	// RetType is valid for Func (declared return type).
	RetType types.Type

	// DeclType is valid for Param, VarDecl (declared type).
	DeclType types.Type

	// LitKind, IntVal, FloatVal are valid for NumLit.
	LitKind  token.LitKind
	IntVal   int64
	FloatVal float64

	// Str is a StrLit's content as written in the source (quotes
	// excluded, escape sequences not decoded), and StrLen is len(Str).
	// Only StrLen survives an .east round-trip: the sexpr reader sets Str
	// to StrLen NUL bytes. The parser sets both; the unparser prints Str
	// and codegen uses only StrLen.
	Str    string
	StrLen int

	// Op is valid for Unary, Binary: the operator token kind.
	Op token.Kind

	// Builtin is valid for BuiltinUnary.
	Builtin types.BuiltinUnary
}

// Children returns the ordered child ids of node, materialized from the
// first-child/next-sibling chain.
func (t *Tree) Children(id NodeID) []NodeID {
	var kids []NodeID
	for c := t.Nodes[id].Left; c != NilNode; c = t.Nodes[c].Right {
		kids = append(kids, c)
	}
	return kids
}

// ChildAt returns the idx'th child of node, or NilNode if there is none.
func (t *Tree) ChildAt(id NodeID, idx int) NodeID {
	c := t.Nodes[id].Left
	for ; idx > 0 && c != NilNode; idx-- {
		c = t.Nodes[c].Right
	}
	return c
}

// ChildCount returns the number of direct children of node.
func (t *Tree) ChildCount(id NodeID) int {
	n := 0
	for c := t.Nodes[id].Left; c != NilNode; c = t.Nodes[c].Right {
		n++
	}
	return n
}
