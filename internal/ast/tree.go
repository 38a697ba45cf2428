package ast

import (
	"github.com/matlire/BrainrotLang/internal/nametable"
	"github.com/matlire/BrainrotLang/internal/token"
)

// Tree owns the node arena for one parsed program. It deliberately does
// not hold a symbol table: scope resolution is scoped to parsing, and
// later stages (optimizer, codegen) work from each Node's own Type and
// payload fields rather than a persisted binding table, mirroring the
// original backend's independent binding array.
type Tree struct {
	Nodes []Node
	Root  NodeID
	Names *nametable.Table
}

// NewTree returns an empty tree backed by its own name table.
func NewTree() *Tree {
	return &Tree{Root: NilNode, Names: nametable.New()}
}

// New allocates a fresh node of the given kind at pos and returns its id.
// The node starts with no parent, children, or siblings.
func (t *Tree) New(kind Kind, pos token.Pos) NodeID {
	id := NodeID(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{
		Kind:   kind,
		Pos:    pos,
		Parent: NilNode,
		Left:   NilNode,
		Right:  NilNode,
	})
	return id
}

// AddChild appends child as the last child of parent, walking the
// existing sibling chain. child's Parent is set to parent.
func (t *Tree) AddChild(parent, child NodeID) {
	t.Nodes[child].Parent = parent
	t.Nodes[child].Right = NilNode

	if t.Nodes[parent].Left == NilNode {
		t.Nodes[parent].Left = child
		return
	}
	c := t.Nodes[parent].Left
	for t.Nodes[c].Right != NilNode {
		c = t.Nodes[c].Right
	}
	t.Nodes[c].Right = child
}

// Replace overwrites the node at id in place, preserving its Parent,
// Left, and Right links so the node continues to occupy its position in
// the tree. Used by the optimizer to splice a folded node into the slot
// its original occupied without re-threading the parent's child chain.
func (t *Tree) Replace(id NodeID, kind Kind, pos token.Pos) {
	parent, left, right := t.Nodes[id].Parent, t.Nodes[id].Left, t.Nodes[id].Right
	t.Nodes[id] = Node{
		Kind:   kind,
		Pos:    pos,
		Parent: parent,
		Left:   left,
		Right:  right,
	}
}

// DetachChildren unlinks all children of id, leaving it childless. Used
// before Replace when a fold discards an entire subtree (e.g. constant
// folding a Binary node into a NumLit).
func (t *Tree) DetachChildren(id NodeID) {
	t.Nodes[id].Left = NilNode
}
