package ast

import (
	"testing"

	"github.com/matlire/BrainrotLang/internal/token"
)

func TestNewTreeStartsEmpty(t *testing.T) {
	tree := NewTree()
	if len(tree.Nodes) != 0 {
		t.Fatalf("new tree has %d nodes, want 0", len(tree.Nodes))
	}
	if tree.Root != NilNode {
		t.Fatalf("new tree root = %v, want NilNode", tree.Root)
	}
	if tree.Names == nil {
		t.Fatal("new tree has no name table")
	}
}

func TestNewAllocatesSequentialIDs(t *testing.T) {
	tree := NewTree()
	a := tree.New(Block, token.Pos{Line: 1, Column: 1})
	b := tree.New(Block, token.Pos{Line: 2, Column: 1})
	if a != 0 || b != 1 {
		t.Fatalf("ids = %d, %d, want 0, 1", a, b)
	}
	if tree.Nodes[a].Left != NilNode || tree.Nodes[a].Right != NilNode || tree.Nodes[a].Parent != NilNode {
		t.Fatalf("fresh node has non-nil links: %+v", tree.Nodes[a])
	}
}

func TestAddChildBuildsSiblingChain(t *testing.T) {
	tree := NewTree()
	parent := tree.New(Block, token.Pos{})
	c1 := tree.New(ExprStmt, token.Pos{})
	c2 := tree.New(ExprStmt, token.Pos{})
	c3 := tree.New(ExprStmt, token.Pos{})

	tree.AddChild(parent, c1)
	tree.AddChild(parent, c2)
	tree.AddChild(parent, c3)

	got := tree.Children(parent)
	want := []NodeID{c1, c2, c3}
	if len(got) != len(want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("children[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if tree.Nodes[c2].Parent != parent {
		t.Errorf("c2.Parent = %v, want %v", tree.Nodes[c2].Parent, parent)
	}
	if tree.ChildCount(parent) != 3 {
		t.Errorf("ChildCount = %d, want 3", tree.ChildCount(parent))
	}
	if tree.ChildAt(parent, 1) != c2 {
		t.Errorf("ChildAt(1) = %v, want %v", tree.ChildAt(parent, 1), c2)
	}
	if tree.ChildAt(parent, 5) != NilNode {
		t.Errorf("ChildAt(5) = %v, want NilNode", tree.ChildAt(parent, 5))
	}
}

func TestReplacePreservesLinks(t *testing.T) {
	tree := NewTree()
	parent := tree.New(Binary, token.Pos{})
	lhs := tree.New(NumLit, token.Pos{})
	rhs := tree.New(NumLit, token.Pos{})
	tree.AddChild(parent, lhs)
	tree.AddChild(parent, rhs)

	grandparent := tree.New(Block, token.Pos{})
	tree.AddChild(grandparent, parent)

	tree.DetachChildren(parent)
	tree.Replace(parent, NumLit, token.Pos{Line: 9})
	tree.Nodes[parent].IntVal = 42

	if tree.Nodes[parent].Kind != NumLit {
		t.Fatalf("kind = %s, want NumLit", tree.Nodes[parent].Kind)
	}
	if tree.Nodes[parent].Parent != grandparent {
		t.Errorf("parent link lost after Replace: got %v, want %v", tree.Nodes[parent].Parent, grandparent)
	}
	if tree.ChildCount(parent) != 0 {
		t.Errorf("folded node should be childless, has %d children", tree.ChildCount(parent))
	}
	if tree.ChildAt(grandparent, 0) != parent {
		t.Errorf("grandparent lost its child slot: got %v, want %v", tree.ChildAt(grandparent, 0), parent)
	}
}

func TestKindStringRoundTrip(t *testing.T) {
	for k := Invalid; k <= FCout; k++ {
		s := k.String()
		if s == "UNKNOWN" {
			t.Errorf("Kind(%d).String() = UNKNOWN", k)
			continue
		}
		got, ok := KindFromString(s)
		if !ok || got != k {
			t.Errorf("KindFromString(%q) = %v, %v, want %v, true", s, got, ok, k)
		}
	}
}
