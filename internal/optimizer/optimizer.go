// Package optimizer implements the single bottom-up algebraic
// simplification and constant-folding pass, grounded directly on
// middleend/middleend.c: the same identity rewrites, the same fold
// order (identities before generic constant folding), and the same
// int/float promotion rules, adapted from pointer splicing to the
// arena's first-child/next-sibling index representation.
package optimizer

import (
	"math"

	"github.com/matlire/BrainrotLang/internal/ast"
	"github.com/matlire/BrainrotLang/internal/token"
	"github.com/matlire/BrainrotLang/internal/types"
)

// Optimize runs one bottom-up pass over tree, rewriting in place, and
// reports whether anything changed.
func Optimize(tree *ast.Tree) bool {
	var changed bool
	tree.Root = optimizeChain(tree, tree.Root, ast.NilNode, &changed)
	if tree.Root != ast.NilNode {
		tree.Nodes[tree.Root].Parent = ast.NilNode
	}
	return changed
}

func optimizeChain(tree *ast.Tree, head, parent ast.NodeID, changed *bool) ast.NodeID {
	if head == ast.NilNode {
		return ast.NilNode
	}
	cur := optimizeOne(tree, head, parent, changed)
	if cur != ast.NilNode {
		tree.Nodes[cur].Right = optimizeChain(tree, tree.Nodes[cur].Right, parent, changed)
	}
	return cur
}

func optimizeOne(tree *ast.Tree, id, parent ast.NodeID, changed *bool) ast.NodeID {
	tree.Nodes[id].Parent = parent
	if tree.Nodes[id].Left != ast.NilNode {
		tree.Nodes[id].Left = optimizeChain(tree, tree.Nodes[id].Left, id, changed)
	}

	switch tree.Nodes[id].Kind {
	case ast.Unary:
		return optimizeUnary(tree, id, changed)
	case ast.BuiltinUnary:
		return optimizeBuiltinUnary(tree, id, changed)
	case ast.Binary:
		return optimizeBinary(tree, id, changed)
	default:
		return id
	}
}

func isNumLit(tree *ast.Tree, id ast.NodeID) bool {
	return id != ast.NilNode && tree.Nodes[id].Kind == ast.NumLit
}

func asF64(tree *ast.Tree, id ast.NodeID) float64 {
	n := &tree.Nodes[id]
	if n.LitKind == token.LitFloat {
		return n.FloatVal
	}
	return float64(n.IntVal)
}

func asI64(tree *ast.Tree, id ast.NodeID) int64 {
	n := &tree.Nodes[id]
	if n.LitKind == token.LitFloat {
		return int64(n.FloatVal)
	}
	return n.IntVal
}

func isZero(tree *ast.Tree, id ast.NodeID) bool {
	if !isNumLit(tree, id) {
		return false
	}
	n := &tree.Nodes[id]
	if n.LitKind == token.LitFloat {
		return n.FloatVal == 0.0
	}
	return n.IntVal == 0
}

func isOne(tree *ast.Tree, id ast.NodeID) bool {
	if !isNumLit(tree, id) {
		return false
	}
	n := &tree.Nodes[id]
	if n.LitKind == token.LitFloat {
		return n.FloatVal == 1.0
	}
	return n.IntVal == 1
}

func truthy(tree *ast.Tree, id ast.NodeID) bool {
	if !isNumLit(tree, id) {
		return false
	}
	n := &tree.Nodes[id]
	if n.LitKind == token.LitFloat {
		return n.FloatVal != 0.0
	}
	return n.IntVal != 0
}

func isFloatLit(tree *ast.Tree, id ast.NodeID) bool {
	return isNumLit(tree, id) && tree.Nodes[id].LitKind == token.LitFloat
}

// foldInt overwrites id with an integer literal, discarding its children.
func foldInt(tree *ast.Tree, id ast.NodeID, v int64) ast.NodeID {
	pos := tree.Nodes[id].Pos
	tree.DetachChildren(id)
	tree.Replace(id, ast.NumLit, pos)
	tree.Nodes[id].LitKind = token.LitInt
	tree.Nodes[id].IntVal = v
	tree.Nodes[id].Type = types.Int
	return id
}

// foldFloat overwrites id with a float literal, discarding its children.
func foldFloat(tree *ast.Tree, id ast.NodeID, v float64) ast.NodeID {
	pos := tree.Nodes[id].Pos
	tree.DetachChildren(id)
	tree.Replace(id, ast.NumLit, pos)
	tree.Nodes[id].LitKind = token.LitFloat
	tree.Nodes[id].FloatVal = v
	tree.Nodes[id].Type = types.Float
	return id
}

// spliceChild replaces id, in the slot it occupies in its parent's child
// chain, with the subtree rooted at child — without walking back up to
// patch the parent's Left/Right links, since id's own Parent/Right are
// carried over onto the spliced-in content.
func spliceChild(tree *ast.Tree, id, child ast.NodeID) ast.NodeID {
	parent, right := tree.Nodes[id].Parent, tree.Nodes[id].Right
	repl := tree.Nodes[child]
	repl.Parent = parent
	repl.Right = right
	tree.Nodes[id] = repl
	for c := tree.Nodes[id].Left; c != ast.NilNode; c = tree.Nodes[c].Right {
		tree.Nodes[c].Parent = id
	}
	return id
}

func optimizeUnary(tree *ast.Tree, id ast.NodeID, changed *bool) ast.NodeID {
	a := tree.ChildAt(id, 0)
	if !isNumLit(tree, a) {
		return id
	}
	switch tree.Nodes[id].Op {
	case token.OpPlus:
		*changed = true
		if isFloatLit(tree, a) {
			return foldFloat(tree, id, asF64(tree, a))
		}
		return foldInt(tree, id, asI64(tree, a))
	case token.OpMinus:
		*changed = true
		if isFloatLit(tree, a) {
			return foldFloat(tree, id, -asF64(tree, a))
		}
		return foldInt(tree, id, -asI64(tree, a))
	case token.OpNot:
		*changed = true
		v := int64(1)
		if truthy(tree, a) {
			v = 0
		}
		return foldInt(tree, id, v)
	default:
		return id
	}
}

func optimizeBuiltinUnary(tree *ast.Tree, id ast.NodeID, changed *bool) ast.NodeID {
	a := tree.ChildAt(id, 0)
	if !isNumLit(tree, a) {
		return id
	}
	x := asF64(tree, a)
	*changed = true
	switch tree.Nodes[id].Builtin {
	case types.BuiltinFloor:
		return foldFloat(tree, id, math.Floor(x))
	case types.BuiltinCeil:
		return foldFloat(tree, id, math.Ceil(x))
	case types.BuiltinRound:
		return foldFloat(tree, id, math.Round(x))
	case types.BuiltinItof:
		return foldFloat(tree, id, float64(asI64(tree, a)))
	case types.BuiltinFtoi:
		return foldInt(tree, id, int64(x))
	default:
		*changed = false
		return id
	}
}

// ipow computes base**exp by squaring when exp is non-negative; the
// caller promotes to float pow otherwise.
func ipow(base, exp int64) (int64, bool) {
	if exp < 0 {
		return 0, false
	}
	res, b, e := int64(1), base, exp
	for e > 0 {
		if e&1 == 1 {
			res *= b
		}
		e >>= 1
		if e != 0 {
			b *= b
		}
	}
	return res, true
}

func optimizeBinary(tree *ast.Tree, id ast.NodeID, changed *bool) ast.NodeID {
	l := tree.ChildAt(id, 0)
	r := tree.ChildAt(id, 1)
	if l == ast.NilNode || r == ast.NilNode {
		return id
	}
	op := tree.Nodes[id].Op
	wantFloat := isFloatLit(tree, l) || isFloatLit(tree, r)

	switch op {
	case token.OpPlus:
		if isZero(tree, r) {
			*changed = true
			return spliceChild(tree, id, l)
		}
		if isZero(tree, l) {
			*changed = true
			return spliceChild(tree, id, r)
		}
	case token.OpMul:
		if isZero(tree, l) || isZero(tree, r) {
			*changed = true
			if wantFloat {
				return foldFloat(tree, id, 0.0)
			}
			return foldInt(tree, id, 0)
		}
		if isOne(tree, r) {
			*changed = true
			return spliceChild(tree, id, l)
		}
		if isOne(tree, l) {
			*changed = true
			return spliceChild(tree, id, r)
		}
	case token.OpPow:
		if isZero(tree, r) {
			*changed = true
			if wantFloat {
				return foldFloat(tree, id, 1.0)
			}
			return foldInt(tree, id, 1)
		}
		if isOne(tree, r) {
			*changed = true
			return spliceChild(tree, id, l)
		}
		if isOne(tree, l) {
			*changed = true
			if wantFloat {
				return foldFloat(tree, id, 1.0)
			}
			return foldInt(tree, id, 1)
		}
	}

	if !isNumLit(tree, l) || !isNumLit(tree, r) {
		return id
	}
	anyFloat := isFloatLit(tree, l) || isFloatLit(tree, r)

	switch op {
	case token.OpOr:
		*changed = true
		v := int64(0)
		if truthy(tree, l) || truthy(tree, r) {
			v = 1
		}
		return foldInt(tree, id, v)
	case token.OpAnd:
		*changed = true
		v := int64(0)
		if truthy(tree, l) && truthy(tree, r) {
			v = 1
		}
		return foldInt(tree, id, v)
	case token.OpEq, token.OpNeq, token.OpGt, token.OpLt, token.OpGte, token.OpLte:
		a, b := asF64(tree, l), asF64(tree, r)
		var res bool
		switch op {
		case token.OpEq:
			res = a == b
		case token.OpNeq:
			res = a != b
		case token.OpGt:
			res = a > b
		case token.OpLt:
			res = a < b
		case token.OpGte:
			res = a >= b
		case token.OpLte:
			res = a <= b
		}
		*changed = true
		v := int64(0)
		if res {
			v = 1
		}
		return foldInt(tree, id, v)
	case token.OpPlus:
		*changed = true
		if anyFloat {
			return foldFloat(tree, id, asF64(tree, l)+asF64(tree, r))
		}
		return foldInt(tree, id, asI64(tree, l)+asI64(tree, r))
	case token.OpMinus:
		*changed = true
		if anyFloat {
			return foldFloat(tree, id, asF64(tree, l)-asF64(tree, r))
		}
		return foldInt(tree, id, asI64(tree, l)-asI64(tree, r))
	case token.OpMul:
		*changed = true
		if anyFloat {
			return foldFloat(tree, id, asF64(tree, l)*asF64(tree, r))
		}
		return foldInt(tree, id, asI64(tree, l)*asI64(tree, r))
	case token.OpDiv:
		if anyFloat {
			rv := asF64(tree, r)
			if rv == 0.0 {
				return id
			}
			*changed = true
			return foldFloat(tree, id, asF64(tree, l)/rv)
		}
		rv := asI64(tree, r)
		if rv == 0 {
			return id
		}
		*changed = true
		return foldInt(tree, id, asI64(tree, l)/rv)
	case token.OpPow:
		if !anyFloat {
			if out, ok := ipow(asI64(tree, l), asI64(tree, r)); ok {
				*changed = true
				return foldInt(tree, id, out)
			}
		}
		*changed = true
		return foldFloat(tree, id, math.Pow(asF64(tree, l), asF64(tree, r)))
	}
	return id
}
