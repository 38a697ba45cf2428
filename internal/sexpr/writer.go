// Package sexpr implements the `.east` on-disk AST interchange format: a
// pre-order S-expression encoding of the first-child/next-sibling tree,
// grounded on the field-naming conventions of the original Graphviz AST
// dumper (ast/dump/dump.c) adapted to a round-trippable, line-oriented
// text form rather than an HTML visualization.
package sexpr

import (
	"bufio"
	"io"
	"strconv"

	"github.com/matlire/BrainrotLang/internal/ast"
	"github.com/matlire/BrainrotLang/internal/token"
	"github.com/matlire/BrainrotLang/internal/types"
)

// builtinSpellings mirrors the keyword spelling the parser accepted for
// each builtin-unary, the same spelling the original dumper emitted.
var builtinSpellings = map[types.BuiltinUnary]string{
	types.BuiltinFloor: "stan",
	types.BuiltinCeil:  "aura",
	types.BuiltinRound: "delulu",
	types.BuiltinItof:  "goober",
	types.BuiltinFtoi:  "bozo",
}

// Write emits tree as one `( KIND payload* left-or-nil right-or-nil )`
// S-expression rooted at tree.Root.
func Write(w io.Writer, tree *ast.Tree) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, tree, tree.Root)
	bw.WriteByte('\n')
	return bw.Flush()
}

func writeNode(w *bufio.Writer, tree *ast.Tree, id ast.NodeID) {
	if id == ast.NilNode {
		w.WriteString("nil")
		return
	}
	n := &tree.Nodes[id]

	w.WriteByte('(')
	w.WriteString(n.Kind.String())
	for _, p := range payload(tree, n) {
		w.WriteByte(' ')
		w.WriteString(p)
	}
	w.WriteByte(' ')
	writeNode(w, tree, n.Left)
	w.WriteByte(' ')
	writeNode(w, tree, n.Right)
	w.WriteByte(')')
}

// payload returns the kind-specific key=value atoms for n, in the order
// the reader expects them back.
func payload(tree *ast.Tree, n *ast.Node) []string {
	switch n.Kind {
	case ast.Func:
		return []string{"name=" + tree.Names.Get(n.NameID), "ret=" + n.RetType.String()}
	case ast.Param, ast.VarDecl:
		return []string{"name=" + tree.Names.Get(n.NameID), "type=" + n.DeclType.String()}
	case ast.Assign, ast.Ident, ast.Call:
		return []string{"name=" + tree.Names.Get(n.NameID)}
	case ast.NumLit:
		if n.LitKind == token.LitFloat {
			return []string{"float=" + strconv.FormatFloat(n.FloatVal, 'g', -1, 64)}
		}
		return []string{"int=" + strconv.FormatInt(n.IntVal, 10)}
	case ast.StrLit:
		return []string{"str_len=" + strconv.Itoa(n.StrLen)}
	case ast.Unary, ast.Binary:
		return []string{"op=" + n.Op.String()}
	case ast.BuiltinUnary:
		return []string{"builtin=" + builtinSpellings[n.Builtin]}
	default:
		return nil
	}
}
