// Package unparser renders an AST back to BrainrotLang source text,
// grounded directly on reverse-frontend/reverse-frontend.c: the same
// precedence table, the same need-parens rule, the same statement
// dispatch and one-tab-per-block indentation. Feeding the output back
// through internal/lexer and internal/parser yields a structurally
// equivalent AST (spec.md §4.8).
package unparser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matlire/BrainrotLang/internal/ast"
	"github.com/matlire/BrainrotLang/internal/token"
	"github.com/matlire/BrainrotLang/internal/types"
)

var typeKeyword = map[types.Type]string{
	types.Int: "npc", types.Float: "homie", types.Ptr: "sus", types.Void: "simp",
}

var builtinKeyword = map[types.BuiltinUnary]string{
	types.BuiltinFloor: "stan", types.BuiltinCeil: "aura", types.BuiltinRound: "delulu",
	types.BuiltinItof: "goober", types.BuiltinFtoi: "bozo",
}

// exprPrec mirrors rf_expr_prec_: or=10, and=20, eq/neq=30, relational=40,
// add/sub=50, mul/div=60, pow=70, unary/builtin-unary=80, primary=90.
func exprPrec(tree *ast.Tree, id ast.NodeID) int {
	if id == ast.NilNode {
		return 100
	}
	n := &tree.Nodes[id]
	switch n.Kind {
	case ast.Binary:
		switch n.Op {
		case token.OpOr:
			return 10
		case token.OpAnd:
			return 20
		case token.OpEq, token.OpNeq:
			return 30
		case token.OpGt, token.OpLt, token.OpGte, token.OpLte:
			return 40
		case token.OpPlus, token.OpMinus:
			return 50
		case token.OpMul, token.OpDiv:
			return 60
		case token.OpPow:
			return 70
		default:
			return 55
		}
	case ast.Unary, ast.BuiltinUnary:
		return 80
	default:
		return 90
	}
}

// Write renders tree's program (rooted at tree.Root) as source text.
func Write(w io.Writer, tree *ast.Tree) error {
	u := &unparser{out: bufio.NewWriter(w), tree: tree}
	u.emitProgram(tree.Root)
	if u.err != nil {
		return u.err
	}
	return u.out.Flush()
}

type unparser struct {
	out *bufio.Writer
	tree *ast.Tree
	err  error
}

func (u *unparser) indent(n int) {
	for i := 0; i < n; i++ {
		u.out.WriteByte('\t')
	}
}

func (u *unparser) fail(format string, args ...any) {
	if u.err == nil {
		u.err = fmt.Errorf(format, args...)
	}
}

func (u *unparser) emitProgram(root ast.NodeID) {
	if root == ast.NilNode || u.tree.Nodes[root].Kind != ast.Program {
		u.fail("AST root must be PROGRAM")
		return
	}
	any := false
	for fn := u.tree.Nodes[root].Left; fn != ast.NilNode; fn = u.tree.Nodes[fn].Right {
		if u.tree.Nodes[fn].Kind != ast.Func {
			u.fail("PROGRAM contains non-FUNC child")
			return
		}
		u.emitFunc(fn)
		any = true
		if u.err != nil {
			return
		}
	}
	if !any {
		u.fail("PROGRAM has no functions")
	}
}

func (u *unparser) emitFunc(fn ast.NodeID) {
	tree := u.tree
	n := &tree.Nodes[fn]
	plist := tree.ChildAt(fn, 0)
	body := tree.ChildAt(fn, 1)
	if plist == ast.NilNode || body == ast.NilNode {
		u.fail("FUNC must have (PARAM_LIST, BLOCK)")
		return
	}

	fmt.Fprintf(u.out, "%s %s(", typeKeyword[n.RetType], tree.Names.Get(n.NameID))
	u.emitParamList(plist)
	if u.err != nil {
		return
	}
	u.out.WriteString(")\n")

	u.emitStmt(body, 0)
	u.out.WriteByte('\n')
}

func (u *unparser) emitParamList(plist ast.NodeID) {
	tree := u.tree
	first := true
	for p := tree.Nodes[plist].Left; p != ast.NilNode; p = tree.Nodes[p].Right {
		if !first {
			u.out.WriteString(", ")
		}
		first = false
		pn := &tree.Nodes[p]
		fmt.Fprintf(u.out, "%s %s", typeKeyword[pn.DeclType], tree.Names.Get(pn.NameID))
	}
}

func (u *unparser) emitArgList(args ast.NodeID) {
	tree := u.tree
	first := true
	for c := tree.Nodes[args].Left; c != ast.NilNode; c = tree.Nodes[c].Right {
		if !first {
			u.out.WriteString(", ")
		}
		first = false
		u.emitExpr(c, 0, false)
		if u.err != nil {
			return
		}
	}
}

func (u *unparser) emitCall(call ast.NodeID) {
	tree := u.tree
	n := &tree.Nodes[call]
	fmt.Fprintf(u.out, "%s(", tree.Names.Get(n.NameID))
	u.emitArgList(tree.ChildAt(call, 0))
	u.out.WriteByte(')')
}

// emitExpr writes n with minimum parentheses given the precedence of its
// parent context: parens are needed if n binds looser than its parent,
// or equally loose and isRightChild is set. Callers set it for the right
// operand of a left-associative operator and for the left operand of
// the right-associative '^'.
func (u *unparser) emitExpr(id ast.NodeID, parentPrec int, isRightChild bool) {
	if id == ast.NilNode {
		u.fail("expression node is nil")
		return
	}
	tree := u.tree
	n := &tree.Nodes[id]

	myPrec := exprPrec(tree, id)
	needParens := myPrec < parentPrec || (isRightChild && myPrec == parentPrec)
	if needParens {
		u.out.WriteByte('(')
	}

	switch n.Kind {
	case ast.Ident:
		u.out.WriteString(tree.Names.Get(n.NameID))

	case ast.NumLit:
		if n.LitKind == token.LitFloat {
			s := strconv.FormatFloat(n.FloatVal, 'f', -1, 64)
			if !strings.Contains(s, ".") {
				s += ".0"
			}
			u.out.WriteString(s)
		} else {
			fmt.Fprintf(u.out, "%d", n.IntVal)
		}

	case ast.StrLit:
		u.emitStrLit(n.Str)

	case ast.Call:
		u.emitCall(id)

	case ast.BuiltinUnary:
		arg := tree.ChildAt(id, 0)
		if arg == ast.NilNode {
			u.fail("BUILTIN_UNARY has no argument")
			return
		}
		fmt.Fprintf(u.out, "%s(", builtinKeyword[n.Builtin])
		u.emitExpr(arg, 0, false)
		u.out.WriteByte(')')

	case ast.Unary:
		rhs := tree.ChildAt(id, 0)
		if rhs == ast.NilNode {
			u.fail("UNARY has no operand")
			return
		}
		u.out.WriteString(n.Op.String())
		rhsPrec := exprPrec(tree, rhs)
		rhsParens := tree.Nodes[rhs].Kind == ast.Binary || rhsPrec < 80
		if rhsParens {
			u.out.WriteByte('(')
		}
		u.emitExpr(rhs, 80, false)
		if rhsParens {
			u.out.WriteByte(')')
		}

	case ast.Binary:
		a := tree.ChildAt(id, 0)
		b := tree.ChildAt(id, 1)
		if a == ast.NilNode || b == ast.NilNode {
			u.fail("BINARY must have two operands")
			return
		}
		p := exprPrec(tree, id)
		// '^' groups to the right, so there it is the left operand that
		// needs parens at equal precedence.
		rightAssoc := n.Op == token.OpPow
		u.emitExpr(a, p, rightAssoc)
		fmt.Fprintf(u.out, " %s ", n.Op.String())
		u.emitExpr(b, p, !rightAssoc)

	default:
		u.fail("unexpected node kind in expression: %s", n.Kind)
	}

	if needParens {
		u.out.WriteByte(')')
	}
}

func (u *unparser) emitStrLit(s string) {
	u.out.WriteByte('"')
	b := []byte(s)
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch c {
		case '\\':
			// s keeps escape sequences as written in the source, so the
			// backslash and the byte after it are copied unchanged.
			u.out.WriteByte(c)
			if i+1 < len(b) {
				i++
				u.out.WriteByte(b[i])
			}
		case '"':
			u.out.WriteString(`\"`)
		case '\n':
			u.out.WriteString(`\n`)
		case '\t':
			u.out.WriteString(`\t`)
		case '\r':
			u.out.WriteString(`\r`)
		case 0:
			u.out.WriteString(`\0`)
		default:
			u.out.WriteByte(c)
		}
	}
	u.out.WriteByte('"')
}

func (u *unparser) emitStmt(st ast.NodeID, indent int) {
	if st == ast.NilNode {
		return
	}
	tree := u.tree
	n := &tree.Nodes[st]

	switch n.Kind {
	case ast.Block:
		u.indent(indent)
		u.out.WriteString("yap\n")
		for c := n.Left; c != ast.NilNode; c = tree.Nodes[c].Right {
			u.emitStmt(c, indent+1)
			if u.err != nil {
				return
			}
		}
		u.indent(indent)
		u.out.WriteString("yapity\n")

	case ast.While:
		cond := tree.ChildAt(st, 0)
		body := tree.ChildAt(st, 1)
		if cond == ast.NilNode || body == ast.NilNode {
			u.fail("WHILE must have (cond, body)")
			return
		}
		u.indent(indent)
		u.out.WriteString("lowkey (")
		u.emitExpr(cond, 0, false)
		u.out.WriteString(")\n")
		u.emitStmt(body, indent+1)

	case ast.If:
		u.emitIfChain(st, indent)

	case ast.VarDecl:
		u.indent(indent)
		fmt.Fprintf(u.out, "%s %s", typeKeyword[n.DeclType], tree.Names.Get(n.NameID))
		if init := tree.ChildAt(st, 0); init != ast.NilNode {
			u.out.WriteString(" gaslight ")
			u.emitExpr(init, 0, false)
		}
		u.out.WriteString(";\n")

	case ast.Assign:
		rhs := tree.ChildAt(st, 0)
		if rhs == ast.NilNode {
			u.fail("ASSIGN must have rhs")
			return
		}
		u.indent(indent)
		fmt.Fprintf(u.out, "%s gaslight ", tree.Names.Get(n.NameID))
		u.emitExpr(rhs, 0, false)
		u.out.WriteString(";\n")

	case ast.Break:
		u.indent(indent)
		u.out.WriteString("gg;\n")

	case ast.Return:
		u.indent(indent)
		u.out.WriteString("micdrop")
		if e := tree.ChildAt(st, 0); e != ast.NilNode {
			u.out.WriteByte(' ')
			u.emitExpr(e, 0, false)
		}
		u.out.WriteString(";\n")

	case ast.CallStmt:
		call := tree.ChildAt(st, 0)
		if call == ast.NilNode || tree.Nodes[call].Kind != ast.Call {
			u.fail("CALL_STMT must contain CALL")
			return
		}
		u.indent(indent)
		u.out.WriteString("bruh ")
		u.emitCall(call)
		u.out.WriteString(";\n")

	case ast.Cout, ast.ICout, ast.FCout:
		e := tree.ChildAt(st, 0)
		if e == ast.NilNode {
			u.fail("COUT/ICOUT/FCOUT must have expr")
			return
		}
		kw := map[ast.Kind]string{ast.Cout: "based", ast.ICout: "mid", ast.FCout: "peak"}[n.Kind]
		u.indent(indent)
		fmt.Fprintf(u.out, "%s(", kw)
		u.emitExpr(e, 0, false)
		u.out.WriteString(");\n")

	case ast.ExprStmt:
		e := tree.ChildAt(st, 0)
		if e == ast.NilNode {
			u.fail("EXPR_STMT must have expr")
			return
		}
		u.indent(indent)
		u.emitExpr(e, 0, false)
		u.out.WriteString(";\n")

	default:
		u.fail("unknown or unsupported statement node: %s", n.Kind)
	}
}

// emitIfChain mirrors rf_emit_if_chain_: the IF's own cond/then, then a
// flat walk of its BRANCH (omega)/ELSE (sigma) tail chain.
func (u *unparser) emitIfChain(ifn ast.NodeID, indent int) {
	tree := u.tree
	cond := tree.ChildAt(ifn, 0)
	thenSt := tree.ChildAt(ifn, 1)
	if cond == ast.NilNode || thenSt == ast.NilNode {
		u.fail("IF must have (cond, then)")
		return
	}

	u.indent(indent)
	u.out.WriteString("alpha (")
	u.emitExpr(cond, 0, false)
	u.out.WriteString(")\n")
	u.emitStmt(thenSt, indent+1)
	if u.err != nil {
		return
	}

	for cur := tree.ChildAt(ifn, 2); cur != ast.NilNode; {
		n := &tree.Nodes[cur]
		switch n.Kind {
		case ast.Branch:
			bcond := tree.ChildAt(cur, 0)
			bstmt := tree.ChildAt(cur, 1)
			if bcond == ast.NilNode || bstmt == ast.NilNode {
				u.fail("BRANCH must have (cond, stmt)")
				return
			}
			u.indent(indent)
			u.out.WriteString("omega (")
			u.emitExpr(bcond, 0, false)
			u.out.WriteString(")\n")
			u.emitStmt(bstmt, indent+1)
			if u.err != nil {
				return
			}
			cur = tree.ChildAt(cur, 2)

		case ast.Else:
			eb := tree.ChildAt(cur, 0)
			if eb == ast.NilNode {
				u.fail("ELSE must have body")
				return
			}
			u.indent(indent)
			u.out.WriteString("sigma\n")
			u.emitStmt(eb, indent+1)
			cur = ast.NilNode

		default:
			u.fail("IF tail is neither BRANCH nor ELSE")
			return
		}
	}
}

