package codegen

import (
	"github.com/matlire/BrainrotLang/internal/ast"
	"github.com/matlire/BrainrotLang/internal/intrinsic"
	"github.com/matlire/BrainrotLang/internal/token"
	"github.com/matlire/BrainrotLang/internal/types"
)

// emitExpr emits code that leaves the expression's value on top of the
// stack (or nothing, for a Void-typed call) and returns its inferred
// type, following the same per-kind rules the type checker would: a
// literal's own type, an identifier's or call's declared/return type,
// builtin-unaries per types.BuiltinUnary.IsFloatResult, '!'/comparisons
// always Int, and arithmetic/'^' promoting to Float whenever either
// operand is Float (Int only when both sides of '^' are Int).
func (g *generator) emitExpr(id ast.NodeID) types.Type {
	tree := g.tree
	n := &tree.Nodes[id]

	switch n.Kind {
	case ast.NumLit:
		if n.LitKind == token.LitFloat {
			g.e.pushf(n.FloatVal)
			return types.Float
		}
		g.e.push(n.IntVal)
		return types.Int

	case ast.StrLit:
		g.e.push(int64(n.StrLen))
		return types.Ptr

	case ast.Ident:
		b, ok := g.frame.lookup(n.NameID)
		if !ok {
			return types.Unknown // unreachable: parser rejects undeclared identifiers
		}
		g.loadFrame(b.offset)
		return b.typ

	case ast.Unary:
		return g.emitUnary(id)

	case ast.BuiltinUnary:
		return g.emitBuiltinUnary(id)

	case ast.Binary:
		return g.emitBinary(id)

	case ast.Call:
		return g.emitCall(id)
	}
	return types.Unknown
}

// emitExprFor emits id the same way emitExpr does, except when id is a
// top-level '+ - * /' binary and want is Float: the catalog has no
// unary NEG/float-context opcode beyond the arithmetic ones, and a
// bottom-up type decision on a Binary whose own operands are both Int
// would pick the integer opcode even when the enclosing return/
// assignment/declaration/call-argument wants Float (e.g. '1 / 0'
// assigned into a Float target must still run FDIV, not DIV — see
// spec scenario S3). Each operand is promoted immediately after being
// pushed, not via the fx1 spill promotePair uses for already-mixed
// operands.
func (g *generator) emitExprFor(id ast.NodeID, want types.Type) types.Type {
	tree := g.tree
	n := &tree.Nodes[id]
	if want == types.Float && n.Kind == ast.Binary {
		if op, ok := floatArithOp[n.Op]; ok {
			l := tree.ChildAt(id, 0)
			r := tree.ChildAt(id, 1)
			lt := g.emitExpr(l)
			if lt != types.Float {
				g.e.instr0("ITOF")
			}
			rt := g.emitExpr(r)
			if rt != types.Float {
				g.e.instr0("ITOF")
			}
			g.e.instr0(op)
			return types.Float
		}
	}
	return g.emitExpr(id)
}

func (g *generator) emitUnary(id ast.NodeID) types.Type {
	tree := g.tree
	op := tree.Nodes[id].Op
	operand := tree.ChildAt(id, 0)

	if op == token.OpNot {
		return g.emitLogicalNot(operand)
	}

	t := g.emitExpr(operand)
	if op == token.OpMinus {
		// -x: stash x in the x13 scratch register, push 0 (converted to
		// 0.0 first when x is Float), restore x on top, then SUB/FSUB —
		// a bare PUSH 0 followed by SUB would compute x-0, not 0-x.
		g.e.instr1("POPR", "x13")
		g.e.push(0)
		if t == types.Float {
			g.e.instr0("ITOF")
		}
		g.e.instr1("PUSHR", "x13")
		if t == types.Float {
			g.e.instr0("FSUB")
		} else {
			g.e.instr0("SUB")
		}
	}
	// OpPlus is the identity: the operand's value is already on the
	// stack with nothing left to emit.
	return t
}

// emitLogicalNot synthesizes '!x' as '(x == 0)', via the same
// CMP-then-jump-to-zero trampoline emitComparison uses: the catalog
// has no NOT opcode.
func (g *generator) emitLogicalNot(operand ast.NodeID) types.Type {
	t := g.emitExpr(operand)
	if t == types.Float {
		g.e.instr0("FTOI")
	}
	g.e.push(0)
	g.e.instr0("CMP")

	trueLabel := g.e.newLabel("not_true")
	endLabel := g.e.newLabel("not_end")
	g.e.instr1("JE", trueLabel)
	g.e.push(0)
	g.e.instr1("JMP", endLabel)
	g.e.label(trueLabel)
	g.e.push(1)
	g.e.label(endLabel)
	return types.Int
}

func (g *generator) emitBuiltinUnary(id ast.NodeID) types.Type {
	tree := g.tree
	b := tree.Nodes[id].Builtin
	operand := tree.ChildAt(id, 0)

	wantFloat := b != types.BuiltinItof
	var t types.Type
	if wantFloat {
		t = g.emitExprFor(operand, types.Float)
		g.coerce(t, types.Float)
	} else {
		t = g.emitExpr(operand)
		g.coerce(t, types.Int)
	}

	switch b {
	case types.BuiltinFloor:
		g.e.instr0("FLOOR")
	case types.BuiltinCeil:
		g.e.instr0("CEIL")
	case types.BuiltinRound:
		g.e.instr0("ROUND")
	case types.BuiltinItof:
		g.e.instr0("ITOF")
	case types.BuiltinFtoi:
		g.e.instr0("FTOI")
	}
	if b.IsFloatResult() {
		return types.Float
	}
	return types.Int
}

// promotePair converts whichever of the two already-pushed operands (lhs
// beneath rhs on the stack) is still Int, given the op needs Float on
// both sides. When only rhs needs converting it's a plain top-of-stack
// ITOF; when lhs also (or only) needs it, rhs is parked in the fx1
// scratch register while ITOF converts the now-exposed lhs, then rhs is
// restored on top — the register spill the frame layout reserves fx1 for.
func (g *generator) promotePair(lhsType, rhsType types.Type) {
	if lhsType == types.Float && rhsType == types.Float {
		return
	}
	if lhsType == types.Float {
		g.e.instr0("ITOF") // only rhs needs it, and it's already on top
		return
	}
	if rhsType != types.Float {
		g.e.instr0("ITOF") // rhs too, while it's still on top
	}
	g.e.instr1("POPR", "fx1")
	g.e.instr0("ITOF")
	g.e.instr1("PUSHR", "fx1")
}

var intArithOp = map[token.Kind]string{
	token.OpPlus: "ADD", token.OpMinus: "SUB", token.OpMul: "MUL", token.OpDiv: "DIV",
}

var floatArithOp = map[token.Kind]string{
	token.OpPlus: "FADD", token.OpMinus: "FSUB", token.OpMul: "FMUL", token.OpDiv: "FDIV",
}

var cmpJump = map[token.Kind]string{
	token.OpEq: "JE", token.OpNeq: "JNE",
	token.OpLt: "JB", token.OpLte: "JBE",
	token.OpGt: "JA", token.OpGte: "JAE",
}

func (g *generator) emitBinary(id ast.NodeID) types.Type {
	tree := g.tree
	op := tree.Nodes[id].Op
	l := tree.ChildAt(id, 0)
	r := tree.ChildAt(id, 1)

	switch op {
	case token.OpOr, token.OpAnd:
		g.emitExpr(l)
		g.emitExpr(r)
		if op == token.OpOr {
			g.e.instr0("OR")
		} else {
			g.e.instr0("AND")
		}
		return types.Int

	case token.OpEq, token.OpNeq, token.OpGt, token.OpLt, token.OpGte, token.OpLte:
		return g.emitComparison(op, l, r)

	case token.OpPow:
		return g.emitPow(l, r)

	default: // + - * /
		lt := g.emitExpr(l)
		rt := g.emitExpr(r)
		if lt == types.Float || rt == types.Float {
			g.promotePair(lt, rt)
			g.e.instr0(floatArithOp[op])
			return types.Float
		}
		g.e.instr0(intArithOp[op])
		return types.Int
	}
}

func (g *generator) emitComparison(op token.Kind, l, r ast.NodeID) types.Type {
	lt := g.emitExpr(l)
	rt := g.emitExpr(r)
	if lt == types.Float || rt == types.Float {
		g.promotePair(lt, rt)
		g.e.instr0("FCMP")
	} else {
		g.e.instr0("CMP")
	}

	trueLabel := g.e.newLabel("cmp_true")
	endLabel := g.e.newLabel("cmp_end")
	g.e.instr1(cmpJump[op], trueLabel)
	g.e.push(0)
	g.e.instr1("JMP", endLabel)
	g.e.label(trueLabel)
	g.e.push(1)
	g.e.label(endLabel)
	return types.Int
}

func (g *generator) emitPow(l, r ast.NodeID) types.Type {
	lt := g.emitExpr(l)
	rt := g.emitExpr(r)
	if lt == types.Int && rt == types.Int {
		g.e.instr0("POW")
		return types.Int
	}
	g.promotePair(lt, rt)
	g.e.instr0("FPOW")
	return types.Float
}

// emitCallArgAddr computes SP+imm into the x13 scratch address
// register — the call-site counterpart of emitFrameAddr, keyed off SP
// (x14) rather than BP (x15), since arguments are marshaled to the
// callee's frame before it exists.
func (g *generator) emitCallArgAddr(imm int) {
	g.e.instr1("PUSHR", "x14")
	g.e.instr1("POPR", "x13")
	if imm != 0 {
		g.e.instr1("PUSHR", "x13")
		g.e.push(int64(imm))
		g.e.instr0("ADD")
		g.e.instr1("POPR", "x13")
	}
}

// emitCall marshals each argument to RAM[SP+i] (1-based) before
// issuing CALL, matching the callee's BP-relative parameter offsets,
// then pushes the return value (left in x0/fx0) back onto the
// expression stack so the call can be used as a subexpression.
func (g *generator) emitCall(id ast.NodeID) types.Type {
	tree := g.tree
	n := &tree.Nodes[id]
	name := tree.Names.Get(n.NameID)
	argList := tree.ChildAt(id, 0)
	args := tree.Children(argList)

	if sig, ok := intrinsic.Names[name]; ok {
		return g.emitIntrinsicCall(name, sig, args)
	}

	fsig := g.sigs[n.NameID]
	for i, a := range args {
		if i < len(fsig.params) {
			t := g.emitExprFor(a, fsig.params[i])
			g.coerce(t, fsig.params[i])
		} else {
			g.emitExpr(a)
		}
		g.emitCallArgAddr(i + 1)
		g.e.instr1("POPM", "x13")
	}
	g.e.instr1("CALL", ":fn_"+name)

	switch fsig.retType {
	case types.Float:
		g.e.instr1("PUSHR", "fx0")
	case types.Void:
	default:
		g.e.instr1("PUSHR", "x0")
	}
	return fsig.retType
}

func (g *generator) emitIntrinsicCall(name string, sig intrinsic.Signature, args []ast.NodeID) types.Type {
	switch {
	case intrinsic.IsSetPixel(name):
		return g.emitSetPixel(args)
	case intrinsic.IsDraw(name):
		g.e.instr0("DRAW")
		return types.Void
	case intrinsic.IsCleanVM(name):
		g.e.instr0("CLEANVM")
		return types.Void
	case intrinsic.IsFloatInput(name):
		g.e.instr0("FIN")
		return types.Float
	case intrinsic.IsIntInput(name):
		g.e.instr0("IN")
		return types.Int
	}

	if intrinsic.IsFloatOutput(name) {
		t := g.emitExprFor(args[0], types.Float)
		g.coerce(t, types.Float)
		g.e.instr0("FTOPOUT")
		return types.Float
	}

	t := g.emitExpr(args[0])
	if intrinsic.IsCharOutput(name) {
		g.coerce(t, types.Int)
		g.e.instr0("CTOPOUT")
		return types.Int
	}
	g.coerce(t, types.Int)
	g.e.instr0("TOPOUT")
	return types.Int
}

// emitSetPixel computes addr = y*ScreenWidth + x from the already-pushed
// x and y, parks it in the x13 scratch address register, then evaluates
// val (preserving left-to-right argument evaluation) before combining
// both into the single POPVM framebuffer write.
func (g *generator) emitSetPixel(args []ast.NodeID) types.Type {
	xt := g.emitExpr(args[0])
	g.coerce(xt, types.Int)
	yt := g.emitExpr(args[1])
	g.coerce(yt, types.Int)

	g.e.push(int64(intrinsic.ScreenWidth))
	g.e.instr0("MUL") // y * ScreenWidth
	g.e.instr0("ADD") // + x
	g.e.instr1("POPR", "x13")

	vt := g.emitExpr(args[2])
	g.coerce(vt, types.Int)
	g.e.instr1("PUSHR", "x13")
	g.e.instr0("POPVM")
	return types.Void
}
