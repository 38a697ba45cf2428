// Package codegen lowers an optimized AST to the stack-machine assembly
// target, grounded on backend/backend.c's per-statement emission order,
// frame layout, and prologue/epilogue/call sequences — all built from
// the closed PUSH/POP/PUSHR/POPR/PUSHM/POPM primitive catalog, since
// the target ISA has no ENTER/LEAVE/NEG/NOT instructions of its own —
// with the emitter's own bufio/label-counter shape grounded on
// lang/ygen/emit.go.
package codegen

import (
	"fmt"
	"io"

	"github.com/matlire/BrainrotLang/internal/ast"
	"github.com/matlire/BrainrotLang/internal/cerr"
	"github.com/matlire/BrainrotLang/internal/token"
	"github.com/matlire/BrainrotLang/internal/types"
)

// funcSig is what a call site needs to know about a user-declared
// function: its return type (for expression typing) and its parameter
// types (for call-site int/float coercion).
type funcSig struct {
	retType types.Type
	params  []types.Type
}

type generator struct {
	tree *ast.Tree
	e    *emitter
	sigs map[int]funcSig

	frame      *frame
	retType    types.Type
	endLabel   string   // current function's single epilogue label; RETURN jumps here
	loopLabels []string // innermost-last stack of while-exit labels, for 'gg' (break)
}

// Generate emits the full program's assembly to w, in source-declaration
// order, preceded by an entry stub that calls 'main' and halts. Reports
// a BadArgument error through errs if the program declares no 'main'.
func Generate(tree *ast.Tree, w io.Writer, errs *cerr.Buffer) error {
	g := &generator{tree: tree, e: newEmitter(w), sigs: map[int]funcSig{}}

	funcs := tree.Children(tree.Root)
	var mainFn ast.NodeID = ast.NilNode
	for _, fn := range funcs {
		n := &tree.Nodes[fn]
		plist := tree.ChildAt(fn, 0)
		params := make([]types.Type, 0, tree.ChildCount(plist))
		for _, p := range tree.Children(plist) {
			params = append(params, tree.Nodes[p].DeclType)
		}
		g.sigs[n.NameID] = funcSig{retType: n.RetType, params: params}
		if tree.Names.Get(n.NameID) == "main" {
			mainFn = fn
		}
	}
	if mainFn == ast.NilNode {
		errs.Report(cerr.BadArgument, token.Pos{}, "program declares no 'main' function")
		return fmt.Errorf("no 'main' function")
	}

	g.e.comment("entry point")
	g.e.instr1("CALL", ":fn_main")
	g.e.instr0("HLT")

	for _, fn := range funcs {
		g.emitFunction(fn)
	}
	return g.e.flush()
}

func countVarDecls(tree *ast.Tree, id ast.NodeID) int {
	if id == ast.NilNode {
		return 0
	}
	n := 0
	if tree.Nodes[id].Kind == ast.VarDecl {
		n++
	}
	return n + countVarDecls(tree, tree.Nodes[id].Left) + countVarDecls(tree, tree.Nodes[id].Right)
}

// emitFunction emits one function's prologue, body, implicit-return
// fallback, and trailing epilogue. Frame offset 0 is the saved BP,
// 1..param_count are parameters in declaration order, and the rest are
// locals in declaration order.
//
// The prologue and epilogue are the literal primitive sequences spec'd
// for this target (there is no ENTER/LEAVE opcode): the prologue pushes
// the old BP, stores it at RAM[SP] via the x13 scratch address
// register, sets BP<-SP, then SP<-SP+frame_size; the epilogue reverses
// that (SP<-BP, BP<-RAM[BP]) before RET. Every RETURN jumps to the one
// shared end label instead of duplicating the epilogue at each return
// site, per backend.c's fn_end_label convention.
func (g *generator) emitFunction(fn ast.NodeID) {
	tree := g.tree
	name := tree.Names.Get(tree.Nodes[fn].NameID)
	plist := tree.ChildAt(fn, 0)
	body := tree.ChildAt(fn, 1)
	params := tree.Children(plist)

	g.frame = newFrame()
	g.frame.pushScope()
	for i, p := range params {
		pn := &tree.Nodes[p]
		g.frame.declareAt(pn.NameID, 1+i, pn.DeclType)
	}
	g.frame.nextSlot = 1 + len(params)
	g.retType = tree.Nodes[fn].RetType
	g.endLabel = g.e.newLabel("fn_end")

	frameSize := 1 + len(params) + countVarDecls(tree, body)

	g.e.blank()
	g.e.comment("%s", name)
	g.e.label(":fn_" + name)

	// RAM[SP] = oldBP; BP = SP; SP = SP + frameSize
	g.e.instr1("PUSHR", "x15")
	g.e.instr1("PUSHR", "x14")
	g.e.instr1("POPR", "x13")
	g.e.instr1("POPM", "x13")
	g.e.instr1("PUSHR", "x14")
	g.e.instr1("POPR", "x15")
	g.e.instr1("PUSHR", "x14")
	g.e.push(int64(frameSize))
	g.e.instr0("ADD")
	g.e.instr1("POPR", "x14")

	g.emitStmt(body)

	if g.retType != types.Void {
		g.e.comment("implicit return (defensive)")
		g.e.push(0)
		if g.retType == types.Float {
			g.e.instr0("ITOF")
			g.e.instr1("POPR", "fx0")
		} else {
			g.e.instr1("POPR", "x0")
		}
	}

	g.e.label(g.endLabel)

	// SP = BP; BP = RAM[BP]; RET
	g.e.instr1("PUSHR", "x15")
	g.e.instr1("POPR", "x14")
	g.e.instr1("PUSHR", "x15")
	g.e.instr1("POPR", "x13")
	g.e.instr1("PUSHM", "x13")
	g.e.instr1("POPR", "x15")
	g.e.instr0("RET")

	g.frame.popScope()
}

// coerce converts the value on top of the stack from 'from' to 'to' when
// they differ and both sides are numeric, implementing the implicit
// int<->float coercion call sites, assignments, and returns all allow.
func (g *generator) coerce(from, to types.Type) {
	switch {
	case from == to:
	case to == types.Float && from == types.Int:
		g.e.instr0("ITOF")
	case to == types.Int && from == types.Float:
		g.e.instr0("FTOI")
	}
}

func (g *generator) emitStmt(id ast.NodeID) {
	if id == ast.NilNode {
		return
	}
	tree := g.tree
	switch tree.Nodes[id].Kind {
	case ast.Block:
		g.frame.pushScope()
		for c := tree.Nodes[id].Left; c != ast.NilNode; c = tree.Nodes[c].Right {
			g.emitStmt(c)
		}
		g.frame.popScope()

	case ast.VarDecl:
		n := &tree.Nodes[id]
		off := g.frame.declare(n.NameID, n.DeclType)
		if init := tree.ChildAt(id, 0); init != ast.NilNode {
			t := g.emitExprFor(init, n.DeclType)
			g.coerce(t, n.DeclType)
			g.storeFrame(off)
		}

	case ast.Assign:
		n := &tree.Nodes[id]
		b, ok := g.frame.lookup(n.NameID)
		if !ok {
			break // unreachable: parser rejects assignment to an undeclared name
		}
		t := g.emitExprFor(tree.ChildAt(id, 0), b.typ)
		g.coerce(t, b.typ)
		g.storeFrame(b.offset)

	case ast.Return:
		if g.retType == types.Void {
			g.e.instr1("JMP", g.endLabel)
			break
		}
		if e := tree.ChildAt(id, 0); e != ast.NilNode {
			t := g.emitExprFor(e, g.retType)
			g.coerce(t, g.retType)
		} else {
			g.e.push(0)
			if g.retType == types.Float {
				g.e.instr0("ITOF")
			}
		}
		if g.retType == types.Float {
			g.e.instr1("POPR", "fx0")
		} else {
			g.e.instr1("POPR", "x0")
		}
		g.e.instr1("JMP", g.endLabel)

	case ast.Break:
		if len(g.loopLabels) > 0 {
			g.e.instr1("JMP", g.loopLabels[len(g.loopLabels)-1])
		}

	case ast.While:
		g.emitWhile(id)

	case ast.If:
		g.emitIfChain(id)

	case ast.CallStmt:
		t := g.emitExpr(tree.ChildAt(id, 0))
		if t != types.Void {
			g.e.instr0("POP")
		}

	case ast.ExprStmt:
		t := g.emitExpr(tree.ChildAt(id, 0))
		if t != types.Void {
			g.e.instr0("POP")
		}

	case ast.Cout:
		g.emitExpr(tree.ChildAt(id, 0))
		g.e.instr0("COUT")
	case ast.ICout:
		t := g.emitExpr(tree.ChildAt(id, 0))
		g.coerce(t, types.Int)
		g.e.instr0("ICOUT")
	case ast.FCout:
		t := g.emitExprFor(tree.ChildAt(id, 0), types.Float)
		g.coerce(t, types.Float)
		g.e.instr0("FCOUT")
	}
}

func (g *generator) emitWhile(id ast.NodeID) {
	tree := g.tree
	cond := tree.ChildAt(id, 0)
	body := tree.ChildAt(id, 1)

	condLabel := g.e.newLabel("while_cond")
	endLabel := g.e.newLabel("while_end")

	g.e.label(condLabel)
	g.emitExpr(cond)
	g.e.instr1("JE", endLabel)

	g.loopLabels = append(g.loopLabels, endLabel)
	g.emitStmt(body)
	g.loopLabels = g.loopLabels[:len(g.loopLabels)-1]

	g.e.instr1("JMP", condLabel)
	g.e.label(endLabel)
}

// emitIfChain emits an IF or BRANCH node: child 0 is the condition,
// child 1 the taken statement, and an optional child 2 is the next link
// in the alpha/omega*/sigma chain (a BRANCH for another 'omega', or an
// ELSE for the closing 'sigma').
func (g *generator) emitIfChain(id ast.NodeID) {
	tree := g.tree
	cond := tree.ChildAt(id, 0)
	thenStmt := tree.ChildAt(id, 1)
	tail := tree.ChildAt(id, 2)

	elseLabel := g.e.newLabel("if_else")
	endLabel := g.e.newLabel("if_end")

	g.emitExpr(cond)
	g.e.instr1("JE", elseLabel)
	g.emitStmt(thenStmt)
	g.e.instr1("JMP", endLabel)
	g.e.label(elseLabel)

	switch {
	case tail == ast.NilNode:
		// no 'sigma': fall through
	case tree.Nodes[tail].Kind == ast.Branch:
		g.emitIfChain(tail)
	case tree.Nodes[tail].Kind == ast.Else:
		g.emitStmt(tree.ChildAt(tail, 0))
	}

	g.e.label(endLabel)
}

// emitFrameAddr computes BP+offset into the x13 scratch address
// register: PUSHM/POPM take a register operand, not a bracket
// expression, so every frame-slot access goes through this first.
func (g *generator) emitFrameAddr(offset int) {
	g.e.instr1("PUSHR", "x15")
	g.e.instr1("POPR", "x13")
	g.e.instr1("PUSHR", "x13")
	g.e.push(int64(offset))
	g.e.instr0("ADD")
	g.e.instr1("POPR", "x13")
}

// loadFrame pushes the value at frame offset off onto the stack.
func (g *generator) loadFrame(off int) {
	g.emitFrameAddr(off)
	g.e.instr1("PUSHM", "x13")
}

// storeFrame pops the top of the stack into frame offset off.
func (g *generator) storeFrame(off int) {
	g.emitFrameAddr(off)
	g.e.instr1("POPM", "x13")
}
