// Package parser implements the recursive-descent, precedence-climbing
// parser: tokens to AST, with inline lexical-scope resolution and
// forward-reference resolution for calls, grounded directly on the
// original syntax analyzer's grammar.
package parser

import (
	"github.com/matlire/BrainrotLang/internal/ast"
	"github.com/matlire/BrainrotLang/internal/cerr"
	"github.com/matlire/BrainrotLang/internal/intrinsic"
	"github.com/matlire/BrainrotLang/internal/symtab"
	"github.com/matlire/BrainrotLang/internal/token"
	"github.com/matlire/BrainrotLang/internal/types"
)

type unresolvedCall struct {
	nameID int
	pos    token.Pos
}

// Parser consumes a flat token slice (already lexed to completion) and
// builds one ast.Tree. Scope resolution happens inline during parsing;
// calls to names that are neither intrinsics nor yet declared are
// deferred to a post-parse pass (see resolveForwardCalls).
type Parser struct {
	toks []token.Token
	pos  int

	tree *ast.Tree
	syms *symtab.Table
	errs *cerr.Buffer

	loopDepth  int
	curFnRet   types.Type
	inFunction bool

	unresolved []unresolvedCall
}

// New returns a parser over toks (which must end in an EOF token),
// building into tree and reporting through errs.
func New(toks []token.Token, tree *ast.Tree, errs *cerr.Buffer) *Parser {
	return &Parser{toks: toks, tree: tree, syms: symtab.New(), errs: errs}
}

// Parse runs the full program grammar and, on success, resolves forward
// function references. Returns the root PROGRAM node id, or NilNode if
// an error was reported.
func Parse(toks []token.Token, tree *ast.Tree, errs *cerr.Buffer) ast.NodeID {
	p := New(toks, tree, errs)
	root := p.parseProgram()
	if root == ast.NilNode {
		return ast.NilNode
	}
	tree.Root = root
	if !p.resolveForwardCalls() {
		return ast.NilNode
	}
	return root
}

func (p *Parser) cur() *token.Token {
	if p.pos >= len(p.toks) {
		return nil
	}
	return &p.toks[p.pos]
}

func (p *Parser) peekN(n int) *token.Token {
	if p.pos+n >= len(p.toks) {
		return nil
	}
	return &p.toks[p.pos+n]
}

func (p *Parser) posOf(t *token.Token) token.Pos {
	if t == nil {
		if len(p.toks) > 0 {
			return p.toks[len(p.toks)-1].Pos
		}
		return token.Pos{Line: 1, Column: 1}
	}
	return t.Pos
}

// fail reports a syntax error at tok's position (or EOF) and returns
// NilNode, letting callers write "return p.fail(tok, \"...\")".
func (p *Parser) fail(tok *token.Token, format string, args ...any) ast.NodeID {
	p.errs.Report(cerr.Syntax, p.posOf(tok), format, args...)
	return ast.NilNode
}

func (p *Parser) match(kind token.Kind) bool {
	if t := p.cur(); t != nil && t.Kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) expect(kind token.Kind, what string) bool {
	if t := p.cur(); t != nil && t.Kind == kind {
		p.pos++
		return true
	}
	got := "<eof>"
	if t := p.cur(); t != nil {
		got = t.Kind.String()
	}
	p.fail(p.cur(), "expected %s, got %s", what, got)
	return false
}

func isTypeTok(k token.Kind) bool {
	return k == token.KwNpc || k == token.KwHomie || k == token.KwSus
}

func typeFromTok(k token.Kind) types.Type {
	switch k {
	case token.KwNpc:
		return types.Int
	case token.KwHomie:
		return types.Float
	case token.KwSus:
		return types.Ptr
	default:
		return types.Unknown
	}
}

func builtinFromTok(k token.Kind) types.BuiltinUnary {
	switch k {
	case token.KwStan:
		return types.BuiltinFloor
	case token.KwAura:
		return types.BuiltinCeil
	case token.KwDelulu:
		return types.BuiltinRound
	case token.KwGoober:
		return types.BuiltinItof
	case token.KwBozo:
		return types.BuiltinFtoi
	default:
		return types.BuiltinFloor
	}
}

func lastChild(tree *ast.Tree, id ast.NodeID) ast.NodeID {
	c := tree.Nodes[id].Left
	if c == ast.NilNode {
		return ast.NilNode
	}
	for tree.Nodes[c].Right != ast.NilNode {
		c = tree.Nodes[c].Right
	}
	return c
}

// parseProgram := function_decl+ EOF
func (p *Parser) parseProgram() ast.NodeID {
	t0 := p.cur()
	program := p.tree.New(ast.Program, p.posOf(t0))

	any := false
	for {
		t := p.cur()
		if t == nil {
			return p.fail(nil, "unexpected end of input")
		}
		if t.Kind == token.EOF {
			break
		}
		fn := p.parseFunctionDecl()
		if fn == ast.NilNode {
			return ast.NilNode
		}
		p.tree.AddChild(program, fn)
		any = true
	}
	if !any {
		return p.fail(p.cur(), "expected at least one function declaration")
	}
	if !p.expect(token.EOF, "EOF") {
		return ast.NilNode
	}
	return program
}

// parseFunctionDecl := ('simp'|type) IDENT '(' params ')' block
func (p *Parser) parseFunctionDecl() ast.NodeID {
	tret := p.cur()
	var retType types.Type
	switch {
	case tret != nil && tret.Kind == token.KwSimp:
		retType = types.Void
		p.pos++
	case tret != nil && isTypeTok(tret.Kind):
		retType = typeFromTok(tret.Kind)
		p.pos++
	default:
		return p.fail(tret, "expected return type (simp/npc/homie/sus)")
	}

	tid := p.cur()
	if tid == nil || tid.Kind != token.Identifier {
		return p.fail(tid, "expected function name identifier")
	}
	fname := tid.NameID
	p.pos++

	fn := p.tree.New(ast.Func, tid.Pos)
	p.tree.Nodes[fn].NameID = fname
	p.tree.Nodes[fn].RetType = retType
	p.tree.Nodes[fn].Type = retType

	if p.syms.LookupCurrent(fname) != nil {
		return p.fail(tid, "redeclaration of %q", tid.Text)
	}
	p.syms.Declare(symtab.Func, fname, retType, fn)

	if !p.expect(token.LParen, "(") {
		return ast.NilNode
	}

	p.syms.PushScope()

	plist := p.parseParamList()
	if plist == ast.NilNode {
		return ast.NilNode
	}
	if !p.expect(token.RParen, ")") {
		return ast.NilNode
	}

	prevRet, prevIn := p.curFnRet, p.inFunction
	p.curFnRet, p.inFunction = retType, true

	body := p.parseBlock()

	p.curFnRet, p.inFunction = prevRet, prevIn

	if body == ast.NilNode {
		return p.fail(p.cur(), "expected function body (yap ... yapity)")
	}

	if retType != types.Void {
		last := lastChild(p.tree, body)
		if last == ast.NilNode || p.tree.Nodes[last].Kind != ast.Return {
			pos := body
			errPos := p.tree.Nodes[pos].Pos
			if last != ast.NilNode {
				errPos = p.tree.Nodes[last].Pos
			}
			p.errs.Report(cerr.Syntax, errPos, "non-void function %q must end with 'micdrop <expr>;'", tid.Text)
			return ast.NilNode
		}
	}

	p.syms.PopScope()

	p.tree.AddChild(fn, plist)
	p.tree.AddChild(fn, body)
	return fn
}

// parseParamList := empty | type IDENT (',' type IDENT)*
func (p *Parser) parseParamList() ast.NodeID {
	t0 := p.cur()
	pl := p.tree.New(ast.ParamList, p.posOf(t0))

	t := p.cur()
	if t == nil {
		return ast.NilNode
	}
	if t.Kind == token.RParen {
		return pl
	}

	for {
		ttype := p.cur()
		if ttype == nil || !isTypeTok(ttype.Kind) {
			return p.fail(ttype, "expected parameter type (npc/homie/sus)")
		}
		ptype := typeFromTok(ttype.Kind)
		p.pos++

		tid := p.cur()
		if tid == nil || tid.Kind != token.Identifier {
			return p.fail(tid, "expected parameter name")
		}
		pname := tid.NameID

		pn := p.tree.New(ast.Param, tid.Pos)
		p.tree.Nodes[pn].NameID = pname
		p.tree.Nodes[pn].DeclType = ptype
		p.tree.Nodes[pn].Type = ptype

		if p.syms.LookupCurrent(pname) != nil {
			return p.fail(tid, "redeclaration of %q", tid.Text)
		}
		p.syms.Declare(symtab.Param, pname, ptype, pn)

		p.tree.AddChild(pl, pn)
		p.pos++

		if !p.match(token.Comma) {
			break
		}
	}
	return pl
}

// parseBlock := 'yap' statement* 'yapity'
func (p *Parser) parseBlock() ast.NodeID {
	t := p.cur()
	if t == nil || t.Kind != token.KwYap {
		return ast.NilNode
	}
	p.pos++

	block := p.tree.New(ast.Block, t.Pos)
	p.syms.PushScope()

	for {
		c := p.cur()
		if c == nil {
			return p.fail(nil, "unexpected end of input inside block")
		}
		if c.Kind == token.KwYapity {
			break
		}
		st := p.parseStatement()
		if st == ast.NilNode {
			return ast.NilNode
		}
		p.tree.AddChild(block, st)
	}
	if !p.expect(token.KwYapity, "yapity") {
		return ast.NilNode
	}
	p.syms.PopScope()
	return block
}

var stmtSemiKeyword = map[token.Kind]func(*Parser) ast.NodeID{
	token.KwGg:      (*Parser).parseBreak,
	token.KwMicdrop: (*Parser).parseReturn,
	token.KwBruh:    (*Parser).parseCallStmt,
	token.KwBased:   func(p *Parser) ast.NodeID { return p.parseCoutStmt(ast.Cout) },
	token.KwMid:     func(p *Parser) ast.NodeID { return p.parseCoutStmt(ast.ICout) },
	token.KwPeak:    func(p *Parser) ast.NodeID { return p.parseCoutStmt(ast.FCout) },
}

func (p *Parser) parseStatement() ast.NodeID {
	t := p.cur()
	if t == nil {
		return ast.NilNode
	}

	switch t.Kind {
	case token.KwYap:
		return p.parseBlock()
	case token.KwLowkey:
		return p.parseWhile()
	case token.KwHighkey:
		return p.parseForDesugared()
	case token.KwAlpha:
		return p.parseIf()
	}

	if isTypeTok(t.Kind) {
		vd := p.parseVarDecl()
		if vd == ast.NilNode {
			return ast.NilNode
		}
		if !p.expect(token.Semicolon, ";") {
			return ast.NilNode
		}
		return vd
	}

	if t.Kind == token.Identifier {
		if t1 := p.peekN(1); t1 != nil && t1.Kind == token.KwGaslight {
			as := p.parseAssignment()
			if as == ast.NilNode {
				return ast.NilNode
			}
			if !p.expect(token.Semicolon, ";") {
				return ast.NilNode
			}
			return as
		}
	}

	if fn, ok := stmtSemiKeyword[t.Kind]; ok {
		n := fn(p)
		if n == ast.NilNode {
			return ast.NilNode
		}
		if !p.expect(token.Semicolon, ";") {
			return ast.NilNode
		}
		return n
	}

	e := p.parseExpr()
	if e == ast.NilNode {
		return ast.NilNode
	}
	st := p.tree.New(ast.ExprStmt, p.tree.Nodes[e].Pos)
	p.tree.AddChild(st, e)
	if !p.expect(token.Semicolon, ";") {
		return ast.NilNode
	}
	return st
}

// parseVarDecl := type IDENT ('gaslight' expr)?
func (p *Parser) parseVarDecl() ast.NodeID {
	ttype := p.cur()
	if ttype == nil || !isTypeTok(ttype.Kind) {
		return ast.NilNode
	}
	vtype := typeFromTok(ttype.Kind)
	p.pos++

	tid := p.cur()
	if tid == nil || tid.Kind != token.Identifier {
		return p.fail(tid, "expected identifier in variable declaration")
	}
	nameID := tid.NameID

	vd := p.tree.New(ast.VarDecl, tid.Pos)
	p.tree.Nodes[vd].NameID = nameID
	p.tree.Nodes[vd].DeclType = vtype
	p.tree.Nodes[vd].Type = vtype

	if p.syms.LookupCurrent(nameID) != nil {
		return p.fail(tid, "redeclaration of %q", tid.Text)
	}
	p.syms.Declare(symtab.Var, nameID, vtype, vd)

	p.pos++

	if p.match(token.KwGaslight) {
		init := p.parseExpr()
		if init == ast.NilNode {
			return ast.NilNode
		}
		p.tree.AddChild(vd, init)
	}
	return vd
}

// parseAssignment := IDENT 'gaslight' expr
func (p *Parser) parseAssignment() ast.NodeID {
	tid := p.cur()
	if tid == nil || tid.Kind != token.Identifier {
		return ast.NilNode
	}
	nameID := tid.NameID

	if p.syms.Lookup(nameID) == nil {
		return p.fail(tid, "assignment to undeclared identifier %q", tid.Text)
	}
	p.pos++

	if !p.expect(token.KwGaslight, "gaslight") {
		return ast.NilNode
	}

	rhs := p.parseExpr()
	if rhs == ast.NilNode {
		return ast.NilNode
	}

	as := p.tree.New(ast.Assign, tid.Pos)
	p.tree.Nodes[as].NameID = nameID
	p.tree.AddChild(as, rhs)
	return as
}

func (p *Parser) parseBreak() ast.NodeID {
	t := p.cur()
	if t == nil || t.Kind != token.KwGg {
		return ast.NilNode
	}
	if p.loopDepth <= 0 {
		return p.fail(t, "gg (break) outside of loop")
	}
	p.pos++
	return p.tree.New(ast.Break, t.Pos)
}

func (p *Parser) parseReturn() ast.NodeID {
	t := p.cur()
	if t == nil || t.Kind != token.KwMicdrop {
		return ast.NilNode
	}
	if !p.inFunction {
		return p.fail(t, "micdrop used outside of a function")
	}
	p.pos++

	rn := p.tree.New(ast.Return, t.Pos)

	c := p.cur()
	hasExpr := c != nil && c.Kind != token.Semicolon

	if p.curFnRet == types.Void {
		if hasExpr {
			return p.fail(c, "void function can't return a value")
		}
		return rn
	}

	if !hasExpr {
		tok := c
		if tok == nil {
			tok = t
		}
		return p.fail(tok, "non-void function must return a value")
	}

	e := p.parseExpr()
	if e == ast.NilNode {
		return ast.NilNode
	}
	p.tree.AddChild(rn, e)
	return rn
}

func (p *Parser) isBuiltinCallName(tid *token.Token) bool {
	if tid == nil || tid.Kind != token.Identifier {
		return false
	}
	_, ok := intrinsic.Names[tid.Text]
	return ok
}

// parseCallStmt := 'bruh' IDENT '(' arg_list ')'  (semicolon handled by statement)
func (p *Parser) parseCallStmt() ast.NodeID {
	t := p.cur()
	if t == nil || t.Kind != token.KwBruh {
		return ast.NilNode
	}
	p.pos++

	tid := p.cur()
	if tid == nil || tid.Kind != token.Identifier {
		return p.fail(tid, "expected function name after bruh")
	}
	nameID := tid.NameID
	p.pos++

	if !p.expect(token.LParen, "(") {
		return ast.NilNode
	}
	args := p.parseArgList()
	if args == ast.NilNode {
		return ast.NilNode
	}
	if !p.expect(token.RParen, ")") {
		return ast.NilNode
	}

	call := p.tree.New(ast.Call, tid.Pos)
	p.tree.Nodes[call].NameID = nameID
	p.tree.AddChild(call, args)

	if !p.isBuiltinCallName(tid) && p.syms.Lookup(nameID) == nil {
		p.unresolved = append(p.unresolved, unresolvedCall{nameID: nameID, pos: tid.Pos})
	}

	st := p.tree.New(ast.CallStmt, t.Pos)
	p.tree.AddChild(st, call)
	return st
}

// parseCoutStmt := ('based'|'mid'|'peak') '(' expr ')'
func (p *Parser) parseCoutStmt(kind ast.Kind) ast.NodeID {
	t := p.cur()
	if t == nil {
		return ast.NilNode
	}
	p.pos++

	if !p.expect(token.LParen, "(") {
		return ast.NilNode
	}
	e := p.parseExpr()
	if e == ast.NilNode {
		return ast.NilNode
	}
	if !p.expect(token.RParen, ")") {
		return ast.NilNode
	}

	n := p.tree.New(kind, t.Pos)
	p.tree.AddChild(n, e)
	return n
}

// parseWhile := 'lowkey' '(' expr ')' statement
func (p *Parser) parseWhile() ast.NodeID {
	t := p.cur()
	if t == nil || t.Kind != token.KwLowkey {
		return ast.NilNode
	}
	p.pos++

	if !p.expect(token.LParen, "(") {
		return ast.NilNode
	}
	cond := p.parseExpr()
	if cond == ast.NilNode {
		return ast.NilNode
	}
	if !p.expect(token.RParen, ")") {
		return ast.NilNode
	}

	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	if body == ast.NilNode {
		return ast.NilNode
	}

	w := p.tree.New(ast.While, t.Pos)
	p.tree.AddChild(w, cond)
	p.tree.AddChild(w, body)
	return w
}

func (p *Parser) makeTrueLit(pos token.Pos) ast.NodeID {
	n := p.tree.New(ast.NumLit, pos)
	p.tree.Nodes[n].LitKind = token.LitInt
	p.tree.Nodes[n].IntVal = 1
	p.tree.Nodes[n].Type = types.Int
	return n
}

func (p *Parser) wrapExprStmt(e ast.NodeID) ast.NodeID {
	st := p.tree.New(ast.ExprStmt, p.tree.Nodes[e].Pos)
	p.tree.AddChild(st, e)
	return st
}

// parseForDesugared := 'highkey' '(' init? ';' cond? ';' step? ')' statement
//
// Desugars directly to WHILE (wrapped in a BLOCK when there is an init),
// with an omitted condition becoming integer literal 1 and the step (if
// any) appended as the last statement of the loop body.
func (p *Parser) parseForDesugared() ast.NodeID {
	t := p.cur()
	if t == nil || t.Kind != token.KwHighkey {
		return ast.NilNode
	}
	p.pos++

	if !p.expect(token.LParen, "(") {
		return ast.NilNode
	}

	var init ast.NodeID = ast.NilNode
	c := p.cur()
	if c != nil && c.Kind != token.Semicolon {
		switch {
		case isTypeTok(c.Kind):
			init = p.parseVarDecl()
		case c.Kind == token.Identifier && p.peekN(1) != nil && p.peekN(1).Kind == token.KwGaslight:
			init = p.parseAssignment()
		default:
			return p.fail(c, "invalid for-init (expected var decl, assignment, or empty)")
		}
		if init == ast.NilNode {
			return ast.NilNode
		}
	}
	if !p.expect(token.Semicolon, ";") {
		return ast.NilNode
	}

	var cond ast.NodeID
	c = p.cur()
	if c != nil && c.Kind != token.Semicolon {
		cond = p.parseExpr()
		if cond == ast.NilNode {
			return ast.NilNode
		}
	} else {
		pos := token.Pos{}
		if c != nil {
			pos = c.Pos
		}
		cond = p.makeTrueLit(pos)
	}
	if !p.expect(token.Semicolon, ";") {
		return ast.NilNode
	}

	var stepStmt ast.NodeID = ast.NilNode
	c = p.cur()
	if c != nil && c.Kind != token.RParen {
		var step ast.NodeID
		if c.Kind == token.Identifier && p.peekN(1) != nil && p.peekN(1).Kind == token.KwGaslight {
			step = p.parseAssignment()
		} else {
			step = p.parseExpr()
		}
		if step == ast.NilNode {
			return ast.NilNode
		}
		if p.tree.Nodes[step].Kind == ast.Assign || p.tree.Nodes[step].Kind == ast.VarDecl {
			stepStmt = step
		} else {
			stepStmt = p.wrapExprStmt(step)
		}
	}
	if !p.expect(token.RParen, ")") {
		return ast.NilNode
	}

	p.loopDepth++
	bodyStmt := p.parseStatement()
	p.loopDepth--
	if bodyStmt == ast.NilNode {
		return ast.NilNode
	}

	whileBody := bodyStmt
	if stepStmt != ast.NilNode {
		if p.tree.Nodes[whileBody].Kind != ast.Block {
			b := p.tree.New(ast.Block, p.tree.Nodes[bodyStmt].Pos)
			p.tree.AddChild(b, whileBody)
			whileBody = b
		}
		p.tree.AddChild(whileBody, stepStmt)
	}

	w := p.tree.New(ast.While, t.Pos)
	p.tree.AddChild(w, cond)
	p.tree.AddChild(w, whileBody)

	if init == ast.NilNode {
		return w
	}

	outer := p.tree.New(ast.Block, t.Pos)
	p.tree.AddChild(outer, init)
	p.tree.AddChild(outer, w)
	return outer
}

// parseIf builds a right-associative alpha/omega*/sigma? chain, threaded
// through the third (tail) child of IF and each BRANCH.
func (p *Parser) parseIf() ast.NodeID {
	t := p.cur()
	if t == nil || t.Kind != token.KwAlpha {
		return ast.NilNode
	}
	p.pos++

	if !p.expect(token.LParen, "(") {
		return ast.NilNode
	}
	cond := p.parseExpr()
	if cond == ast.NilNode {
		return ast.NilNode
	}
	if !p.expect(token.RParen, ")") {
		return ast.NilNode
	}

	thenSt := p.parseStatement()
	if thenSt == ast.NilNode {
		return ast.NilNode
	}

	type branch struct {
		cond, stmt ast.NodeID
		pos        token.Pos
	}
	var branches []branch

	for p.cur() != nil && p.cur().Kind == token.KwOmega {
		to := p.cur()
		p.pos++

		if !p.expect(token.LParen, "(") {
			return ast.NilNode
		}
		cnd := p.parseExpr()
		if cnd == ast.NilNode {
			return ast.NilNode
		}
		if !p.expect(token.RParen, ")") {
			return ast.NilNode
		}
		st := p.parseStatement()
		if st == ast.NilNode {
			return ast.NilNode
		}
		branches = append(branches, branch{cond: cnd, stmt: st, pos: to.Pos})
	}

	var tail ast.NodeID = ast.NilNode
	if p.cur() != nil && p.cur().Kind == token.KwSigma {
		ts := p.cur()
		p.pos++
		elseBody := p.parseStatement()
		if elseBody == ast.NilNode {
			return ast.NilNode
		}
		els := p.tree.New(ast.Else, ts.Pos)
		p.tree.AddChild(els, elseBody)
		tail = els
	}

	for i := len(branches) - 1; i >= 0; i-- {
		br := p.tree.New(ast.Branch, branches[i].pos)
		p.tree.AddChild(br, branches[i].cond)
		p.tree.AddChild(br, branches[i].stmt)
		if tail != ast.NilNode {
			p.tree.AddChild(br, tail)
		}
		tail = br
	}

	ifn := p.tree.New(ast.If, t.Pos)
	p.tree.AddChild(ifn, cond)
	p.tree.AddChild(ifn, thenSt)
	if tail != ast.NilNode {
		p.tree.AddChild(ifn, tail)
	}
	return ifn
}

// resolveForwardCalls checks every call deferred during parsing against
// the final (global-scope) symbol table, now that every function decl
// has been seen.
func (p *Parser) resolveForwardCalls() bool {
	for _, uc := range p.unresolved {
		if p.syms.Lookup(uc.nameID) == nil {
			p.errs.Report(cerr.Syntax, uc.pos, "undefined function %q", p.tree.Names.Get(uc.nameID))
			return false
		}
	}
	return true
}
