package parser

import (
	"github.com/matlire/BrainrotLang/internal/ast"
	"github.com/matlire/BrainrotLang/internal/token"
	"github.com/matlire/BrainrotLang/internal/types"
)

// parseExpr is the entry point of the precedence ladder (low to high):
// or, and, equality, relational, additive, multiplicative, power
// (right-associative), unary, primary.
func (p *Parser) parseExpr() ast.NodeID {
	return p.parseOr()
}

func (p *Parser) makeBinary(op *token.Token, lhs, rhs ast.NodeID) ast.NodeID {
	bin := p.tree.New(ast.Binary, op.Pos)
	p.tree.Nodes[bin].Op = op.Kind
	p.tree.AddChild(bin, lhs)
	p.tree.AddChild(bin, rhs)
	return bin
}

// binOpLayer parses a left-associative binary operator layer: next (op
// next)*, where cond decides which token kinds belong to this layer.
func (p *Parser) binOpLayer(next func() ast.NodeID, cond func(token.Kind) bool) ast.NodeID {
	n := next()
	if n == ast.NilNode {
		return ast.NilNode
	}
	for {
		op := p.cur()
		if op == nil || !cond(op.Kind) {
			break
		}
		p.pos++
		r := next()
		if r == ast.NilNode {
			return ast.NilNode
		}
		n = p.makeBinary(op, n, r)
	}
	return n
}

func (p *Parser) parseOr() ast.NodeID {
	return p.binOpLayer(p.parseAnd, func(k token.Kind) bool { return k == token.OpOr })
}

func (p *Parser) parseAnd() ast.NodeID {
	return p.binOpLayer(p.parseEq, func(k token.Kind) bool { return k == token.OpAnd })
}

func (p *Parser) parseEq() ast.NodeID {
	return p.binOpLayer(p.parseRel, func(k token.Kind) bool { return k == token.OpEq || k == token.OpNeq })
}

func (p *Parser) parseRel() ast.NodeID {
	return p.binOpLayer(p.parseAdd, func(k token.Kind) bool {
		return k == token.OpGt || k == token.OpLt || k == token.OpGte || k == token.OpLte
	})
}

func (p *Parser) parseAdd() ast.NodeID {
	return p.binOpLayer(p.parseMul, func(k token.Kind) bool { return k == token.OpPlus || k == token.OpMinus })
}

func (p *Parser) parseMul() ast.NodeID {
	return p.binOpLayer(p.parsePow, func(k token.Kind) bool { return k == token.OpMul || k == token.OpDiv })
}

// parsePow is right-associative: a ^ b ^ c parses as a ^ (b ^ c).
func (p *Parser) parsePow() ast.NodeID {
	left := p.parseUnary()
	if left == ast.NilNode {
		return ast.NilNode
	}
	op := p.cur()
	if op != nil && op.Kind == token.OpPow {
		p.pos++
		right := p.parsePow()
		if right == ast.NilNode {
			return ast.NilNode
		}
		return p.makeBinary(op, left, right)
	}
	return left
}

// parseUnary := ('!' | '+' | '-') unary | primary
func (p *Parser) parseUnary() ast.NodeID {
	t := p.cur()
	if t == nil {
		return ast.NilNode
	}
	if t.Kind == token.OpNot || t.Kind == token.OpMinus || t.Kind == token.OpPlus {
		p.pos++
		rhs := p.parseUnary()
		if rhs == ast.NilNode {
			return ast.NilNode
		}
		u := p.tree.New(ast.Unary, t.Pos)
		p.tree.Nodes[u].Op = t.Kind
		p.tree.AddChild(u, rhs)
		return u
	}
	return p.parsePrimary()
}

var builtinUnaryKinds = map[token.Kind]bool{
	token.KwStan: true, token.KwAura: true, token.KwDelulu: true,
	token.KwGoober: true, token.KwBozo: true,
}

// parsePrimary covers parenthesized expressions, builtin-unary calls,
// function calls, identifiers, and numeric/string literals.
func (p *Parser) parsePrimary() ast.NodeID {
	t := p.cur()
	if t == nil {
		return ast.NilNode
	}

	if p.match(token.LParen) {
		e := p.parseExpr()
		if e == ast.NilNode {
			return ast.NilNode
		}
		if !p.expect(token.RParen, ")") {
			return ast.NilNode
		}
		return e
	}

	if builtinUnaryKinds[t.Kind] {
		if next := p.peekN(1); next != nil && next.Kind == token.LParen {
			bk, bp := t.Kind, t.Pos
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
			n := p.tree.New(ast.BuiltinUnary, bp)
			p.tree.Nodes[n].Builtin = builtinFromTok(bk)
			p.tree.AddChild(n, e)
			return n
		}
	}

	if t.Kind == token.Identifier {
		if next := p.peekN(1); next != nil && next.Kind == token.LParen {
			return p.parseCallExpr()
		}

		nameID := t.NameID
		if p.syms.Lookup(nameID) == nil {
			return p.fail(t, "use of undeclared identifier %q", t.Text)
		}
		id := p.tree.New(ast.Ident, t.Pos)
		p.tree.Nodes[id].NameID = nameID
		p.pos++
		return id
	}

	if t.Kind == token.NumericLiteral {
		n := p.tree.New(ast.NumLit, t.Pos)
		p.tree.Nodes[n].LitKind = t.LitKind
		if t.LitKind == token.LitFloat {
			p.tree.Nodes[n].FloatVal = t.FloatVal
			p.tree.Nodes[n].Type = types.Float
		} else {
			p.tree.Nodes[n].IntVal = t.IntVal
			p.tree.Nodes[n].Type = types.Int
		}
		p.pos++
		return n
	}

	if t.Kind == token.StringLiteral {
		s := p.tree.New(ast.StrLit, t.Pos)
		p.tree.Nodes[s].Str = t.Text
		p.tree.Nodes[s].StrLen = len(t.Text)
		p.tree.Nodes[s].Type = types.Ptr
		p.pos++
		return s
	}

	return p.fail(t, "unexpected token in expression: %s", t.Kind.String())
}

// parseCallExpr := IDENT '(' arg_list ')'
func (p *Parser) parseCallExpr() ast.NodeID {
	tid := p.cur()
	if tid == nil || tid.Kind != token.Identifier {
		return ast.NilNode
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
	return call
}

// parseArgList := empty | expr (',' expr)*
func (p *Parser) parseArgList() ast.NodeID {
	t0 := p.cur()
	al := p.tree.New(ast.ArgList, p.posOf(t0))

	t := p.cur()
	if t != nil && t.Kind == token.RParen {
		return al
	}

	e := p.parseExpr()
	if e == ast.NilNode {
		return ast.NilNode
	}
	p.tree.AddChild(al, e)

	for p.match(token.Comma) {
		e2 := p.parseExpr()
		if e2 == ast.NilNode {
			return ast.NilNode
		}
		p.tree.AddChild(al, e2)
	}
	return al
}
