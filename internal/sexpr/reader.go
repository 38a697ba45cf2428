package sexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matlire/BrainrotLang/internal/ast"
	"github.com/matlire/BrainrotLang/internal/token"
	"github.com/matlire/BrainrotLang/internal/types"
)

// builtinKeywords is the inverse of builtinSpellings.
var builtinKeywords = map[string]types.BuiltinUnary{
	"stan": types.BuiltinFloor, "aura": types.BuiltinCeil, "delulu": types.BuiltinRound,
	"goober": types.BuiltinItof, "bozo": types.BuiltinFtoi,
}

// typeKeywords is the inverse of types.Type.String, used to parse ret=/
// type= payload values back into the semantic type lattice.
var typeKeywords = map[string]types.Type{
	"int": types.Int, "float": types.Float, "ptr": types.Ptr, "void": types.Void, "unknown": types.Unknown,
}

// Read parses a single `.east` S-expression into a fresh subtree of tree
// and returns its root id, or an error on malformed input (including
// trailing garbage after the closing paren of the top-level form).
func Read(src string, tree *ast.Tree) (ast.NodeID, error) {
	r := &reader{toks: tokenize(src), tree: tree}
	root := r.readTree(ast.NilNode)
	if r.err != nil {
		return ast.NilNode, r.err
	}
	if r.pos != len(r.toks) {
		return ast.NilNode, fmt.Errorf("trailing garbage after top-level form: %q", r.toks[r.pos])
	}
	return root, nil
}

// tokenize splits src into "(", ")", and whitespace-delimited atoms.
func tokenize(src string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, c := range src {
		switch {
		case c == '(' || c == ')':
			flush()
			toks = append(toks, string(c))
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush()
		default:
			cur.WriteRune(c)
		}
	}
	flush()
	return toks
}

type reader struct {
	toks []string
	pos  int
	tree *ast.Tree
	err  error
}

func (r *reader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf(format, args...)
	}
}

func (r *reader) next() string {
	if r.pos >= len(r.toks) {
		r.fail("unexpected end of .east input")
		return ""
	}
	t := r.toks[r.pos]
	r.pos++
	return t
}

func (r *reader) peek() string {
	if r.pos >= len(r.toks) {
		return ""
	}
	return r.toks[r.pos]
}

// readTree parses one `nil` or `( KIND payload* sub sub )` form, assigning
// parent as the Parent of the node it allocates (or, for the sibling
// slot, the same parent its caller was given — siblings share a parent).
func (r *reader) readTree(parent ast.NodeID) ast.NodeID {
	if r.err != nil {
		return ast.NilNode
	}
	t := r.next()
	if t == "nil" {
		return ast.NilNode
	}
	if t != "(" {
		r.fail("expected '(' or 'nil', got %q", t)
		return ast.NilNode
	}

	kindTok := r.next()
	kind, ok := ast.KindFromString(kindTok)
	if !ok {
		r.fail("unknown node kind %q", kindTok)
		return ast.NilNode
	}

	id := r.tree.New(kind, token.Pos{})
	r.tree.Nodes[id].Parent = parent

	for {
		p := r.peek()
		if p == "(" || p == "nil" || p == "" {
			break
		}
		if !strings.Contains(p, "=") {
			break
		}
		r.pos++
		r.applyPayload(id, kind, p)
		if r.err != nil {
			return ast.NilNode
		}
	}

	left := r.readTree(id)
	right := r.readTree(parent)
	if r.err != nil {
		return ast.NilNode
	}
	r.tree.Nodes[id].Left = left
	r.tree.Nodes[id].Right = right

	if !r.expect(")") {
		return ast.NilNode
	}
	return id
}

func (r *reader) expect(tok string) bool {
	t := r.next()
	if t != tok {
		r.fail("expected %q, got %q", tok, t)
		return false
	}
	return true
}

// applyPayload splits one key=value atom and stores it into id's payload
// fields according to kind.
func (r *reader) applyPayload(id ast.NodeID, kind ast.Kind, atom string) {
	eq := strings.IndexByte(atom, '=')
	if eq < 0 {
		r.fail("malformed payload atom %q", atom)
		return
	}
	key, val := atom[:eq], atom[eq+1:]
	n := &r.tree.Nodes[id]

	switch key {
	case "name":
		n.NameID = r.tree.Names.Insert(val)
	case "ret":
		t, ok := typeKeywords[val]
		if !ok {
			r.fail("unknown type %q in ret=", val)
			return
		}
		n.RetType, n.Type = t, t
	case "type":
		t, ok := typeKeywords[val]
		if !ok {
			r.fail("unknown type %q in type=", val)
			return
		}
		n.DeclType, n.Type = t, t
	case "int":
		iv, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			r.fail("malformed int= payload %q: %v", val, err)
			return
		}
		n.LitKind, n.IntVal, n.Type = token.LitInt, iv, types.Int
	case "float":
		fv, err := strconv.ParseFloat(val, 64)
		if err != nil {
			r.fail("malformed float= payload %q: %v", val, err)
			return
		}
		n.LitKind, n.FloatVal, n.Type = token.LitFloat, fv, types.Float
	case "str_len":
		sl, err := strconv.Atoi(val)
		if err != nil {
			r.fail("malformed str_len= payload %q: %v", val, err)
			return
		}
		// Only the length survives an .east round-trip; the content is
		// not recoverable, so a placeholder of the same length stands in.
		n.StrLen = sl
		n.Str = strings.Repeat("\x00", sl)
		n.Type = types.Ptr
	case "op":
		op, ok := token.KindFromSymbol(val)
		if !ok {
			r.fail("unknown operator %q in op=", val)
			return
		}
		n.Op = op
	case "builtin":
		b, ok := builtinKeywords[val]
		if !ok {
			r.fail("unknown builtin %q", val)
			return
		}
		n.Builtin = b
	default:
		r.fail("unrecognized payload key %q (kind %s)", key, kind)
	}
}
