package sexpr

import (
	"strings"
	"testing"

	"github.com/matlire/BrainrotLang/internal/ast"
	"github.com/matlire/BrainrotLang/internal/cerr"
	"github.com/matlire/BrainrotLang/internal/lexer"
	"github.com/matlire/BrainrotLang/internal/parser"
)

func parseSrc(t *testing.T, src string) *ast.Tree {
	t.Helper()
	tree := ast.NewTree()
	errs := cerr.NewBuffer([]byte(src))
	toks := lexer.Tokenize([]byte(src), tree.Names, errs)
	if errs.HasError() {
		t.Fatalf("lex error: %s", errs.Format())
	}
	root := parser.Parse(toks, tree, errs)
	if errs.HasError() {
		t.Fatalf("parse error: %s", errs.Format())
	}
	tree.Root = root
	return tree
}

// equivalent reports whether a and b have the same kinds, payloads (modulo
// STR_LIT content, which the format doesn't preserve), types, and child
// ordering, ignoring source position as the reader regenerates it.
func equivalent(a *ast.Tree, aID ast.NodeID, b *ast.Tree, bID ast.NodeID) bool {
	if aID == ast.NilNode || bID == ast.NilNode {
		return aID == ast.NilNode && bID == ast.NilNode
	}
	an, bn := &a.Nodes[aID], &b.Nodes[bID]
	if an.Kind != bn.Kind || an.Type != bn.Type {
		return false
	}
	switch an.Kind {
	case ast.Func:
		if an.RetType != bn.RetType || a.Names.Get(an.NameID) != b.Names.Get(bn.NameID) {
			return false
		}
	case ast.Param, ast.VarDecl:
		if an.DeclType != bn.DeclType || a.Names.Get(an.NameID) != b.Names.Get(bn.NameID) {
			return false
		}
	case ast.Assign, ast.Ident, ast.Call:
		if a.Names.Get(an.NameID) != b.Names.Get(bn.NameID) {
			return false
		}
	case ast.NumLit:
		if an.LitKind != bn.LitKind || an.IntVal != bn.IntVal || an.FloatVal != bn.FloatVal {
			return false
		}
	case ast.StrLit:
		if an.StrLen != bn.StrLen {
			return false
		}
	case ast.Unary, ast.Binary:
		if an.Op != bn.Op {
			return false
		}
	case ast.BuiltinUnary:
		if an.Builtin != bn.Builtin {
			return false
		}
	}
	return equivalent(a, an.Left, b, bn.Left) && equivalent(a, an.Right, b, bn.Right)
}

func roundTrip(t *testing.T, src string) {
	t.Helper()
	tree := parseSrc(t, src)

	var sb strings.Builder
	if err := Write(&sb, tree); err != nil {
		t.Fatalf("Write: %v", err)
	}

	tree2 := ast.NewTree()
	root2, err := Read(sb.String(), tree2)
	if err != nil {
		t.Fatalf("Read: %v\nencoded form:\n%s", err, sb.String())
	}
	tree2.Root = root2

	if !equivalent(tree, tree.Root, tree2, tree2.Root) {
		t.Fatalf("round-trip mismatch for %q\nencoded form:\n%s", src, sb.String())
	}
}

func TestRoundTripMinimalProgram(t *testing.T) {
	roundTrip(t, "npc main() yap micdrop 0; yapity")
}

func TestRoundTripExpressionsAndCalls(t *testing.T) {
	roundTrip(t, `npc add(npc a, npc b) yap micdrop a + b; yapity
npc main() yap
	npc x gaslight add(2, 3) * stan(1.5) ^ 2;
	based(x);
	micdrop x;
yapity`)
}

func TestRoundTripControlFlow(t *testing.T) {
	roundTrip(t, `npc main() yap
	npc i gaslight 0;
	highkey (npc j gaslight 0; j < 3; j gaslight j + 1)
		based(j);
	alpha (i == 0) yap based(1); yapity omega (i == 1) yap based(2); yapity sigma yap based(3); yapity
	micdrop 0;
yapity`)
}

func TestRoundTripStringLiteralPreservesLengthOnly(t *testing.T) {
	tree := parseSrc(t, `sus name() yap micdrop "hi"; yapity`)

	var sb strings.Builder
	if err := Write(&sb, tree); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(sb.String(), "str_len=2") {
		t.Fatalf("encoded form missing str_len=2: %s", sb.String())
	}

	tree2 := ast.NewTree()
	root2, err := Read(sb.String(), tree2)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	tree2.Root = root2
	if !equivalent(tree, tree.Root, tree2, tree2.Root) {
		t.Fatalf("round-trip mismatch")
	}
}

func TestReadRejectsTrailingGarbage(t *testing.T) {
	tree := ast.NewTree()
	_, err := Read("(PROGRAM nil nil) extra", tree)
	if err == nil {
		t.Fatal("want an error for trailing garbage after the top-level form")
	}
}

func TestReadRejectsMalformedInput(t *testing.T) {
	tree := ast.NewTree()
	_, err := Read("(PROGRAM nil", tree)
	if err == nil {
		t.Fatal("want an error for an unterminated form")
	}
}

func TestReadRejectsUnknownKind(t *testing.T) {
	tree := ast.NewTree()
	_, err := Read("(NOT_A_KIND nil nil)", tree)
	if err == nil {
		t.Fatal("want an error for an unrecognized node kind")
	}
}
