package optimizer

import (
	"testing"

	"github.com/matlire/BrainrotLang/internal/ast"
	"github.com/matlire/BrainrotLang/internal/cerr"
	"github.com/matlire/BrainrotLang/internal/lexer"
	"github.com/matlire/BrainrotLang/internal/parser"
	"github.com/matlire/BrainrotLang/internal/token"
)

func parseReturnExpr(t *testing.T, exprSrc string) (*ast.Tree, ast.NodeID) {
	t.Helper()
	src := "npc main() yap micdrop " + exprSrc + "; yapity"
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

	fn := tree.ChildAt(root, 0)
	body := tree.ChildAt(fn, 1)
	ret := tree.ChildAt(body, 0)
	return tree, tree.ChildAt(ret, 0)
}

func TestFoldUnaryPlusMinusNot(t *testing.T) {
	cases := []struct {
		src      string
		wantKind ast.Kind
		wantInt  int64
	}{
		{"-5", ast.NumLit, -5},
		{"+5", ast.NumLit, 5},
		{"!0", ast.NumLit, 1},
		{"!3", ast.NumLit, 0},
	}
	for _, c := range cases {
		tree, expr := parseReturnExpr(t, c.src)
		changed := Optimize(tree)
		if !changed {
			t.Errorf("%q: want changed=true", c.src)
		}
		if tree.Nodes[expr].Kind != ast.NumLit || tree.Nodes[expr].IntVal != c.wantInt {
			t.Errorf("%q: got kind=%s int=%d, want NumLit(%d)", c.src, tree.Nodes[expr].Kind, tree.Nodes[expr].IntVal, c.wantInt)
		}
	}
}

func TestAddZeroWithLiteralBase(t *testing.T) {
	tree, expr := parseReturnExpr(t, "7 + 0")
	if !Optimize(tree) {
		t.Fatal("want changed=true")
	}
	if tree.Nodes[expr].Kind != ast.NumLit || tree.Nodes[expr].IntVal != 7 {
		t.Fatalf("got %+v, want NumLit(7)", tree.Nodes[expr])
	}
}

func TestMulZeroFoldsToZeroFloatWhenEitherOperandIsFloat(t *testing.T) {
	tree, expr := parseReturnExpr(t, "2.5 * 0")
	if !Optimize(tree) {
		t.Fatal("want changed=true")
	}
	n := tree.Nodes[expr]
	if n.Kind != ast.NumLit || n.LitKind != token.LitFloat || n.FloatVal != 0.0 {
		t.Fatalf("got %+v, want float NumLit(0.0)", n)
	}
}

func TestMulOneIdentity(t *testing.T) {
	tree, expr := parseReturnExpr(t, "1 * 9")
	if !Optimize(tree) {
		t.Fatal("want changed=true")
	}
	if tree.Nodes[expr].Kind != ast.NumLit || tree.Nodes[expr].IntVal != 9 {
		t.Fatalf("got %+v, want NumLit(9)", tree.Nodes[expr])
	}
}

func TestPowZeroExponentFoldsToOne(t *testing.T) {
	tree, expr := parseReturnExpr(t, "5 ^ 0")
	if !Optimize(tree) {
		t.Fatal("want changed=true")
	}
	if tree.Nodes[expr].Kind != ast.NumLit || tree.Nodes[expr].IntVal != 1 {
		t.Fatalf("got %+v, want NumLit(1)", tree.Nodes[expr])
	}
}

func TestPowOneExponentIdentity(t *testing.T) {
	tree, expr := parseReturnExpr(t, "3 ^ 1")
	if !Optimize(tree) {
		t.Fatal("want changed=true")
	}
	if tree.Nodes[expr].Kind != ast.NumLit || tree.Nodes[expr].IntVal != 3 {
		t.Fatalf("got %+v, want NumLit(3)", tree.Nodes[expr])
	}
}

func TestIntegerPowByExponentiationBySquaring(t *testing.T) {
	tree, expr := parseReturnExpr(t, "2 ^ 10")
	if !Optimize(tree) {
		t.Fatal("want changed=true")
	}
	n := tree.Nodes[expr]
	if n.Kind != ast.NumLit || n.IntVal != 1024 {
		t.Fatalf("got %+v, want NumLit(1024)", n)
	}
}

func TestNegativeExponentPromotesToFloat(t *testing.T) {
	tree, expr := parseReturnExpr(t, "2 ^ (0 - 1)")
	if !Optimize(tree) {
		t.Fatal("want changed=true")
	}
	n := tree.Nodes[expr]
	if n.Kind != ast.NumLit || n.FloatVal != 0.5 {
		t.Fatalf("got %+v, want float 0.5 (2^-1)", n)
	}
}

func TestDivisionByZeroIsLeftUnfolded(t *testing.T) {
	tree, expr := parseReturnExpr(t, "1 / 0")
	changed := Optimize(tree)
	if changed {
		t.Fatal("want changed=false: division by zero must be preserved, not folded")
	}
	if tree.Nodes[expr].Kind != ast.Binary {
		t.Fatalf("got %s, want Binary (unfolded)", tree.Nodes[expr].Kind)
	}
}

func TestComparisonFoldsToIntZeroOrOne(t *testing.T) {
	tree, expr := parseReturnExpr(t, "3 < 5")
	if !Optimize(tree) {
		t.Fatal("want changed=true")
	}
	if tree.Nodes[expr].Kind != ast.NumLit || tree.Nodes[expr].IntVal != 1 {
		t.Fatalf("got %+v, want NumLit(1)", tree.Nodes[expr])
	}
}

func TestConstantFoldingArithmetic(t *testing.T) {
	tree, expr := parseReturnExpr(t, "2 + 3 * 4")
	if !Optimize(tree) {
		t.Fatal("want changed=true")
	}
	if tree.Nodes[expr].Kind != ast.NumLit || tree.Nodes[expr].IntVal != 14 {
		t.Fatalf("got %+v, want NumLit(14)", tree.Nodes[expr])
	}
}

func TestOptimizerIdempotence(t *testing.T) {
	tree, expr := parseReturnExpr(t, "(2 + 3) * (1 * 4) ^ 1")
	Optimize(tree)
	snapshot := tree.Nodes[expr]
	changedAgain := Optimize(tree)
	if changedAgain {
		t.Fatal("second Optimize pass reported changed=true; want idempotent fixpoint")
	}
	if tree.Nodes[expr] != snapshot {
		t.Fatalf("node mutated on second pass: before=%+v after=%+v", snapshot, tree.Nodes[expr])
	}
}

func TestBuiltinUnaryFoldsOnLiteral(t *testing.T) {
	tree, expr := parseReturnExpr(t, "stan(1.7)")
	if !Optimize(tree) {
		t.Fatal("want changed=true")
	}
	n := tree.Nodes[expr]
	if n.Kind != ast.NumLit || n.FloatVal != 1.0 {
		t.Fatalf("got %+v, want float NumLit(1.0) (floor)", n)
	}
}
