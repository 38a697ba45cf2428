package codegen

import (
	"strings"
	"testing"

	"github.com/matlire/BrainrotLang/internal/ast"
	"github.com/matlire/BrainrotLang/internal/cerr"
	"github.com/matlire/BrainrotLang/internal/lexer"
	"github.com/matlire/BrainrotLang/internal/optimizer"
	"github.com/matlire/BrainrotLang/internal/parser"
)

func generate(t *testing.T, src string) string {
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
	optimizer.Optimize(tree)

	var sb strings.Builder
	genErrs := cerr.NewBuffer([]byte(src))
	if err := Generate(tree, &sb, genErrs); err != nil {
		t.Fatalf("Generate: %v (%s)", err, genErrs.Format())
	}
	return sb.String()
}

func TestEntryPointCallsMain(t *testing.T) {
	out := generate(t, "npc main() yap micdrop 0; yapity")
	if !strings.Contains(out, "CALL :fn_main") || !strings.Contains(out, "HLT") {
		t.Fatalf("missing entry stub:\n%s", out)
	}
	if !strings.Contains(out, ":fn_main") {
		t.Fatalf("missing main label:\n%s", out)
	}
}

func TestMissingMainIsError(t *testing.T) {
	tree := ast.NewTree()
	src := "npc add(npc a, npc b) yap micdrop a + b; yapity"
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

	var sb strings.Builder
	genErrs := cerr.NewBuffer([]byte(src))
	if err := Generate(tree, &sb, genErrs); err == nil {
		t.Fatal("want an error for a program with no 'main'")
	}
	if !genErrs.HasError() {
		t.Fatal("want genErrs populated alongside the returned error")
	}
}

func TestFunctionPrologueReservesWholeFrame(t *testing.T) {
	out := generate(t, `npc main() yap
	npc a gaslight 1;
	npc b gaslight 2;
	micdrop a + b;
yapity`)
	// frame = 1 (saved BP) + 0 params + 2 locals, reserved via SP <- SP+3
	if !strings.Contains(out, "PUSH 3\nADD\nPOPR x14") {
		t.Fatalf("want the prologue to grow SP by 3, got:\n%s", out)
	}
	if strings.Contains(out, "ENTER") || strings.Contains(out, "LEAVE") {
		t.Fatalf("ENTER/LEAVE are not real opcodes:\n%s", out)
	}
}

func TestParametersOccupyLowFrameOffsets(t *testing.T) {
	out := generate(t, "npc add(npc a, npc b) yap micdrop a + b; yapity\nnpc main() yap micdrop add(1, 2); yapity")
	// params are read via BP+offset computed into x13, not a bracket operand
	if !strings.Contains(out, "PUSHR x15\nPOPR x13\nPUSHR x13\nPUSH 1\nADD\nPOPR x13\nPUSHM x13") {
		t.Fatalf("want param 'a' (offset 1) read through x13:\n%s", out)
	}
	if !strings.Contains(out, "PUSHR x15\nPOPR x13\nPUSHR x13\nPUSH 2\nADD\nPOPR x13\nPUSHM x13") {
		t.Fatalf("want param 'b' (offset 2) read through x13:\n%s", out)
	}
	if strings.Contains(out, "[BP+") {
		t.Fatalf("PUSHM/POPM take a register operand, not a bracket expression:\n%s", out)
	}
}

func TestCallArgumentsAreMarshaledToStackPointerOffsets(t *testing.T) {
	out := generate(t, "npc add(npc a, npc b) yap micdrop a + b; yapity\nnpc main() yap micdrop add(1, 2); yapity")
	if !strings.Contains(out, "PUSHR x14\nPOPR x13\nPUSHR x13\nPUSH 1\nADD\nPOPR x13\nPOPM x13") {
		t.Fatalf("want arg 1 stored at RAM[SP+1] via x13:\n%s", out)
	}
	if !strings.Contains(out, "PUSHR x14\nPOPR x13\nPUSHR x13\nPUSH 2\nADD\nPOPR x13\nPOPM x13") {
		t.Fatalf("want arg 2 stored at RAM[SP+2] via x13:\n%s", out)
	}
}

func TestDivisionByZeroInFloatContextUsesFloatDivide(t *testing.T) {
	// Scenario S3: both operands are Int literals, but the enclosing
	// return wants Float, so each is promoted before FDIV runs instead
	// of an integer DIV executing first.
	out := generate(t, "homie main() yap micdrop 1 / 0; yapity")
	want := "PUSH 1\nITOF\nPUSH 0\nITOF\nFDIV"
	if !strings.Contains(out, want) {
		t.Fatalf("want %q, got:\n%s", want, out)
	}
	if strings.Contains(out, "PUSH 1\nPUSH 0\nDIV") {
		t.Fatalf("must not execute an integer divide:\n%s", out)
	}
}

func TestUnaryMinusStashesOperandAroundZero(t *testing.T) {
	out := generate(t, "npc main() yap npc a gaslight 1; micdrop -a; yapity")
	if !strings.Contains(out, "POPR x13\nPUSH 0\nPUSHR x13\nSUB") {
		t.Fatalf("want the stash/push-zero/restore/SUB sequence for unary minus:\n%s", out)
	}
	if strings.Contains(out, "NEG") {
		t.Fatalf("NEG is not a real opcode:\n%s", out)
	}
}

func TestLogicalNotSynthesizesEqualToZero(t *testing.T) {
	out := generate(t, "npc main() yap npc a gaslight 0; micdrop !a; yapity")
	if !strings.Contains(out, "CMP") || !strings.Contains(out, "JE") {
		t.Fatalf("want '!' synthesized via CMP + JE, got:\n%s", out)
	}
	if strings.Contains(out, "NOT") {
		t.Fatalf("NOT is not a real opcode:\n%s", out)
	}
}

func TestCallSitePromotesIntArgToFloatParam(t *testing.T) {
	out := generate(t, "homie id(homie x) yap micdrop x; yapity\nnpc main() yap micdrop bozo(id(3)); yapity")
	if !strings.Contains(out, "ITOF") {
		t.Fatalf("want an ITOF promoting the int literal argument:\n%s", out)
	}
}

func TestWhileLoopEmitsConditionAndExitLabels(t *testing.T) {
	out := generate(t, `npc main() yap
	npc i gaslight 0;
	lowkey (i < 3)
		i gaslight i + 1;
	micdrop i;
yapity`)
	if !strings.Contains(out, "L_while_cond") || !strings.Contains(out, "L_while_end") {
		t.Fatalf("want while condition/end labels:\n%s", out)
	}
}

func TestBreakJumpsToLoopEndLabel(t *testing.T) {
	out := generate(t, `npc main() yap
	lowkey (1)
		gg;
	micdrop 0;
yapity`)
	if !strings.Contains(out, "JMP :L_while_end") {
		t.Fatalf("want break to jump to the while-end label:\n%s", out)
	}
}

func TestIfChainEmitsBranchAndElseLabels(t *testing.T) {
	out := generate(t, `npc main() yap
	alpha (1) yap based(1); yapity omega (0) yap based(2); yapity sigma yap based(3); yapity
	micdrop 0;
yapity`)
	if strings.Count(out, "L_if_else") < 2 {
		t.Fatalf("want an else label per chained branch:\n%s", out)
	}
}

func TestComparisonSynthesizesBooleanViaCmpAndJump(t *testing.T) {
	// Operands must be non-literal, or the optimizer constant-folds the
	// whole comparison away before codegen ever sees a BINARY node.
	out := generate(t, "npc main() yap npc a gaslight 1; npc b gaslight 2; micdrop a < b; yapity")
	if !strings.Contains(out, "CMP") || !strings.Contains(out, "JB") {
		t.Fatalf("want CMP + JB trampoline for '<':\n%s", out)
	}
}

func TestSetPixelComputesRowMajorAddress(t *testing.T) {
	out := generate(t, "npc main() yap bruh set_pixel(3, 4, 7); micdrop 0; yapity")
	if !strings.Contains(out, "PUSH 128") || !strings.Contains(out, "POPVM") {
		t.Fatalf("want the row stride and a POPVM write:\n%s", out)
	}
}

func TestVoidCallStatementDiscardsNoValue(t *testing.T) {
	out := generate(t, "npc main() yap bruh draw(); micdrop 0; yapity")
	if strings.Contains(out, "DRAW\nPOP") {
		t.Fatalf("a void call must not be followed by POP:\n%s", out)
	}
	if !strings.Contains(out, "DRAW") {
		t.Fatalf("want a DRAW opcode:\n%s", out)
	}
}

func TestNonVoidCallStatementIsDiscarded(t *testing.T) {
	out := generate(t, "npc main() yap bruh in(); micdrop 0; yapity")
	if !strings.Contains(out, "IN\nPOP") {
		t.Fatalf("want the unused call result popped:\n%s", out)
	}
}

func TestReturnValuePlacedInX0OrFx0(t *testing.T) {
	out := generate(t, "npc main() yap micdrop 1; yapity")
	if !strings.Contains(out, "POPR x0") {
		t.Fatalf("want an int return placed in x0:\n%s", out)
	}

	outF := generate(t, "homie main() yap micdrop 1.0; yapity")
	if !strings.Contains(outF, "POPR fx0") {
		t.Fatalf("want a float return placed in fx0:\n%s", outF)
	}
}
