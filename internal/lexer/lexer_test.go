package lexer

import (
	"testing"

	"github.com/matlire/BrainrotLang/internal/cerr"
	"github.com/matlire/BrainrotLang/internal/nametable"
	"github.com/matlire/BrainrotLang/internal/token"
)

func tokenize(t *testing.T, src string) ([]token.Token, *cerr.Buffer) {
	t.Helper()
	names := nametable.New()
	errs := cerr.NewBuffer([]byte(src))
	return Tokenize([]byte(src), names, errs), errs
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks, errs := tokenize(t, "npc x homie y sus z")
	if errs.HasError() {
		t.Fatalf("unexpected error: %s", errs.Format())
	}
	want := []token.Kind{token.KwNpc, token.Identifier, token.KwHomie, token.Identifier, token.KwSus, token.Identifier, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestIdentifierInterning(t *testing.T) {
	toks, errs := tokenize(t, "x x y")
	if errs.HasError() {
		t.Fatalf("unexpected error: %s", errs.Format())
	}
	if toks[0].NameID != toks[1].NameID {
		t.Errorf("repeated identifier got different ids: %d vs %d", toks[0].NameID, toks[1].NameID)
	}
	if toks[0].NameID == toks[2].NameID {
		t.Errorf("distinct identifiers got the same id: %d", toks[0].NameID)
	}
}

func TestTwoCharOperators(t *testing.T) {
	toks, errs := tokenize(t, "&& || == != <= >=")
	if errs.HasError() {
		t.Fatalf("unexpected error: %s", errs.Format())
	}
	want := []token.Kind{token.OpAnd, token.OpOr, token.OpEq, token.OpNeq, token.OpLte, token.OpGte, token.EOF}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNumericLiterals(t *testing.T) {
	toks, errs := tokenize(t, "42 3.14")
	if errs.HasError() {
		t.Fatalf("unexpected error: %s", errs.Format())
	}
	if toks[0].LitKind != token.LitInt || toks[0].IntVal != 42 {
		t.Errorf("got %+v, want int 42", toks[0])
	}
	if toks[1].LitKind != token.LitFloat || toks[1].FloatVal != 3.14 {
		t.Errorf("got %+v, want float 3.14", toks[1])
	}
}

func TestInvalidNumericLiteral(t *testing.T) {
	_, errs := tokenize(t, "12x")
	if !errs.HasError() {
		t.Fatal("want a lexical error for \"12x\"")
	}
	if errs.Err().Kind != cerr.Syntax {
		t.Errorf("got kind %s, want Syntax", errs.Err().Kind)
	}
}

func TestStringLiteralEscapes(t *testing.T) {
	toks, errs := tokenize(t, `"hi\n\t"`)
	if errs.HasError() {
		t.Fatalf("unexpected error: %s", errs.Format())
	}
	if toks[0].Kind != token.StringLiteral {
		t.Fatalf("got %s, want StringLiteral", toks[0].Kind)
	}
	if toks[0].Text != `hi\n\t` {
		t.Errorf("got %q, want raw escapes preserved", toks[0].Text)
	}
}

func TestUnterminatedString(t *testing.T) {
	_, errs := tokenize(t, `"never closes`)
	if !errs.HasError() {
		t.Fatal("want an error for an unterminated string literal")
	}
}

func TestInvalidEscape(t *testing.T) {
	_, errs := tokenize(t, `"bad \q escape"`)
	if !errs.HasError() {
		t.Fatal("want an error for an invalid escape sequence")
	}
}

func TestLineComment(t *testing.T) {
	toks, errs := tokenize(t, "npc x; // trailing comment\nhomie y;")
	if errs.HasError() {
		t.Fatalf("unexpected error: %s", errs.Format())
	}
	want := []token.Kind{token.KwNpc, token.Identifier, token.Semicolon, token.KwHomie, token.Identifier, token.Semicolon, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
}

func TestInvalidCharacter(t *testing.T) {
	_, errs := tokenize(t, "npc x = @;")
	if !errs.HasError() {
		t.Fatal("want an error for an invalid character")
	}
}

func TestPositionTracking(t *testing.T) {
	toks, errs := tokenize(t, "npc\nhomie")
	if errs.HasError() {
		t.Fatalf("unexpected error: %s", errs.Format())
	}
	if toks[0].Pos.Line != 1 || toks[0].Pos.Column != 1 {
		t.Errorf("got %s, want 1:1", toks[0].Pos)
	}
	if toks[1].Pos.Line != 2 || toks[1].Pos.Column != 1 {
		t.Errorf("got %s, want 2:1", toks[1].Pos)
	}
}
