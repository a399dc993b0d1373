package lexer_test

import (
	"testing"

	"github.com/lsysgo/lsys/internal/lexer"
	"github.com/lsysgo/lsys/internal/token"
)

func tokenTypes(input string) []token.Type {
	l := lexer.New(input)
	var out []token.Type
	for {
		tok := l.NextToken()
		out = append(out, tok.Type)
		if tok.Type == token.EOF {
			return out
		}
	}
}

func TestSimpleProductionLine(t *testing.T) {
	got := tokenTypes("F -> F+F-F\n")
	want := []token.Type{
		token.IDENT, token.ARROW, token.IDENT, token.PLUS, token.IDENT,
		token.MINUS, token.IDENT, token.NEWLINE, token.EOF,
	}
	assertTypes(t, got, want)
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{".5", ".5"},
		{"1e10", "1e10"},
		{"1.5e-3", "1.5e-3"},
	}
	for _, c := range cases {
		l := lexer.New(c.input)
		tok := l.NextToken()
		if tok.Type != token.NUMBER {
			t.Errorf("%q: Type = %v; want NUMBER", c.input, tok.Type)
			continue
		}
		if tok.Lexeme != c.want {
			t.Errorf("%q: Lexeme = %q; want %q", c.input, tok.Lexeme, c.want)
		}
	}
}

func TestNumberFollowedByIdentNotExponent(t *testing.T) {
	// "2e" with no following digit: "e" must not be consumed as an
	// exponent marker, it's an adjacent identifier instead.
	got := tokenTypes("2e")
	want := []token.Type{token.NUMBER, token.IDENT, token.EOF}
	assertTypes(t, got, want)
}

func TestTwoCharOperators(t *testing.T) {
	cases := map[string]token.Type{
		"->": token.ARROW,
		"==": token.EQ,
		"!=": token.NE,
		"<=": token.LE,
		">=": token.GE,
		"&&": token.LAND,
		"||": token.LOR,
	}
	for input, want := range cases {
		l := lexer.New(input)
		tok := l.NextToken()
		if tok.Type != want {
			t.Errorf("%q: Type = %v; want %v", input, tok.Type, want)
		}
	}
}

func TestSingleCharOperatorsNotGreedy(t *testing.T) {
	got := tokenTypes("< >")
	want := []token.Type{token.LT, token.GT, token.EOF}
	assertTypes(t, got, want)
}

func TestDirectives(t *testing.T) {
	got := tokenTypes("#define maxgen 5\n#ignore +-\n")
	want := []token.Type{
		token.HASH_DEFINE, token.IDENT, token.NUMBER, token.NEWLINE,
		token.HASH_IGNORE, token.PLUS, token.MINUS, token.NEWLINE,
		token.EOF,
	}
	assertTypes(t, got, want)
}

func TestCommentsSkipped(t *testing.T) {
	got := tokenTypes("F ; a trailing comment\nG // another style\n")
	want := []token.Type{
		token.IDENT, token.NEWLINE,
		token.IDENT, token.NEWLINE,
		token.EOF,
	}
	assertTypes(t, got, want)
}

func TestBracketsAndBraces(t *testing.T) {
	got := tokenTypes("[{}]")
	want := []token.Type{token.LBRACKET, token.LBRACE, token.RBRACE, token.RBRACKET, token.EOF}
	assertTypes(t, got, want)
}

func TestActionModuleTokens(t *testing.T) {
	// "@md" lexes as AT IDENT, the parser glues them together.
	got := tokenTypes("@md(1)")
	want := []token.Type{token.AT, token.IDENT, token.LPAREN, token.NUMBER, token.RPAREN, token.EOF}
	assertTypes(t, got, want)
}

func TestLineColumnTracking(t *testing.T) {
	l := lexer.New("F\nG")
	first := l.NextToken() // F
	if first.Line != 1 {
		t.Fatalf("first token line = %d; want 1", first.Line)
	}
	l.NextToken() // NEWLINE
	third := l.NextToken() // G
	if third.Line != 2 {
		t.Fatalf("third token line = %d; want 2", third.Line)
	}
}

func assertTypes(t *testing.T, got, want []token.Type) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count = %d; want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v; want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}
