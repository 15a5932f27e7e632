package parser

import "testing"

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer([]byte(src), 0)
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("lex error on %q: %v", src, err)
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func typesOf(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestLexerBasicTokens(t *testing.T) {
	toks := lexAll(t, `let x 1`)
	got := typesOf(toks)
	want := []TokenType{LET, NAME, INT, EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexerNewlineCollapsesAndSuppressesInsideBrackets(t *testing.T) {
	toks := lexAll(t, "1\n\n\n2")
	got := typesOf(toks)
	want := []TokenType{INT, NEWLINE, INT, EOF}
	if len(got) != len(want) {
		t.Fatalf("consecutive blank lines should collapse to one NEWLINE: got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}

	toks = lexAll(t, "(1\n2)")
	for _, tok := range toks {
		if tok.Type == NEWLINE {
			t.Errorf("newline should be suppressed inside parens, got tokens %v", typesOf(toks))
			break
		}
	}
}

func TestLexerIndexVsArrayArgSpacing(t *testing.T) {
	toks := lexAll(t, "a[0]")
	if toks[1].Type != LBRACKET || toks[1].HasLeadingSpace {
		t.Errorf("a[0]: expected a tight LBRACKET, got %+v", toks[1])
	}
	toks = lexAll(t, "a [0]")
	if toks[1].Type != LBRACKET || !toks[1].HasLeadingSpace {
		t.Errorf("a [0]: expected a space-preceded LBRACKET, got %+v", toks[1])
	}
}

func TestLexerStringInterpolationNesting(t *testing.T) {
	toks := lexAll(t, `"a{"b{1}c"}d"`)
	want := []TokenType{
		STRING_INTERP_START, // "a{
		STRING_INTERP_START, // "b{
		INT,                 // 1
		STRING_INTERP_END,   // c"}
		STRING_INTERP_END,   // d"
		EOF,
	}
	got := typesOf(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexerRejectsBareEquals(t *testing.T) {
	l := NewLexer([]byte("a = b"), 0)
	l.Next() // a
	_, err := l.Next()
	if err == nil {
		t.Error("expected an error lexing a bare '='")
	}
}
