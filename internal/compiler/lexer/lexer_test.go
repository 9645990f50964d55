package lexer

import (
	"testing"

	"github.com/kilnlang/kiln/internal/compiler/token"
)

func TestTokenizeStructural(t *testing.T) {
	toks := Tokenize("f.kiln", "{},:@")
	want := []token.TokenType{token.LBRACE, token.RBRACE, token.COMMA, token.COLON, token.AT, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Type != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, k)
		}
	}
}

func TestTokenizeKeywordRequiresAt(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want token.TokenType
	}{
		{"at enum is keyword", "@enum", token.ENUM},
		{"bare enum is identifier", "enum", token.IDENT},
		{"at class is keyword", "@class", token.CLASS},
		{"parametric variant", "@variant[llm]", token.VARIANT},
		{"parametric fallback", "@fallback[503]", token.FALLBACK},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks := Tokenize("f.kiln", c.src)
			var last token.Token
			for _, tok := range toks {
				if tok.Type != token.EOF && tok.Type != token.AT {
					last = tok
				}
			}
			if last.Type != c.want {
				t.Fatalf("got %s, want %s", last.Type, c.want)
			}
		})
	}
}

func TestTokenizeBracketPayloadPreserved(t *testing.T) {
	toks := Tokenize("f.kiln", "@variant[llm]")
	found := false
	for _, tok := range toks {
		if tok.Type == token.VARIANT {
			found = true
			if tok.Literal != "variant[llm]" {
				t.Errorf("literal = %q, want %q", tok.Literal, "variant[llm]")
			}
			if token.BracketPayload(tok.Literal) != "llm" {
				t.Errorf("payload = %q, want %q", token.BracketPayload(tok.Literal), "llm")
			}
		}
	}
	if !found {
		t.Fatal("variant[...] token not produced")
	}
}

func TestTokenizePositions(t *testing.T) {
	src := "@enum Color\n{ RED BLUE }"
	toks := Tokenize("f.kiln", src)

	want := []struct {
		kind token.TokenType
		line int
		col  int
	}{
		{token.AT, 1, 1},
		{token.ENUM, 1, 2},
		{token.IDENT, 1, 7},
		{token.LBRACE, 2, 1},
		{token.IDENT, 2, 3},
		{token.IDENT, 2, 7},
		{token.RBRACE, 2, 12},
		{token.EOF, 3, 1},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w.kind || toks[i].Pos.Line != w.line || toks[i].Pos.Column != w.col {
			t.Errorf("token %d: got %s@%d:%d, want %s@%d:%d",
				i, toks[i].Type, toks[i].Pos.Line, toks[i].Pos.Column, w.kind, w.line, w.col)
		}
	}
}

func TestTokenizeEmptyFile(t *testing.T) {
	toks := Tokenize("f.kiln", "")
	if len(toks) != 1 || toks[0].Type != token.EOF {
		t.Fatalf("got %v, want single EOF token", toks)
	}
	if toks[0].Pos.Line != 1 || toks[0].Pos.Column != 1 {
		t.Errorf("EOF position = %d:%d, want 1:1", toks[0].Pos.Line, toks[0].Pos.Column)
	}
}

func TestTokenizeEofFollowsLastLine(t *testing.T) {
	toks := Tokenize("f.kiln", "@enum A { X }\n")
	last := toks[len(toks)-1]
	if last.Type != token.EOF || last.Pos.Line != 2 || last.Pos.Column != 1 {
		t.Errorf("got %v, want EOF@2:1", last)
	}
}

func TestTokenizeIsPureFunction(t *testing.T) {
	src := "@class Foo {\n  name: string\n  @method bar { @lang[py] { pass } }\n}"
	a := Tokenize("f.kiln", src)
	b := Tokenize("f.kiln", src)
	if len(a) != len(b) {
		t.Fatalf("non-deterministic token count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("token %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestLexerCursorNextAndPeek(t *testing.T) {
	l := New("f.kiln", "@enum A { X }")
	if l.PeekToken().Type != token.ENUM {
		t.Fatalf("peek before any Next = %s, want second token %s", l.PeekToken().Type, token.ENUM)
	}
	first := l.NextToken()
	if first.Type != token.AT {
		t.Fatalf("first NextToken = %s, want %s", first.Type, token.AT)
	}
	second := l.NextToken()
	if second.Type != token.ENUM {
		t.Fatalf("second NextToken = %s, want %s", second.Type, token.ENUM)
	}
}

func TestLexerCursorStaysAtEof(t *testing.T) {
	l := New("f.kiln", "")
	first := l.NextToken()
	second := l.NextToken()
	if first.Type != token.EOF || second.Type != token.EOF {
		t.Fatalf("expected repeated EOF, got %s then %s", first.Type, second.Type)
	}
}

func TestParseIntLiteral(t *testing.T) {
	n, err := ParseIntLiteral("3")
	if err != nil || n != 3 {
		t.Fatalf("got (%d, %v), want (3, nil)", n, err)
	}
	if _, err := ParseIntLiteral("abc"); err == nil {
		t.Fatal("expected error for non-integer literal")
	}
}
