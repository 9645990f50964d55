// Package lexer implements the kiln tokenizer: a line-oriented,
// single-pass scanner that turns (file, content) into a flat token
// sequence terminated by a single EOF token.
package lexer

import (
	"strconv"
	"strings"

	"github.com/kilnlang/kiln/internal/compiler/token"
)

const structural = "{},:@"

// Tokenize is a pure function of (file, content): the same inputs
// always produce the same token sequence. It never looks across lines
// except to track the 1-based line counter, and it never fails on its
// own — malformed input surfaces later as Identifier tokens a
// subsequent phase rejects.
func Tokenize(file, content string) []token.Token {
	lines := splitLines(content)

	var out []token.Token
	atSymbol := false

	flush := func(lit string, startCol, line int) {
		if lit == "" {
			return
		}
		pos := token.Position{File: file, Line: line, Column: startCol}
		if atSymbol {
			if kind, ok := token.LookupKeyword(lit); ok {
				out = append(out, token.Token{Type: kind, Literal: lit, Pos: pos})
				atSymbol = false
				return
			}
		}
		atSymbol = false
		out = append(out, token.Token{Type: token.IDENT, Literal: lit, Pos: pos})
	}

	for li, line := range lines {
		lineNo := li + 1
		var buf strings.Builder
		bufStart := 1
		col := 1
		runes := []rune(line)
		for i := 0; i < len(runes); i++ {
			ch := runes[i]
			switch {
			case ch == ' ' || ch == '\t' || ch == '\r':
				flush(buf.String(), bufStart, lineNo)
				buf.Reset()
			case strings.ContainsRune(structural, ch):
				flush(buf.String(), bufStart, lineNo)
				buf.Reset()
				kind := structuralKind(ch)
				out = append(out, token.Token{
					Type:    kind,
					Literal: string(ch),
					Pos:     token.Position{File: file, Line: lineNo, Column: col},
				})
				if ch == '@' {
					atSymbol = true
				}
			default:
				if buf.Len() == 0 {
					bufStart = col
				}
				buf.WriteRune(ch)
			}
			col++
		}
		flush(buf.String(), bufStart, lineNo)
	}

	eofLine := len(lines) + 1
	out = append(out, token.Token{
		Type: token.EOF,
		Pos:  token.Position{File: file, Line: eofLine, Column: 1},
	})
	return out
}

func structuralKind(ch rune) token.TokenType {
	switch ch {
	case '{':
		return token.LBRACE
	case '}':
		return token.RBRACE
	case ',':
		return token.COMMA
	case ':':
		return token.COLON
	case '@':
		return token.AT
	default:
		panic("lexer: unreachable structural char " + string(ch))
	}
}

// splitLines splits content into its content lines, honoring both
// "\n" and "\r\n" endings and dropping a single trailing empty line
// produced by a final newline (so "a\n" and "a" both yield one line).
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Lexer is a cursor over a pre-tokenized stream, giving the parser the
// familiar NextToken/PeekToken shape without re-deriving the
// line-oriented scan on every lookahead.
type Lexer struct {
	tokens []token.Token
	pos    int
}

// New tokenizes (file, content) and returns a cursor positioned before
// the first token.
func New(file, content string) *Lexer {
	return &Lexer{tokens: Tokenize(file, content)}
}

// NextToken returns the next token and advances the cursor. Once the
// stream is exhausted it returns the trailing EOF token repeatedly.
func (l *Lexer) NextToken() token.Token {
	tok := l.current()
	if l.pos < len(l.tokens)-1 {
		l.pos++
	}
	return tok
}

// PeekToken returns the token after the current cursor position
// without advancing, or the trailing EOF token if none remains.
func (l *Lexer) PeekToken() token.Token {
	if l.pos+1 < len(l.tokens) {
		return l.tokens[l.pos+1]
	}
	return l.tokens[len(l.tokens)-1]
}

func (l *Lexer) current() token.Token {
	if len(l.tokens) == 0 {
		return token.Token{Type: token.EOF, Pos: token.Position{Line: 1, Column: 1}}
	}
	return l.tokens[l.pos]
}

// ParseIntLiteral parses a token literal expected to be a base-10
// integer, for callers (the @retry operand) that need the numeric
// value rather than the raw spelling.
func ParseIntLiteral(lit string) (int, error) {
	return strconv.Atoi(lit)
}
