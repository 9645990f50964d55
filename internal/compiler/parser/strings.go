package parser

import (
	"strings"

	kerr "github.com/kilnlang/kiln/internal/compiler/errors"
	"github.com/kilnlang/kiln/internal/compiler/token"
)

// parseStringValue accepts either shape the grammar allows wherever it
// expects a string: a brace-delimited multi-line block, or everything
// remaining on the current source line.
func (p *Parser) parseStringValue() (string, error) {
	if p.cur().Type == token.LBRACE {
		return p.parseMultiLineString()
	}
	return p.parseSingleLineString()
}

// parseSingleLineString glues together every token remaining on the
// current source line using a single space as padding between them,
// regardless of their original column gap. It stops at end of line, at
// an '@' (the start of the next clause), at an opening '{', or at a
// closing '}' (which always belongs to the enclosing block, never to a
// bare single-line string).
func (p *Parser) parseSingleLineString() (string, error) {
	if p.cur().Type == token.EOF {
		return "", &kerr.SyntaxError{Pos: p.cur().Pos, Message: "expected a value, found end of file"}
	}
	line := p.cur().Pos.Line
	var parts []string
	for {
		t := p.cur()
		if t.Type == token.EOF || t.Type == token.AT || t.Type == token.RBRACE || t.Type == token.LBRACE {
			break
		}
		if t.Pos.Line != line {
			break
		}
		parts = append(parts, t.Literal)
		p.advance()
	}
	if len(parts) == 0 {
		return "", &kerr.SyntaxError{Pos: p.cur().Pos, Message: "expected a value"}
	}
	return strings.Join(parts, " "), nil
}

// parseMultiLineString consumes a brace-delimited block. Inner tokens
// are reassembled with their original line breaks; nested "{...}" is
// balance-counted and included verbatim. A continuation line may not
// dedent past the column of the block's first token; additional
// indentation beyond that baseline is preserved as literal spaces.
func (p *Parser) parseMultiLineString() (string, error) {
	openTok, err := p.expect(token.LBRACE)
	if err != nil {
		return "", err
	}
	depth := 1
	var sb strings.Builder
	haveBaseline := false
	baseline := 0
	lastLine := 0

	for {
		t := p.cur()
		if t.Type == token.EOF {
			return "", &kerr.SyntaxError{Pos: openTok.Pos, Message: "unterminated multi-line string"}
		}
		if t.Type == token.LBRACE {
			depth++
		} else if t.Type == token.RBRACE {
			depth--
			if depth == 0 {
				p.advance()
				break
			}
		}
		if !haveBaseline {
			baseline = t.Pos.Column
			lastLine = t.Pos.Line
			haveBaseline = true
			sb.WriteString(t.Literal)
		} else if t.Pos.Line != lastLine {
			if t.Pos.Column < baseline {
				return "", &kerr.SyntaxError{
					Pos:     t.Pos,
					Message: "continuation line dedents past the string's first column",
				}
			}
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(" ", t.Pos.Column-baseline))
			sb.WriteString(t.Literal)
			lastLine = t.Pos.Line
		} else {
			sb.WriteByte(' ')
			sb.WriteString(t.Literal)
		}
		p.advance()
	}
	return sb.String(), nil
}

// parseIdentifierList accepts either shape the grammar allows for a
// list of identifiers: brace-delimited (one or more per line, only
// IDENT tokens allowed), or single-line (all on the current line).
func (p *Parser) parseIdentifierList() ([]token.Token, error) {
	if p.cur().Type == token.LBRACE {
		p.advance()
		var items []token.Token
		for p.cur().Type != token.RBRACE {
			if p.cur().Type == token.EOF {
				return nil, &kerr.SyntaxError{Pos: p.cur().Pos, Message: "unterminated identifier list"}
			}
			idTok, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			items = append(items, idTok)
		}
		p.advance()
		if len(items) == 0 {
			return nil, &kerr.SyntaxError{Pos: p.cur().Pos, Message: "expected at least one identifier"}
		}
		return items, nil
	}

	line := p.cur().Pos.Line
	var items []token.Token
	for p.cur().Type == token.IDENT && p.cur().Pos.Line == line {
		items = append(items, p.advance())
	}
	if len(items) == 0 {
		return nil, &kerr.SyntaxError{Pos: p.cur().Pos, Message: "expected at least one identifier"}
	}
	return items, nil
}
