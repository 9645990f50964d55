// Package parser turns one file's token stream into a bag of
// top-level declarations. A file is a sequence of "@<keyword> ..."
// blocks terminated by EOF; the parser fails fast on the first
// malformed construct rather than collecting multiple errors, since
// the compiler as a whole aborts on the first error in any phase.
package parser

import (
	"fmt"

	"github.com/kilnlang/kiln/internal/compiler/ast"
	kerr "github.com/kilnlang/kiln/internal/compiler/errors"
	"github.com/kilnlang/kiln/internal/compiler/lexer"
	"github.com/kilnlang/kiln/internal/compiler/token"
)

// Parser is a cursor over one file's pre-tokenized stream.
type Parser struct {
	file string
	toks []token.Token
	pos  int
}

// New builds a Parser over the tokens of (file, content).
func New(file, content string) *Parser {
	return &Parser{file: file, toks: lexer.Tokenize(file, content)}
}

// ParseFile parses one file into a FileBag. It is the package's single
// entry point.
func ParseFile(file, content string) (*ast.FileBag, error) {
	return New(file, content).parseFile()
}

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(kind token.TokenType) (token.Token, error) {
	if p.cur().Type != kind {
		return token.Token{}, p.unexpected(kind)
	}
	return p.advance(), nil
}

func (p *Parser) expectIdent() (token.Token, error) {
	if p.cur().Type != token.IDENT {
		return token.Token{}, p.unexpected(token.IDENT)
	}
	return p.advance(), nil
}

func (p *Parser) unexpected(want token.TokenType) error {
	return &kerr.SyntaxError{
		Pos:     p.cur().Pos,
		Message: fmt.Sprintf("expected %s, got %s %q", want, p.cur().Type, p.cur().Literal),
	}
}

func (p *Parser) syntaxErrorf(pos token.Position, format string, args ...any) error {
	return &kerr.SyntaxError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) parseFile() (*ast.FileBag, error) {
	bag := &ast.FileBag{File: p.file}
	for p.cur().Type != token.EOF {
		if p.cur().Type != token.AT {
			return nil, p.syntaxErrorf(p.cur().Pos, "did you forget @? Got: %s", p.cur().Literal)
		}
		atTok := p.advance()
		switch p.cur().Type {
		case token.ENUM:
			e, err := p.parseEnum()
			if err != nil {
				return nil, err
			}
			bag.Enums = append(bag.Enums, e)
		case token.CLASS:
			c, err := p.parseClass()
			if err != nil {
				return nil, err
			}
			bag.Classes = append(bag.Classes, c)
		case token.FUNCTION:
			fn, err := p.parseFunction()
			if err != nil {
				return nil, err
			}
			bag.Functions = append(bag.Functions, fn)
		case token.CLIENT:
			c, err := p.parseClientDecl()
			if err != nil {
				return nil, err
			}
			bag.Clients = append(bag.Clients, c)
		case token.VARIANT:
			vs, err := p.parseVariantDecl()
			if err != nil {
				return nil, err
			}
			bag.Variants = append(bag.Variants, vs...)
		case token.TEST_GROUP:
			g, err := p.parseTestGroup()
			if err != nil {
				return nil, err
			}
			bag.TestGroups = append(bag.TestGroups, g)
		default:
			return nil, p.syntaxErrorf(atTok.Pos, "unrecognized declaration kind: %q", p.cur().Literal)
		}
	}
	return bag, nil
}

// validateIdentTok checks an identifier token's spelling against
// [A-Za-z][A-Za-z0-9_]*.
func validateIdentTok(tok token.Token) error {
	s := tok.Literal
	if s == "" {
		return &kerr.SyntaxError{Pos: tok.Pos, Message: "identifier must not be empty"}
	}
	c := s[0]
	if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
		return &kerr.SyntaxError{Pos: tok.Pos, Message: fmt.Sprintf("invalid identifier %q: must start with a letter", s)}
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_') {
			return &kerr.SyntaxError{Pos: tok.Pos, Message: fmt.Sprintf("invalid identifier %q", s)}
		}
	}
	return nil
}
