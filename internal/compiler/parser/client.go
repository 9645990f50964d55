package parser

import (
	"fmt"

	"github.com/kilnlang/kiln/internal/compiler/ast"
	kerr "github.com/kilnlang/kiln/internal/compiler/errors"
	"github.com/kilnlang/kiln/internal/compiler/lexer"
	"github.com/kilnlang/kiln/internal/compiler/token"
)

// parseClientDecl parses
//
//	@client[llm] NAME { @provider STRING (KV | @retry INT | @fallback STRING | @fallback[INT] STRING)* }
func (p *Parser) parseClientDecl() (*ast.LLMClient, error) {
	kindTok := p.advance() // CLIENT, literal "client[llm]"
	if payload := token.BracketPayload(kindTok.Literal); payload != "llm" {
		return nil, p.syntaxErrorf(kindTok.Pos, "unknown client kind: %q", payload)
	}

	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := validateIdentTok(nameTok); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	c := &ast.LLMClient{
		Tok:             kindTok,
		Name:            nameTok.Literal,
		NamePos:         nameTok.Pos,
		Args:            map[string]string{},
		FallbackByCode:  map[int]string{},
		FallbackCodePos: map[int]token.Position{},
	}

	if _, err := p.expect(token.AT); err != nil {
		return nil, err
	}
	provTok, err := p.expect(token.PROVIDER)
	if err != nil {
		return nil, err
	}
	val, err := p.parseStringValue()
	if err != nil {
		return nil, err
	}
	c.Provider, c.ProviderPos = val, provTok.Pos

	for p.cur().Type != token.RBRACE {
		switch p.cur().Type {
		case token.EOF:
			return nil, &kerr.SyntaxError{Pos: kindTok.Pos, Message: "unterminated client " + c.Name}
		case token.IDENT:
			if err := p.parseClientArg(c); err != nil {
				return nil, err
			}
		case token.AT:
			p.advance()
			if err := p.parseClientAtField(c); err != nil {
				return nil, err
			}
		default:
			return nil, p.syntaxErrorf(p.cur().Pos, "unexpected token inside client %s", c.Name)
		}
	}
	p.advance() // RBRACE
	return c, nil
}

func (p *Parser) parseClientArg(c *ast.LLMClient) error {
	keyTok, err := p.expectIdent()
	if err != nil {
		return err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return err
	}
	val, err := p.parseStringValue()
	if err != nil {
		return err
	}
	if _, exists := c.Args[keyTok.Literal]; !exists {
		c.ArgNames = append(c.ArgNames, keyTok.Literal)
	}
	c.Args[keyTok.Literal] = val
	return nil
}

func (p *Parser) parseClientAtField(c *ast.LLMClient) error {
	switch p.cur().Type {
	case token.RETRY:
		retryTok := p.advance()
		numTok, err := p.expectIdent()
		if err != nil {
			return err
		}
		n, convErr := lexer.ParseIntLiteral(numTok.Literal)
		if convErr != nil {
			return &kerr.SyntaxError{Pos: numTok.Pos, Message: fmt.Sprintf("invalid retry count: %q", numTok.Literal)}
		}
		c.HasRetries, c.NumRetries, c.RetryPos = true, n, retryTok.Pos
		return nil
	case token.FALLBACK:
		fbTok := p.advance()
		val, err := p.parseStringValue()
		if err != nil {
			return err
		}
		payload := token.BracketPayload(fbTok.Literal)
		if payload == "" {
			if c.HasDefaultFallback {
				return &kerr.SyntaxError{Pos: fbTok.Pos, Message: "duplicate default fallback"}
			}
			c.HasDefaultFallback, c.DefaultFallback, c.DefaultFallbackPos = true, val, fbTok.Pos
			return nil
		}
		code, convErr := lexer.ParseIntLiteral(payload)
		if convErr != nil {
			return &kerr.SyntaxError{Pos: fbTok.Pos, Message: fmt.Sprintf("invalid fallback code: %q", payload)}
		}
		if _, exists := c.FallbackByCode[code]; exists {
			return &kerr.SyntaxError{Pos: fbTok.Pos, Message: fmt.Sprintf("duplicate fallback code %d", code)}
		}
		c.FallbackCodes = append(c.FallbackCodes, code)
		c.FallbackByCode[code] = val
		c.FallbackCodePos[code] = fbTok.Pos
		return nil
	default:
		return p.syntaxErrorf(p.cur().Pos, "unexpected @%s inside client %s", p.cur().Type, c.Name)
	}
}
