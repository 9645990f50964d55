package parser

import (
	"fmt"

	"github.com/kilnlang/kiln/internal/compiler/ast"
	kerr "github.com/kilnlang/kiln/internal/compiler/errors"
	"github.com/kilnlang/kiln/internal/compiler/token"
)

// parseTestGroup parses
//
//	@test_group NAME for FUNC_NAME { (@case [NAME] {@input STRING (@method ...)*} | @input STRING | @method ...)* }
//
// A bare @input at group level synthesizes an anonymous case. Default
// names ("case_<i>") are assigned here since they only depend on
// position within this group; duplicate-name detection across a
// group's cases is a validator concern.
func (p *Parser) parseTestGroup() (*ast.TestGroup, error) {
	tok := p.advance() // TEST_GROUP
	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := validateIdentTok(nameTok); err != nil {
		return nil, err
	}

	forTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if forTok.Literal != "for" {
		return nil, p.syntaxErrorf(forTok.Pos, `expected literal "for", got %q`, forTok.Literal)
	}

	funcNameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	g := &ast.TestGroup{
		Tok:             tok,
		Name:            nameTok.Literal,
		NamePos:         nameTok.Pos,
		FunctionName:    funcNameTok.Literal,
		FunctionNamePos: funcNameTok.Pos,
	}

	for p.cur().Type != token.RBRACE {
		if p.cur().Type == token.EOF {
			return nil, &kerr.SyntaxError{Pos: tok.Pos, Message: "unterminated test_group " + g.Name}
		}
		if _, err := p.expect(token.AT); err != nil {
			return nil, err
		}
		switch p.cur().Type {
		case token.CASE:
			c, err := p.parseTestCase(len(g.Cases) + 1)
			if err != nil {
				return nil, err
			}
			g.Cases = append(g.Cases, c)
		case token.INPUT:
			inpTok := p.advance()
			val, err := p.parseStringValue()
			if err != nil {
				return nil, err
			}
			g.Cases = append(g.Cases, &ast.TestCase{
				Name:         fmt.Sprintf("case_%d", len(g.Cases)+1),
				NamePos:      inpTok.Pos,
				NameExplicit: false,
				LiteralInput: val,
				InputPos:     inpTok.Pos,
			})
		case token.METHOD:
			m, err := p.parseMethod()
			if err != nil {
				return nil, err
			}
			g.Methods = append(g.Methods, *m)
		default:
			return nil, p.syntaxErrorf(p.cur().Pos, "unexpected @%s inside test_group %s", p.cur().Type, g.Name)
		}
	}
	p.advance() // RBRACE
	return g, nil
}

// parseTestCase parses "@case [NAME] { @input STRING (@method ...)* }".
// idx is this case's 1-based position within its group, used for the
// default "case_<idx>" name when NAME is omitted.
func (p *Parser) parseTestCase(idx int) (*ast.TestCase, error) {
	tok, err := p.expect(token.CASE)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("case_%d", idx)
	namePos := tok.Pos
	explicit := false
	if p.cur().Type == token.IDENT {
		nTok, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := validateIdentTok(nTok); err != nil {
			return nil, err
		}
		name, namePos, explicit = nTok.Literal, nTok.Pos, true
	}

	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	tc := &ast.TestCase{Name: name, NamePos: namePos, NameExplicit: explicit}
	haveInput := false
	for p.cur().Type != token.RBRACE {
		if p.cur().Type == token.EOF {
			return nil, &kerr.SyntaxError{Pos: tok.Pos, Message: "unterminated case " + name}
		}
		if _, err := p.expect(token.AT); err != nil {
			return nil, err
		}
		switch p.cur().Type {
		case token.INPUT:
			inpTok := p.advance()
			if haveInput {
				return nil, &kerr.SyntaxError{Pos: inpTok.Pos, Message: "duplicate @input in case " + name}
			}
			val, err := p.parseStringValue()
			if err != nil {
				return nil, err
			}
			tc.LiteralInput, tc.InputPos, haveInput = val, inpTok.Pos, true
		case token.METHOD:
			m, err := p.parseMethod()
			if err != nil {
				return nil, err
			}
			tc.Methods = append(tc.Methods, *m)
		default:
			return nil, p.syntaxErrorf(p.cur().Pos, "unexpected @%s inside case %s", p.cur().Type, name)
		}
	}
	p.advance() // RBRACE

	if !haveInput {
		return nil, &kerr.SyntaxError{Pos: tok.Pos, Message: "case " + name + " requires @input"}
	}
	return tc, nil
}
