package parser

import (
	"github.com/kilnlang/kiln/internal/compiler/ast"
	kerr "github.com/kilnlang/kiln/internal/compiler/errors"
	"github.com/kilnlang/kiln/internal/compiler/token"
)

// parseEnum parses "@enum NAME { id id ... }". Duplicate values within
// one enum are a Duplicate error.
func (p *Parser) parseEnum() (*ast.Enum, error) {
	tok := p.advance() // ENUM
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

	e := &ast.Enum{Tok: tok, Name: nameTok.Literal, NamePos: nameTok.Pos}
	locs := map[string][]token.Position{}
	var order []string
	for p.cur().Type != token.RBRACE {
		if p.cur().Type == token.EOF {
			return nil, &kerr.SyntaxError{Pos: tok.Pos, Message: "unterminated enum " + e.Name}
		}
		vTok, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := validateIdentTok(vTok); err != nil {
			return nil, err
		}
		if _, seen := locs[vTok.Literal]; !seen {
			order = append(order, vTok.Literal)
		}
		locs[vTok.Literal] = append(locs[vTok.Literal], vTok.Pos)
		e.Values = append(e.Values, ast.EnumValue{Name: vTok.Literal, Pos: vTok.Pos})
	}
	p.advance() // RBRACE

	for _, name := range order {
		if ls := locs[name]; len(ls) > 1 {
			return nil, &kerr.DuplicateError{Name: name, Kind: "enum value", Locs: ls}
		}
	}
	return e, nil
}

// parseClass parses "@class NAME { (prop | @method ...)* }" where a
// property is "NAME TYPESTRING".
func (p *Parser) parseClass() (*ast.Class, error) {
	tok := p.advance() // CLASS
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

	c := &ast.Class{Tok: tok, Name: nameTok.Literal, NamePos: nameTok.Pos}
	for p.cur().Type != token.RBRACE {
		switch p.cur().Type {
		case token.EOF:
			return nil, &kerr.SyntaxError{Pos: tok.Pos, Message: "unterminated class " + c.Name}
		case token.AT:
			p.advance()
			if p.cur().Type != token.METHOD {
				return nil, p.unexpected(token.METHOD)
			}
			m, err := p.parseMethod()
			if err != nil {
				return nil, err
			}
			c.Methods = append(c.Methods, *m)
		case token.IDENT:
			propTok, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if err := validateIdentTok(propTok); err != nil {
				return nil, err
			}
			typeTok, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			typ, err := ast.ParseType(typeTok.Literal, typeTok.Pos)
			if err != nil {
				return nil, &kerr.SyntaxError{Pos: typeTok.Pos, Message: err.Error()}
			}
			c.Properties = append(c.Properties, ast.Property{Name: propTok.Literal, NamePos: propTok.Pos, Type: typ})
		default:
			return nil, p.syntaxErrorf(p.cur().Pos, "expected a property or @method inside class %s", c.Name)
		}
	}
	p.advance() // RBRACE
	return c, nil
}

// parseMethod parses "@method NAME { (@lang[...] STRING)* }". It
// requires METHOD to be the current token. Duplicate languages and the
// at-least-one-language rule are validator concerns, not parse-time
// ones, so both kinds of bodies parse successfully here.
func (p *Parser) parseMethod() (*ast.Method, error) {
	tok, err := p.expect(token.METHOD)
	if err != nil {
		return nil, err
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

	m := &ast.Method{Tok: tok, Name: nameTok.Literal, NamePos: nameTok.Pos}
	for p.cur().Type != token.RBRACE {
		if p.cur().Type == token.EOF {
			return nil, &kerr.SyntaxError{Pos: tok.Pos, Message: "unterminated method " + m.Name}
		}
		if _, err := p.expect(token.AT); err != nil {
			return nil, err
		}
		langTok, err := p.expect(token.LANG)
		if err != nil {
			return nil, err
		}
		lang := token.BracketPayload(langTok.Literal)
		code, err := p.parseStringValue()
		if err != nil {
			return nil, err
		}
		m.Langs = append(m.Langs, ast.LangBody{Lang: lang, LangPos: langTok.Pos, Code: code})
	}
	p.advance() // RBRACE
	return m, nil
}

// parseFunction parses "@function NAME { @input TYPESTRING @output TYPESTRING }".
func (p *Parser) parseFunction() (*ast.Function, error) {
	tok := p.advance() // FUNCTION
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

	fn := &ast.Function{Tok: tok, Name: nameTok.Literal, NamePos: nameTok.Pos}

	if _, err := p.expect(token.AT); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.INPUT); err != nil {
		return nil, err
	}
	inTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	fn.Input, err = ast.ParseType(inTok.Literal, inTok.Pos)
	if err != nil {
		return nil, &kerr.SyntaxError{Pos: inTok.Pos, Message: err.Error()}
	}

	if _, err := p.expect(token.AT); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.OUTPUT); err != nil {
		return nil, err
	}
	outTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	fn.Output, err = ast.ParseType(outTok.Literal, outTok.Pos)
	if err != nil {
		return nil, &kerr.SyntaxError{Pos: outTok.Pos, Message: err.Error()}
	}

	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return fn, nil
}
