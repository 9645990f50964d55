package parser

import (
	"github.com/kilnlang/kiln/internal/compiler/ast"
	kerr "github.com/kilnlang/kiln/internal/compiler/errors"
	"github.com/kilnlang/kiln/internal/compiler/token"
)

// parseVariantDecl parses "@variant[KIND] NAME for FUNC_NAME { ... }"
// and dispatches on KIND. An LLM variant declared against N clients
// fans out into N returned Variants named "<name>_<client>" (or keeps
// the original name when N == 1); a code variant always returns one.
func (p *Parser) parseVariantDecl() ([]*ast.Variant, error) {
	kindTok := p.advance() // VARIANT
	payload := token.BracketPayload(kindTok.Literal)

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

	switch payload {
	case "llm":
		return p.parseLLMVariantBody(kindTok, nameTok, funcNameTok)
	case "code":
		return p.parseCodeVariantBody(kindTok, nameTok, funcNameTok)
	default:
		return nil, p.syntaxErrorf(kindTok.Pos, "unknown variant kind: %q", payload)
	}
}

func (p *Parser) parseLLMVariantBody(kindTok, nameTok, funcNameTok token.Token) ([]*ast.Variant, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.AT); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CLIENT_LIST); err != nil {
		return nil, err
	}
	clientToks, err := p.parseIdentifierList()
	if err != nil {
		return nil, err
	}

	var prompt string
	var promptPos token.Position
	havePrompt := false
	var overrides []ast.StringifyOverride
	var methods []ast.Method

	for p.cur().Type != token.RBRACE {
		if p.cur().Type == token.EOF {
			return nil, &kerr.SyntaxError{Pos: kindTok.Pos, Message: "unterminated llm variant " + nameTok.Literal}
		}
		if _, err := p.expect(token.AT); err != nil {
			return nil, err
		}
		switch p.cur().Type {
		case token.PROMPT:
			promptTok := p.advance()
			val, err := p.parseStringValue()
			if err != nil {
				return nil, err
			}
			if havePrompt {
				return nil, &kerr.SyntaxError{Pos: promptTok.Pos, Message: "duplicate @prompt"}
			}
			prompt, promptPos, havePrompt = val, promptTok.Pos, true
		case token.STRINGIFY:
			so, err := p.parseStringifyOverride()
			if err != nil {
				return nil, err
			}
			overrides = append(overrides, *so)
		case token.METHOD:
			m, err := p.parseMethod()
			if err != nil {
				return nil, err
			}
			methods = append(methods, *m)
		default:
			return nil, p.syntaxErrorf(p.cur().Pos, "unexpected @%s inside llm variant %s", p.cur().Type, nameTok.Literal)
		}
	}
	p.advance() // RBRACE

	if !havePrompt {
		return nil, &kerr.SyntaxError{Pos: kindTok.Pos, Message: "llm variant " + nameTok.Literal + " requires @prompt"}
	}
	if len(clientToks) == 0 {
		// parseIdentifierList already rejects an empty client list, but
		// a future relaxation of that surface check should not silently
		// resurrect an unreachable empty fan-out.
		return nil, &kerr.SyntaxError{Pos: kindTok.Pos, Message: "llm variant " + nameTok.Literal + " requires at least one client"}
	}

	variants := make([]*ast.Variant, 0, len(clientToks))
	for _, ct := range clientToks {
		name := nameTok.Literal
		if len(clientToks) > 1 {
			name = nameTok.Literal + "_" + ct.Literal
		}
		variants = append(variants, &ast.Variant{
			Kind:               ast.VariantLLM,
			Tok:                kindTok,
			Name:               name,
			NamePos:            nameTok.Pos,
			FunctionName:       funcNameTok.Literal,
			FunctionNamePos:    funcNameTok.Pos,
			ClientName:         ct.Literal,
			ClientNamePos:      ct.Pos,
			Prompt:             prompt,
			PromptPos:          promptPos,
			StringifyOverrides: overrides,
			Methods:            methods,
		})
	}
	return variants, nil
}

func (p *Parser) parseCodeVariantBody(kindTok, nameTok, funcNameTok token.Token) ([]*ast.Variant, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	var dependsOn []string
	var dependsOnPos []token.Position
	haveDependsOn := false
	var methods []ast.Method

	for p.cur().Type != token.RBRACE {
		if p.cur().Type == token.EOF {
			return nil, &kerr.SyntaxError{Pos: kindTok.Pos, Message: "unterminated code variant " + nameTok.Literal}
		}
		if _, err := p.expect(token.AT); err != nil {
			return nil, err
		}
		switch p.cur().Type {
		case token.DEPENDS_ON:
			depTok := p.advance()
			if haveDependsOn {
				return nil, &kerr.SyntaxError{Pos: depTok.Pos, Message: "at most one @depends_on statement is allowed"}
			}
			idToks, err := p.parseIdentifierList()
			if err != nil {
				return nil, err
			}
			haveDependsOn = true
			for _, it := range idToks {
				dependsOn = append(dependsOn, it.Literal)
				dependsOnPos = append(dependsOnPos, it.Pos)
			}
		case token.METHOD:
			m, err := p.parseMethod()
			if err != nil {
				return nil, err
			}
			methods = append(methods, *m)
		default:
			return nil, p.syntaxErrorf(p.cur().Pos, "unexpected @%s inside code variant %s", p.cur().Type, nameTok.Literal)
		}
	}
	p.advance() // RBRACE

	return []*ast.Variant{{
		Kind:            ast.VariantCode,
		Tok:             kindTok,
		Name:            nameTok.Literal,
		NamePos:         nameTok.Pos,
		FunctionName:    funcNameTok.Literal,
		FunctionNamePos: funcNameTok.Pos,
		DependsOn:       dependsOn,
		DependsOnPos:    dependsOnPos,
		Methods:         methods,
	}}, nil
}

// parseStringifyOverride parses "@stringify NAME { property* }" where
// each property is "NAME (@rename STRING | @describe STRING | @skip)*".
func (p *Parser) parseStringifyOverride() (*ast.StringifyOverride, error) {
	tok, err := p.expect(token.STRINGIFY)
	if err != nil {
		return nil, err
	}
	typeNameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	so := &ast.StringifyOverride{Tok: tok, TypeName: typeNameTok.Literal, TypeNamePos: typeNameTok.Pos}
	for p.cur().Type != token.RBRACE {
		if p.cur().Type == token.EOF {
			return nil, &kerr.SyntaxError{Pos: tok.Pos, Message: "unterminated @stringify " + typeNameTok.Literal}
		}
		propNameTok, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		prop := ast.StringifyProperty{Name: propNameTok.Literal, NamePos: propNameTok.Pos}
		for p.cur().Type == token.AT {
			p.advance()
			switch p.cur().Type {
			case token.RENAME:
				p.advance()
				val, err := p.parseStringValue()
				if err != nil {
					return nil, err
				}
				prop.HasRename, prop.Rename = true, val
			case token.DESCRIBE:
				p.advance()
				val, err := p.parseStringValue()
				if err != nil {
					return nil, err
				}
				prop.HasDescribe, prop.Describe = true, val
			case token.SKIP:
				p.advance()
				prop.Skip = true
			default:
				return nil, p.syntaxErrorf(p.cur().Pos, "unexpected @%s inside stringify property %s", p.cur().Type, prop.Name)
			}
		}
		so.Properties = append(so.Properties, prop)
	}
	p.advance() // RBRACE
	return so, nil
}
