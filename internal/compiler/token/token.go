// Package token defines the lexical vocabulary of the kiln DSL: the
// closed set of token kinds the tokenizer produces and the source
// position every token carries for error reporting.
package token

import "fmt"

// TokenType identifies the lexical category of a Token.
type TokenType string

const (
	// Structural single-character tokens.
	LBRACE TokenType = "{"
	RBRACE TokenType = "}"
	COMMA  TokenType = ","
	COLON  TokenType = ":"
	AT     TokenType = "@"

	// Parametric keywords. Their spelling carries a bracketed payload
	// (e.g. "variant[llm]") preserved verbatim in Token.Literal so
	// downstream parsers can recover it.
	VARIANT  TokenType = "variant[...]"
	LANG     TokenType = "lang[...]"
	CLIENT   TokenType = "client[...]"
	FALLBACK TokenType = "fallback[...]"

	// Bare keywords, recognized only when the identifier is immediately
	// preceded by '@'.
	ENUM       TokenType = "enum"
	CLASS      TokenType = "class"
	FUNCTION   TokenType = "function"
	METHOD     TokenType = "method"
	PROMPT     TokenType = "prompt"
	INPUT      TokenType = "input"
	OUTPUT     TokenType = "output"
	DEPENDS_ON TokenType = "depends_on"
	TEST_GROUP TokenType = "test_group"
	CASE       TokenType = "case"
	PROVIDER   TokenType = "provider"
	RETRY      TokenType = "retry"
	RENAME     TokenType = "rename"
	DESCRIBE   TokenType = "describe"
	SKIP       TokenType = "skip"
	STRINGIFY  TokenType = "stringify"
	// CLIENT_LIST is the bare "@client a b" client-list introducer
	// inside an LLM variant body. It is distinct from CLIENT, the
	// bracketed "@client[llm] NAME { ... }" client declaration: same
	// English word, two different grammatical positions.
	CLIENT_LIST TokenType = "client"
	// FALLBACK also doubles as a bare keyword: "@fallback NAME" (the
	// default fallback) has no bracket payload, while
	// "@fallback[503] NAME" (a code-keyed fallback) does. Both are
	// FALLBACK; BracketPayload is empty for the bare form.

	// Catch-all and sentinel.
	IDENT TokenType = "IDENT"
	EOF   TokenType = "EOF"
)

// bareKeywords maps the exact spelling of a keyword candidate (an
// identifier immediately preceded by '@') to its TokenType. Parametric
// keywords are not in this table: LookupKeyword recognizes them by the
// prefix before '[', since their full spelling varies with the payload.
var bareKeywords = map[string]TokenType{
	"enum":       ENUM,
	"class":      CLASS,
	"function":   FUNCTION,
	"method":     METHOD,
	"prompt":     PROMPT,
	"input":      INPUT,
	"output":     OUTPUT,
	"depends_on": DEPENDS_ON,
	"test_group": TEST_GROUP,
	"case":       CASE,
	"provider":   PROVIDER,
	"retry":      RETRY,
	"rename":     RENAME,
	"describe":   DESCRIBE,
	"skip":       SKIP,
	"stringify":  STRINGIFY,
	"client":     CLIENT_LIST,
	"fallback":   FALLBACK,
}

// parametricPrefixes maps the prefix of a bracketed keyword (the part
// before '[') to its TokenType.
var parametricPrefixes = map[string]TokenType{
	"variant":  VARIANT,
	"lang":     LANG,
	"client":   CLIENT,
	"fallback": FALLBACK,
}

// LookupKeyword resolves the spelling of an identifier that immediately
// followed an '@' to its keyword TokenType. ok is false if spelling is
// not a recognized keyword, in which case the caller should treat it
// as a plain IDENT; an unrecognized keyword candidate is not itself a
// lexer error, it is reported (if at all) by the parser.
func LookupKeyword(spelling string) (TokenType, bool) {
	if kind, ok := bareKeywords[spelling]; ok {
		return kind, true
	}
	if prefix, _, ok := SplitBracket(spelling); ok {
		if kind, ok := parametricPrefixes[prefix]; ok {
			return kind, true
		}
	}
	return "", false
}

// SplitBracket splits "name[payload]" into ("name", "payload", true).
// ok is false if spelling does not have the shape prefix '[' ... ']'.
func SplitBracket(spelling string) (prefix, payload string, ok bool) {
	open := -1
	for i, r := range spelling {
		if r == '[' {
			open = i
			break
		}
	}
	if open < 0 || len(spelling) == 0 || spelling[len(spelling)-1] != ']' {
		return "", "", false
	}
	return spelling[:open], spelling[open+1 : len(spelling)-1], true
}

// BracketPayload returns the payload of a parametric token's raw
// literal, e.g. BracketPayload("variant[llm]") == "llm". Returns ""
// if value has no bracket payload.
func BracketPayload(value string) string {
	_, payload, ok := SplitBracket(value)
	if !ok {
		return ""
	}
	return payload
}

// Position is a 1-based source location within one named file.
type Position struct {
	File   string
	Line   int
	Column int
}

// String renders a position as "file:line:col", or "line:col" if File
// is empty.
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Token is one lexical unit with full source provenance.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// String is for debugging and test-failure messages only.
func (t Token) String() string {
	return fmt.Sprintf("%s %q @ %s", t.Type, t.Literal, t.Pos)
}
