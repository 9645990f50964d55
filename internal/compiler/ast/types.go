package ast

import (
	"fmt"
	"strings"

	"github.com/kilnlang/kiln/internal/compiler/token"
)

// TypeKind is the tag of the Type sum type.
type TypeKind int

const (
	TPrimitive TypeKind = iota
	TRef
	TOptional
	TList
	TUnion
)

// Primitive enumerates the six built-in scalar spellings.
type Primitive int

const (
	PInt Primitive = iota
	PFloat
	PBool
	PChar
	PString
	PNull
)

var primitiveSpelling = map[string]Primitive{
	"int":    PInt,
	"float":  PFloat,
	"bool":   PBool,
	"char":   PChar,
	"string": PString,
	"null":   PNull,
}

var primitiveName = [...]string{"int", "float", "bool", "char", "string", "null"}

func (p Primitive) String() string { return primitiveName[p] }

// Type is the small recursive sum the micro-parser produces:
// Primitive | Ref(name) | Optional(Type) | List(Type) | Union(Type...).
//
// RefTarget is nil until the validator's link pass resolves it to the
// Class or Enum the name refers to.
type Type struct {
	Kind      TypeKind
	Pos       token.Position
	Primitive Primitive
	RefName   string
	RefTarget TypeDecl
	Elem      *Type
	Options   []*Type
}

// IsCustomType reports whether this node (or, for Optional/List, its
// element) is ultimately a named reference rather than a primitive.
func (t *Type) IsCustomType() bool {
	switch t.Kind {
	case TRef:
		return true
	case TOptional, TList:
		return t.Elem.IsCustomType()
	default:
		return false
	}
}

// ParseType parses the raw spelling of a single type token by scanning
// right to left: Optional (trailing '?') binds loosest to rightmost,
// then List (trailing "[]"), then Union (infix '|'), then a bare
// Primitive or Ref identifier. pos is the type token's own source
// position, recorded on every node produced from it.
func ParseType(raw string, pos token.Position) (*Type, error) {
	t, err := parseTypeSpan(raw, pos)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func parseTypeSpan(s string, pos token.Position) (*Type, error) {
	if s == "" {
		return nil, fmt.Errorf("invalid type: empty")
	}
	if strings.HasSuffix(s, "?") {
		inner, err := parseTypeSpan(s[:len(s)-1], pos)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: TOptional, Pos: pos, Elem: inner}, nil
	}
	if strings.HasSuffix(s, "[]") {
		inner, err := parseTypeSpan(s[:len(s)-2], pos)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: TList, Pos: pos, Elem: inner}, nil
	}
	if idx := strings.IndexByte(s, '|'); idx >= 0 {
		parts := strings.Split(s, "|")
		opts := make([]*Type, 0, len(parts))
		for _, p := range parts {
			sub, err := parseTypeSpan(p, pos)
			if err != nil {
				return nil, err
			}
			opts = append(opts, sub)
		}
		return &Type{Kind: TUnion, Pos: pos, Options: opts}, nil
	}
	return parseBaseType(s, pos)
}

func parseBaseType(s string, pos token.Position) (*Type, error) {
	if s == "" {
		return nil, fmt.Errorf("invalid type: empty")
	}
	for _, r := range s {
		if !isIdentChar(r) {
			return nil, fmt.Errorf("invalid type: %q", s)
		}
	}
	if p, ok := primitiveSpelling[s]; ok {
		return &Type{Kind: TPrimitive, Pos: pos, Primitive: p}, nil
	}
	return &Type{Kind: TRef, Pos: pos, RefName: s}, nil
}

func isIdentChar(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// PrintType renders a Type back to its surface spelling. ParseType is
// a left inverse of it on the closed type grammar:
// ParseType(PrintType(t)) == t for every t ParseType produces.
func PrintType(t *Type) string {
	switch t.Kind {
	case TPrimitive:
		return t.Primitive.String()
	case TRef:
		return t.RefName
	case TOptional:
		return PrintType(t.Elem) + "?"
	case TList:
		return PrintType(t.Elem) + "[]"
	case TUnion:
		parts := make([]string, len(t.Options))
		for i, o := range t.Options {
			parts[i] = PrintType(o)
		}
		return strings.Join(parts, "|")
	default:
		panic("ast: unreachable type kind")
	}
}
