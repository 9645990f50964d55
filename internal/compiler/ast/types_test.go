package ast

import (
	"testing"

	"github.com/kilnlang/kiln/internal/compiler/token"
)

func token0() token.Position {
	return token.Position{File: "f.kiln", Line: 1, Column: 1}
}

func TestParseTypePrimitive(t *testing.T) {
	cases := map[string]Primitive{
		"int": PInt, "float": PFloat, "bool": PBool,
		"char": PChar, "string": PString, "null": PNull,
	}
	for raw, want := range cases {
		typ := mustParseTypeRaw(t, raw)
		if typ.Kind != TPrimitive || typ.Primitive != want {
			t.Errorf("ParseType(%q) = %+v, want primitive %s", raw, typ, want)
		}
	}
}

func mustParseTypeRaw(t *testing.T, raw string) *Type {
	t.Helper()
	typ, err := ParseType(raw, token0())
	if err != nil {
		t.Fatalf("ParseType(%q) error: %v", raw, err)
	}
	return typ
}

func TestParseTypeRef(t *testing.T) {
	typ := mustParseTypeRaw(t, "Color")
	if typ.Kind != TRef || typ.RefName != "Color" {
		t.Errorf("got %+v, want Ref(Color)", typ)
	}
}

func TestParseTypeOptionalListUnion(t *testing.T) {
	typ := mustParseTypeRaw(t, "int|string[]?")
	if typ.Kind != TOptional {
		t.Fatalf("outer kind = %v, want TOptional", typ.Kind)
	}
	list := typ.Elem
	if list.Kind != TList {
		t.Fatalf("second level = %v, want TList", list.Kind)
	}
	union := list.Elem
	if union.Kind != TUnion || len(union.Options) != 2 {
		t.Fatalf("third level = %+v, want Union of 2", union)
	}
	if union.Options[0].Kind != TPrimitive || union.Options[0].Primitive != PInt {
		t.Errorf("union[0] = %+v, want int", union.Options[0])
	}
	if union.Options[1].Kind != TPrimitive || union.Options[1].Primitive != PString {
		t.Errorf("union[1] = %+v, want string", union.Options[1])
	}
}

func TestTypeRoundTrip(t *testing.T) {
	cases := []string{
		"int", "string", "Color",
		"int?", "int[]", "int[]?", "int?[]",
		"int|string", "int|string|Color",
		"int|string[]?",
	}
	for _, raw := range cases {
		typ := mustParseTypeRaw(t, raw)
		printed := PrintType(typ)
		if printed != raw {
			t.Errorf("PrintType(ParseType(%q)) = %q, want %q", raw, printed, raw)
		}
		reparsed := mustParseTypeRaw(t, printed)
		if !typesEqual(typ, reparsed) {
			t.Errorf("parse(print(parse(%q))) != parse(%q)", raw, raw)
		}
	}
}

func TestParseTypeInvalid(t *testing.T) {
	for _, raw := range []string{"", "int|", "int$", "[]int"} {
		if _, err := ParseType(raw, token0()); err == nil {
			t.Errorf("ParseType(%q) expected error, got none", raw)
		}
	}
}

func typesEqual(a, b *Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TPrimitive:
		return a.Primitive == b.Primitive
	case TRef:
		return a.RefName == b.RefName
	case TOptional, TList:
		return typesEqual(a.Elem, b.Elem)
	case TUnion:
		if len(a.Options) != len(b.Options) {
			return false
		}
		for i := range a.Options {
			if !typesEqual(a.Options[i], b.Options[i]) {
				return false
			}
		}
		return true
	}
	return false
}
