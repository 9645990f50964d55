package errors

import (
	"strings"
	"testing"

	"github.com/kilnlang/kiln/internal/compiler/token"
)

func TestSyntaxErrorRender(t *testing.T) {
	err := &SyntaxError{
		Pos:     token.Position{File: "f.kiln", Line: 3, Column: 5},
		Message: "did you forget @?",
	}
	want := "f.kiln:3:5: Syntax: did you forget @?"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestUndefinedErrorRender(t *testing.T) {
	err := &UndefinedError{
		Pos:     token.Position{File: "f.kiln", Line: 1, Column: 1},
		Message: `function "missing" not found`,
	}
	if !strings.Contains(err.Error(), "Undefined") {
		t.Errorf("got %q, want it to contain Undefined", err.Error())
	}
}

func TestCircularErrorRender(t *testing.T) {
	err := &CircularError{
		Pos:   token.Position{File: "f.kiln", Line: 9, Column: 1},
		Names: []string{"A", "B"},
	}
	got := err.Error()
	if !strings.Contains(got, "Circular") || !strings.Contains(got, "A") || !strings.Contains(got, "B") {
		t.Errorf("got %q, want it to mention Circular, A and B", got)
	}
}

func TestDuplicateErrorListsEveryLocation(t *testing.T) {
	err := &DuplicateError{
		Name: "Color",
		Kind: "declaration",
		Locs: []token.Position{
			{File: "a.kiln", Line: 1, Column: 1},
			{File: "b.kiln", Line: 4, Column: 1},
			{File: "b.kiln", Line: 9, Column: 1},
		},
	}
	got := err.Error()
	for _, want := range []string{"a.kiln:1:1", "b.kiln:4:1", "b.kiln:9:1", "Color"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, want it to contain %q", got, want)
		}
	}
}

func TestDuplicateErrorSingleLocation(t *testing.T) {
	err := &DuplicateError{
		Name: "Color",
		Kind: "declaration",
		Locs: []token.Position{{File: "a.kiln", Line: 1, Column: 1}},
	}
	if !strings.Contains(err.Error(), "a.kiln:1:1") {
		t.Errorf("got %q, want it to contain the sole location", err.Error())
	}
}

func TestAllTaxonomyMembersSatisfyDomainError(t *testing.T) {
	var errs []DomainError
	errs = append(errs, &SyntaxError{}, &DuplicateError{}, &UndefinedError{}, &CircularError{})
	for _, e := range errs {
		if e.Error() == "" {
			t.Errorf("%T produced empty Error()", e)
		}
	}
}

func TestFirstLine(t *testing.T) {
	err := &SyntaxError{
		Pos:     token.Position{File: "f.kiln", Line: 1, Column: 1},
		Message: "boom",
	}
	if got := FirstLine(err); got != err.Error() {
		t.Errorf("FirstLine() = %q, want %q", got, err.Error())
	}
}
