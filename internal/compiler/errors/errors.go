// Package errors implements the four-member error taxonomy the
// compiler reports: Syntax, Duplicate, Undefined, and Circular. Every
// error carries source provenance and renders as
// "<file>:<line>:<col>: <Kind>: <message>" so editors can parse it.
package errors

import (
	"fmt"
	"strings"

	"github.com/kilnlang/kiln/internal/compiler/token"
)

// DomainError is implemented by all four taxonomy members. The driver
// uses it to tell an expected compilation failure (status 1) apart
// from an unexpected internal error (status 2).
type DomainError interface {
	error
	domainError()
}

// SyntaxError covers malformed tokens, missing keywords, unterminated
// multi-line strings, invalid types, and invalid identifiers.
type SyntaxError struct {
	Pos     token.Position
	Message string
}

func (e *SyntaxError) Error() string {
	return render(e.Pos, "Syntax", e.Message)
}
func (e *SyntaxError) domainError() {}

// DuplicateError is a repeated name at the same scope. It carries
// every offending location, in the order they were observed.
type DuplicateError struct {
	Name  string
	Kind  string // what kind of thing is duplicated, e.g. "declaration", "enum value"
	Locs  []token.Position
}

func (e *DuplicateError) Error() string {
	var pos token.Position
	if len(e.Locs) > 0 {
		pos = e.Locs[0]
	}
	msg := fmt.Sprintf("duplicate %s %q", e.Kind, e.Name)
	if len(e.Locs) > 1 {
		locs := make([]string, len(e.Locs)-1)
		for i, l := range e.Locs[1:] {
			locs[i] = l.String()
		}
		msg += fmt.Sprintf(" (also declared at %s)", strings.Join(locs, ", "))
	}
	return render(pos, "Duplicate", msg)
}
func (e *DuplicateError) domainError() {}

// UndefinedError is a reference to an unknown function, client, or
// type.
type UndefinedError struct {
	Pos     token.Position
	Message string
}

func (e *UndefinedError) Error() string {
	return render(e.Pos, "Undefined", e.Message)
}
func (e *UndefinedError) domainError() {}

// CircularError is raised when the dependency graph has a residual
// after the topological sort. Pos is the blamed first survivor's
// source location; Names lists every vertex still unresolved.
type CircularError struct {
	Pos     token.Position
	Names   []string
	Message string
}

func (e *CircularError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "circular dependency among: " + strings.Join(e.Names, ", ")
	}
	return render(e.Pos, "Circular", msg)
}
func (e *CircularError) domainError() {}

func render(pos token.Position, kind, message string) string {
	return fmt.Sprintf("%s: %s: %s", pos.String(), kind, message)
}

// FirstLine returns the first line of an error's rendered message, for
// callers that must fit it into a fixed-capacity error buffer.
func FirstLine(err error) string {
	s := err.Error()
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
