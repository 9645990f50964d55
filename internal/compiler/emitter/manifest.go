package emitter

import (
	"fmt"

	"github.com/kilnlang/kiln/internal/compiler/ast"
)

// Manifest is a minimal, built-in Emitter used when the CLI has no
// target-language emitter configured. It does not generate runnable
// target code — that remains the job of the out-of-scope
// per-language emitter — it only records, one line per vertex, what
// the emission driver would have handed a real emitter: the
// declaration's kind, name, and transitive dependency set. This lets
// "kiln compile" produce a concrete, inspectable artifact even before
// any target-language backend exists.
type Manifest struct {
	*FileSet
	path string
}

// NewManifest returns a Manifest Emitter that writes its single
// output file at path (relative to the Flush root).
func NewManifest(path string) *Manifest {
	return &Manifest{FileSet: NewFileSet(), path: path}
}

// Emit appends one manifest line for decl.
func (m *Manifest) Emit(decl any, deps []string) error {
	name, kind := describe(decl)
	f := m.File(m.path)
	_, err := fmt.Fprintf(f, "%s\t%s\tdeps=%v\n", kind, name, deps)
	return err
}

func describe(decl any) (name, kind string) {
	switch d := decl.(type) {
	case *ast.Enum:
		return d.Name, "enum"
	case *ast.Class:
		return d.Name, "class"
	case *ast.LLMClient:
		return d.Name, "client"
	case *ast.Function:
		return d.Name, "function"
	case *ast.Variant:
		return d.UniqueName(), "variant"
	case *ast.TestGroup:
		return d.UniqueName(), "test_group"
	default:
		return fmt.Sprintf("%v", d), "unknown"
	}
}
