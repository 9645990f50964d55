// Package emitter specifies the contract between the core's emission
// driver and the out-of-scope code emitter: a per-target-language
// template expander that the core only ever calls once per
// dependency-ordered declaration, passing that declaration's
// transitive dependency set.
//
// This package does not implement a target-language emitter — that
// remains an external collaborator, per the specification. It does
// provide FileSet, a minimal reference implementation of the
// buffering/atomic-swap half of the contract (the "directory
// writer"), since every concrete Emitter needs one and the shape is
// identical regardless of target language.
package emitter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Import is one deduplicated import an emitted file requires.
// Uniqueness is by (ModulePath, Symbol, ReExport): the core guarantees
// call order, the File implementation guarantees uniqueness.
type Import struct {
	ModulePath string
	Symbol     string
	ReExport   bool
}

// File is a single buffered output file: a byte sink, a
// template-variable map, and a deduplicated import registry.
type File interface {
	// Write appends to the file's buffered content.
	Write(p []byte) (n int, err error)
	// SetVar records a template variable available to this file's
	// template expansion.
	SetVar(name, value string)
	// AddImport registers an import, deduplicated by
	// (modulePath, symbol, reExport).
	AddImport(modulePath, symbol string, reExport bool)
}

// Emitter is implemented by the per-target-language code generator.
// Emit is called once per vertex in the dependency resolver's
// emission order, with that vertex's transitive dependency names.
type Emitter interface {
	// File returns (creating if necessary) the buffered file at path.
	File(path string) File
	// Emit renders one declaration. decl is the AST node stored on a
	// depgraph.Vertex (*ast.Enum, *ast.Class, *ast.LLMClient,
	// *ast.Function, *ast.Variant, or *ast.TestGroup); deps is its
	// transitive dependency name set.
	Emit(decl any, deps []string) error
	// Flush writes every buffered file under a staging directory
	// sibling to rootPath, then atomically renames the staging
	// directory over rootPath, removing any prior contents.
	Flush(rootPath string) error
}

// memFile is FileSet's File implementation: an in-memory byte buffer
// plus its template vars and import registry.
type memFile struct {
	buf     []byte
	vars    map[string]string
	imports map[Import]struct{}
	order   []Import
}

func newMemFile() *memFile {
	return &memFile{vars: map[string]string{}, imports: map[Import]struct{}{}}
}

func (f *memFile) Write(p []byte) (int, error) {
	f.buf = append(f.buf, p...)
	return len(p), nil
}

func (f *memFile) SetVar(name, value string) { f.vars[name] = value }

func (f *memFile) AddImport(modulePath, symbol string, reExport bool) {
	imp := Import{ModulePath: modulePath, Symbol: symbol, ReExport: reExport}
	if _, ok := f.imports[imp]; ok {
		return
	}
	f.imports[imp] = struct{}{}
	f.order = append(f.order, imp)
}

// Imports returns this file's registered imports in registration
// order.
func (f *memFile) Imports() []Import { return append([]Import(nil), f.order...) }

// FileSet is a minimal reference implementation of the buffering and
// atomic-swap contract every Emitter needs: it holds one memFile per
// registered path and, on Flush, stages every buffer to disk before
// swapping the whole directory into place. A concrete per-language
// Emitter embeds a FileSet for this half of its job and supplies its
// own Emit logic for the other half (template expansion).
type FileSet struct {
	files map[string]*memFile
	order []string
}

// NewFileSet returns an empty, ready-to-use FileSet.
func NewFileSet() *FileSet {
	return &FileSet{files: map[string]*memFile{}}
}

// File returns the buffered file at path, creating it on first
// reference. Re-entrant across compiler invocations only if the
// caller discards the old FileSet and calls NewFileSet again: a
// FileSet carries no process-global state.
func (fs *FileSet) File(path string) File {
	if f, ok := fs.files[path]; ok {
		return f
	}
	f := newMemFile()
	fs.files[path] = f
	fs.order = append(fs.order, path)
	return f
}

// Paths returns every registered file path in first-reference order.
func (fs *FileSet) Paths() []string {
	return append([]string(nil), fs.order...)
}

// Flush stages every buffered file under a sibling ".kiln-staging-*"
// directory, then atomically renames it over rootPath. Any prior
// contents of rootPath are removed.
func (fs *FileSet) Flush(rootPath string) error {
	parent := filepath.Dir(rootPath)
	staging, err := os.MkdirTemp(parent, ".kiln-staging-*")
	if err != nil {
		return fmt.Errorf("emitter: creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	paths := append([]string(nil), fs.order...)
	sort.Strings(paths)
	for _, p := range paths {
		full := filepath.Join(staging, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return fmt.Errorf("emitter: creating %s: %w", filepath.Dir(full), err)
		}
		if err := os.WriteFile(full, fs.files[p].buf, 0o644); err != nil {
			return fmt.Errorf("emitter: writing %s: %w", p, err)
		}
	}

	if err := os.RemoveAll(rootPath); err != nil {
		return fmt.Errorf("emitter: clearing %s: %w", rootPath, err)
	}
	if err := os.Rename(staging, rootPath); err != nil {
		return fmt.Errorf("emitter: swapping staging directory into place: %w", err)
	}
	return nil
}
