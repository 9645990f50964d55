// Package depgraph builds the name-keyed dependency graph over a
// validated Unit's declarations, topologically sorts it with a
// stable secondary tie-break, and computes each vertex's transitive
// dependency closure for the emission driver.
package depgraph

import (
	"sort"

	"github.com/kilnlang/kiln/internal/compiler/ast"
	kerr "github.com/kilnlang/kiln/internal/compiler/errors"
	"github.com/kilnlang/kiln/internal/compiler/token"
)

// Kind is a vertex's declaration category. The iota order matches the
// spec's secondary sort key exactly: Enum < Class < LLMClient <
// Function < Variant < TestGroup.
type Kind int

const (
	KindEnum Kind = iota
	KindClass
	KindLLMClient
	KindFunction
	KindVariant
	KindTestGroup
)

// maxWaves bounds the topological sort's work-list loop against
// pathological input; a well-formed graph with N vertices never needs
// more than N waves, so 1000 comfortably covers any realistic unit.
const maxWaves = 1000

// Vertex is one node of the dependency graph: a declaration together
// with its computed emission depth and transitive dependency set.
type Vertex struct {
	Name  string // graph key: the declaration's UniqueName
	Kind  Kind
	Pos   token.Position
	Decl  any // *ast.Enum, *ast.Class, *ast.LLMClient, *ast.Function, *ast.Variant, or *ast.TestGroup
	Depth int

	direct map[string]struct{}
	// Deps is the vertex's transitive dependency closure, computed
	// after topological ordering. Sorted for deterministic iteration.
	Deps []string
}

// Resolve builds the dependency graph for a validated Unit and
// returns its vertices in emission order: topologically sorted, with
// ties broken by (depth, kind, source line). Each returned vertex's
// Deps field holds its full transitive dependency closure.
func Resolve(u *ast.Unit) ([]*Vertex, error) {
	verts := buildVertices(u)
	byName := make(map[string]*Vertex, len(verts))
	for _, v := range verts {
		byName[v.Name] = v
	}

	if err := topoSort(verts, byName); err != nil {
		return nil, err
	}

	sort.SliceStable(verts, func(i, j int) bool {
		a, b := verts[i], verts[j]
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Pos.Line < b.Pos.Line
	})

	closeTransitive(verts, byName)

	return verts, nil
}

func buildVertices(u *ast.Unit) []*Vertex {
	var verts []*Vertex

	for _, e := range u.Enums {
		verts = append(verts, &Vertex{Name: e.Name, Kind: KindEnum, Pos: e.NamePos, Decl: e, direct: map[string]struct{}{}})
	}
	for _, c := range u.Classes {
		v := &Vertex{Name: c.Name, Kind: KindClass, Pos: c.NamePos, Decl: c, direct: map[string]struct{}{}}
		for _, p := range c.Properties {
			addRefs(v.direct, p.Type)
		}
		verts = append(verts, v)
	}
	for _, c := range u.Clients {
		v := &Vertex{Name: c.Name, Kind: KindLLMClient, Pos: c.NamePos, Decl: c, direct: map[string]struct{}{}}
		if c.HasDefaultFallback {
			v.direct[c.DefaultFallback] = struct{}{}
		}
		for _, code := range c.FallbackCodes {
			v.direct[c.FallbackByCode[code]] = struct{}{}
		}
		verts = append(verts, v)
	}
	for _, fn := range u.Functions {
		v := &Vertex{Name: fn.Name, Kind: KindFunction, Pos: fn.NamePos, Decl: fn, direct: map[string]struct{}{}}
		addRefs(v.direct, fn.Input)
		addRefs(v.direct, fn.Output)
		verts = append(verts, v)

		funcDeps := v.direct
		for _, variant := range fn.Variants {
			vv := &Vertex{Name: variant.UniqueName(), Kind: KindVariant, Pos: variant.NamePos, Decl: variant, direct: map[string]struct{}{}}
			for d := range funcDeps {
				vv.direct[d] = struct{}{}
			}
			if variant.Kind == ast.VariantCode {
				for _, dep := range variant.DependsOn {
					vv.direct[dep] = struct{}{}
				}
			}
			verts = append(verts, vv)
		}
		for _, group := range fn.TestGroups {
			gv := &Vertex{Name: group.UniqueName(), Kind: KindTestGroup, Pos: group.NamePos, Decl: group, direct: map[string]struct{}{}}
			gv.direct[fn.Name] = struct{}{}
			verts = append(verts, gv)
		}
	}

	return verts
}

// addRefs walks a Type tree and records the name of every Ref node it
// contains, ignoring primitives.
func addRefs(into map[string]struct{}, t *ast.Type) {
	if t == nil {
		return
	}
	switch t.Kind {
	case ast.TRef:
		into[t.RefName] = struct{}{}
	case ast.TOptional, ast.TList:
		addRefs(into, t.Elem)
	case ast.TUnion:
		for _, o := range t.Options {
			addRefs(into, o)
		}
	}
}

// topoSort runs the wave-based work-list algorithm: each wave emits
// every vertex whose remaining dependency set is empty, records the
// wave number as Depth, then strikes those vertices from everyone
// else's remaining set. It fails with CircularError if vertices
// survive past maxWaves or if no vertex is ever ready in a wave.
func topoSort(verts []*Vertex, byName map[string]*Vertex) error {
	remaining := make(map[string]map[string]struct{}, len(verts))
	for _, v := range verts {
		rem := make(map[string]struct{}, len(v.direct))
		for d := range v.direct {
			// Dependencies on names outside the graph (shouldn't occur
			// in a validated unit) are ignored rather than deadlocking
			// the sort on an unresolvable vertex.
			if _, ok := byName[d]; ok {
				rem[d] = struct{}{}
			}
		}
		remaining[v.Name] = rem
	}

	done := make(map[string]bool, len(verts))
	depth := 0
	left := len(verts)

	for left > 0 {
		if depth >= maxWaves {
			return circularError(verts, done)
		}
		var ready []*Vertex
		for _, v := range verts {
			if done[v.Name] {
				continue
			}
			if len(remaining[v.Name]) == 0 {
				ready = append(ready, v)
			}
		}
		if len(ready) == 0 {
			return circularError(verts, done)
		}
		for _, v := range ready {
			v.Depth = depth
			done[v.Name] = true
			left--
		}
		for _, v := range verts {
			if done[v.Name] {
				continue
			}
			for _, r := range ready {
				delete(remaining[v.Name], r.Name)
			}
		}
		depth++
	}
	return nil
}

// circularError reports every vertex still undone, in declaration
// order, blaming the first survivor's source position.
func circularError(verts []*Vertex, done map[string]bool) error {
	var names []string
	var pos token.Position
	for _, v := range verts {
		if done[v.Name] {
			continue
		}
		if len(names) == 0 {
			pos = v.Pos
		}
		names = append(names, v.Name)
	}
	return &kerr.CircularError{Pos: pos, Names: names}
}

// closeTransitive replaces each vertex's direct dependency set with
// the full transitive closure. Because verts is already in
// topological order, one left-to-right pass suffices: every
// dependency of v was itself either already fully closed (if it is a
// graph vertex) or is a leaf.
func closeTransitive(verts []*Vertex, byName map[string]*Vertex) {
	closed := make(map[string][]string, len(verts))
	for _, v := range verts {
		set := make(map[string]struct{}, len(v.direct))
		for d := range v.direct {
			set[d] = struct{}{}
			if dv, ok := byName[d]; ok {
				for _, dd := range closed[dv.Name] {
					set[dd] = struct{}{}
				}
			}
		}
		out := make([]string, 0, len(set))
		for d := range set {
			out = append(out, d)
		}
		sort.Strings(out)
		closed[v.Name] = out
		v.Deps = out
	}
}
