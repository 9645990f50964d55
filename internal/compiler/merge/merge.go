// Package merge concatenates the per-file bags produced by the parser
// into a single Unit, preserving per-file declaration order. File
// order itself only matters later as a tie-breaker inside the
// dependency resolver's secondary sort.
package merge

import "github.com/kilnlang/kiln/internal/compiler/ast"

// Files merges bags in the order given. Callers that read multiple
// source files should sort bags by filename first if a deterministic
// cross-file order is desired; Files itself does no reordering.
func Files(bags []*ast.FileBag) *ast.Unit {
	u := &ast.Unit{}
	for _, b := range bags {
		if b == nil {
			continue
		}
		u.Enums = append(u.Enums, b.Enums...)
		u.Classes = append(u.Classes, b.Classes...)
		u.Clients = append(u.Clients, b.Clients...)
		u.Functions = append(u.Functions, b.Functions...)
		u.Variants = append(u.Variants, b.Variants...)
		u.TestGroups = append(u.TestGroups, b.TestGroups...)
	}
	return u
}
