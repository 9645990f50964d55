// Package validate runs the five-step semantic validation pass over a
// merged Unit: global name uniqueness, variant and test-group
// attachment, per-declaration semantic checks, and type-ref linking.
// Validation is fail-fast: the first error aborts the whole unit.
package validate

import (
	"github.com/kilnlang/kiln/internal/compiler/ast"
	kerr "github.com/kilnlang/kiln/internal/compiler/errors"
	"github.com/kilnlang/kiln/internal/compiler/token"
)

// Unit runs all five validation steps against u, mutating it in
// place: variants and test groups are attached to their owning
// Function, and every Ref type node is linked to its target
// declaration.
func Unit(u *ast.Unit) error {
	enums := make(map[string]*ast.Enum, len(u.Enums))
	classes := make(map[string]*ast.Class, len(u.Classes))
	functions := make(map[string]*ast.Function, len(u.Functions))
	clients := make(map[string]*ast.LLMClient, len(u.Clients))

	if err := checkGlobalNames(u, enums, classes, functions, clients); err != nil {
		return err
	}
	if err := attachVariants(u, functions, clients); err != nil {
		return err
	}
	if err := attachTestGroups(u, functions); err != nil {
		return err
	}
	if err := checkDeclarations(u, enums, classes, functions, clients); err != nil {
		return err
	}
	linkTypes(u, enums, classes)
	return nil
}

// checkGlobalNames walks enums, classes, functions, then clients (in
// that order, per spec) checking identifier spelling and global
// uniqueness across the single shared namespace.
func checkGlobalNames(u *ast.Unit, enums map[string]*ast.Enum, classes map[string]*ast.Class, functions map[string]*ast.Function, clients map[string]*ast.LLMClient) error {
	locs := map[string][]token.Position{}
	var order []string
	see := func(name string, pos token.Position) {
		if _, seen := locs[name]; !seen {
			order = append(order, name)
		}
		locs[name] = append(locs[name], pos)
	}

	for _, e := range u.Enums {
		if err := checkIdent(e.Name, e.NamePos); err != nil {
			return err
		}
		enums[e.Name] = e
		see(e.Name, e.NamePos)
	}
	for _, c := range u.Classes {
		if err := checkIdent(c.Name, c.NamePos); err != nil {
			return err
		}
		classes[c.Name] = c
		see(c.Name, c.NamePos)
	}
	for _, fn := range u.Functions {
		if err := checkIdent(fn.Name, fn.NamePos); err != nil {
			return err
		}
		functions[fn.Name] = fn
		see(fn.Name, fn.NamePos)
	}
	for _, c := range u.Clients {
		if err := checkIdent(c.Name, c.NamePos); err != nil {
			return err
		}
		clients[c.Name] = c
		see(c.Name, c.NamePos)
	}

	for _, name := range order {
		if ls := locs[name]; len(ls) > 1 {
			return &kerr.DuplicateError{Name: name, Kind: "declaration", Locs: ls}
		}
	}
	return nil
}

func checkIdent(name string, pos token.Position) error {
	if name == "" {
		return &kerr.SyntaxError{Pos: pos, Message: "identifier must not be empty"}
	}
	c := name[0]
	if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
		return &kerr.SyntaxError{Pos: pos, Message: "invalid identifier " + quote(name) + ": must start with a letter"}
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_') {
			return &kerr.SyntaxError{Pos: pos, Message: "invalid identifier " + quote(name)}
		}
	}
	return nil
}

func quote(s string) string { return "\"" + s + "\"" }

// attachVariants groups u.Variants by FunctionName, failing if the
// function is undeclared, then validates and attaches each variant,
// checking per-function name uniqueness.
func attachVariants(u *ast.Unit, functions map[string]*ast.Function, clients map[string]*ast.LLMClient) error {
	for _, v := range u.Variants {
		fn, ok := functions[v.FunctionName]
		if !ok {
			return &kerr.UndefinedError{Pos: v.FunctionNamePos, Message: "variant " + quote(v.Name) + " references undefined function " + quote(v.FunctionName)}
		}
		if err := checkIdent(v.Name, v.NamePos); err != nil {
			return err
		}
		for _, existing := range fn.Variants {
			if existing.Name == v.Name {
				return &kerr.DuplicateError{Name: v.Name, Kind: "variant", Locs: []token.Position{existing.NamePos, v.NamePos}}
			}
		}
		v.Function = fn
		fn.Variants = append(fn.Variants, v)
	}
	return nil
}

// attachTestGroups mirrors attachVariants for test groups, plus
// checks per-group case-name uniqueness.
func attachTestGroups(u *ast.Unit, functions map[string]*ast.Function) error {
	for _, g := range u.TestGroups {
		fn, ok := functions[g.FunctionName]
		if !ok {
			return &kerr.UndefinedError{Pos: g.FunctionNamePos, Message: "test_group " + quote(g.Name) + " references undefined function " + quote(g.FunctionName)}
		}
		if err := checkIdent(g.Name, g.NamePos); err != nil {
			return err
		}
		for _, existing := range fn.TestGroups {
			if existing.Name == g.Name {
				return &kerr.DuplicateError{Name: g.Name, Kind: "test_group", Locs: []token.Position{existing.NamePos, g.NamePos}}
			}
		}
		if err := checkCaseNamesUnique(g); err != nil {
			return err
		}
		g.Function = fn
		fn.TestGroups = append(fn.TestGroups, g)
	}
	return nil
}

func checkCaseNamesUnique(g *ast.TestGroup) error {
	locs := map[string][]token.Position{}
	var order []string
	for _, c := range g.Cases {
		if _, seen := locs[c.Name]; !seen {
			order = append(order, c.Name)
		}
		locs[c.Name] = append(locs[c.Name], c.NamePos)
	}
	for _, name := range order {
		if ls := locs[name]; len(ls) > 1 {
			return &kerr.DuplicateError{Name: name, Kind: "test case", Locs: ls}
		}
	}
	return nil
}

// checkDeclarations runs each declaration kind's own semantic checks
// (step 4 of §4.4), in enum/class/function/client/variant order.
func checkDeclarations(u *ast.Unit, enums map[string]*ast.Enum, classes map[string]*ast.Class, functions map[string]*ast.Function, clients map[string]*ast.LLMClient) error {
	for _, e := range u.Enums {
		if err := validateEnum(e); err != nil {
			return err
		}
	}
	for _, c := range u.Classes {
		if err := validateClass(c, enums, classes); err != nil {
			return err
		}
	}
	for _, fn := range u.Functions {
		if err := validateFunction(fn, enums, classes); err != nil {
			return err
		}
	}
	for _, c := range u.Clients {
		if err := validateClient(c, clients); err != nil {
			return err
		}
	}
	for _, v := range u.Variants {
		if err := validateVariant(v, enums, classes, clients, functions); err != nil {
			return err
		}
	}
	for _, g := range u.TestGroups {
		if err := validateTestGroup(g); err != nil {
			return err
		}
	}
	return nil
}

func validateTestGroup(g *ast.TestGroup) error {
	if err := checkMethodNamesUnique(g.Methods, "test_group "+g.Name); err != nil {
		return err
	}
	for _, c := range g.Cases {
		if err := checkMethodNamesUnique(c.Methods, "case "+c.Name+" of test_group "+g.Name); err != nil {
			return err
		}
	}
	return nil
}

func validateEnum(e *ast.Enum) error {
	if len(e.Values) == 0 {
		return &kerr.SyntaxError{Pos: e.NamePos, Message: "enum " + quote(e.Name) + " must not be empty"}
	}
	return nil
}

func validateClass(c *ast.Class, enums map[string]*ast.Enum, classes map[string]*ast.Class) error {
	locs := map[string][]token.Position{}
	var order []string
	see := func(name string, pos token.Position) {
		if _, seen := locs[name]; !seen {
			order = append(order, name)
		}
		locs[name] = append(locs[name], pos)
	}
	for _, p := range c.Properties {
		see(p.Name, p.NamePos)
		if err := checkTypeResolves(p.Type, enums, classes); err != nil {
			return err
		}
	}
	for _, m := range c.Methods {
		see(m.Name, m.NamePos)
		if err := checkMethodLangsUnique(&m); err != nil {
			return err
		}
	}
	for _, name := range order {
		if ls := locs[name]; len(ls) > 1 {
			return &kerr.DuplicateError{Name: name, Kind: "member of class " + c.Name, Locs: ls}
		}
	}
	return nil
}

func validateFunction(fn *ast.Function, enums map[string]*ast.Enum, classes map[string]*ast.Class) error {
	if err := checkTypeResolves(fn.Input, enums, classes); err != nil {
		return err
	}
	return checkTypeResolves(fn.Output, enums, classes)
}

func validateClient(c *ast.LLMClient, clients map[string]*ast.LLMClient) error {
	if len(c.Args) == 0 {
		return &kerr.SyntaxError{Pos: c.NamePos, Message: "client " + quote(c.Name) + " requires a non-empty args map"}
	}
	if c.HasDefaultFallback {
		if err := checkFallbackTarget(c.Name, c.DefaultFallback, c.DefaultFallbackPos, clients); err != nil {
			return err
		}
	}
	for _, code := range c.FallbackCodes {
		target := c.FallbackByCode[code]
		if err := checkFallbackTarget(c.Name, target, c.FallbackCodePos[code], clients); err != nil {
			return err
		}
	}
	return nil
}

func checkFallbackTarget(self, target string, pos token.Position, clients map[string]*ast.LLMClient) error {
	if target == self {
		return &kerr.SyntaxError{Pos: pos, Message: "client " + quote(self) + " may not name itself as a fallback"}
	}
	if _, ok := clients[target]; !ok {
		return &kerr.UndefinedError{Pos: pos, Message: "fallback client " + quote(target) + " is not declared"}
	}
	return nil
}

func validateVariant(v *ast.Variant, enums map[string]*ast.Enum, classes map[string]*ast.Class, clients map[string]*ast.LLMClient, functions map[string]*ast.Function) error {
	if err := checkMethodNamesUnique(v.Methods, "variant "+v.Name); err != nil {
		return err
	}
	switch v.Kind {
	case ast.VariantLLM:
		if _, ok := clients[v.ClientName]; !ok {
			return &kerr.UndefinedError{Pos: v.ClientNamePos, Message: "variant " + quote(v.Name) + " references undefined client " + quote(v.ClientName)}
		}
		seen := map[string]bool{}
		for _, so := range v.StringifyOverrides {
			if _, ok := enums[so.TypeName]; !ok {
				if _, ok := classes[so.TypeName]; !ok {
					return &kerr.UndefinedError{Pos: so.TypeNamePos, Message: "stringify override references undefined type " + quote(so.TypeName)}
				}
			}
			if seen[so.TypeName] {
				return &kerr.DuplicateError{Name: so.TypeName, Kind: "stringify override", Locs: []token.Position{so.TypeNamePos}}
			}
			seen[so.TypeName] = true
			propSeen := map[string]bool{}
			for _, p := range so.Properties {
				if propSeen[p.Name] {
					return &kerr.DuplicateError{Name: p.Name, Kind: "stringify property of " + so.TypeName, Locs: []token.Position{p.NamePos}}
				}
				propSeen[p.Name] = true
			}
		}
	case ast.VariantCode:
		for i, dep := range v.DependsOn {
			if _, ok := functions[dep]; !ok {
				return &kerr.UndefinedError{Pos: v.DependsOnPos[i], Message: "code variant " + quote(v.Name) + " depends on undefined function " + quote(dep)}
			}
		}
	}
	return nil
}

func checkMethodNamesUnique(methods []ast.Method, scope string) error {
	locs := map[string][]token.Position{}
	var order []string
	for _, m := range methods {
		if _, seen := locs[m.Name]; !seen {
			order = append(order, m.Name)
		}
		locs[m.Name] = append(locs[m.Name], m.NamePos)
		if err := checkMethodLangsUnique(&m); err != nil {
			return err
		}
	}
	for _, name := range order {
		if ls := locs[name]; len(ls) > 1 {
			return &kerr.DuplicateError{Name: name, Kind: "method of " + scope, Locs: ls}
		}
	}
	return nil
}

func checkMethodLangsUnique(m *ast.Method) error {
	locs := map[string][]token.Position{}
	var order []string
	for _, lb := range m.Langs {
		if _, seen := locs[lb.Lang]; !seen {
			order = append(order, lb.Lang)
		}
		locs[lb.Lang] = append(locs[lb.Lang], lb.LangPos)
	}
	for _, name := range order {
		if ls := locs[name]; len(ls) > 1 {
			return &kerr.DuplicateError{Name: name, Kind: "language of method " + m.Name, Locs: ls}
		}
	}
	if len(m.Langs) == 0 {
		return &kerr.SyntaxError{Pos: m.NamePos, Message: "method " + quote(m.Name) + " requires at least one language body"}
	}
	return nil
}

// checkTypeResolves walks a Type tree and confirms every Ref name
// names a declared Class or Enum.
func checkTypeResolves(t *ast.Type, enums map[string]*ast.Enum, classes map[string]*ast.Class) error {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case ast.TRef:
		if _, ok := enums[t.RefName]; ok {
			return nil
		}
		if _, ok := classes[t.RefName]; ok {
			return nil
		}
		return &kerr.UndefinedError{Pos: t.Pos, Message: "undefined type " + quote(t.RefName)}
	case ast.TOptional, ast.TList:
		return checkTypeResolves(t.Elem, enums, classes)
	case ast.TUnion:
		for _, o := range t.Options {
			if err := checkTypeResolves(o, enums, classes); err != nil {
				return err
			}
		}
	}
	return nil
}

// linkTypes walks every class property and function I/O type and
// records the resolved Class/Enum pointer on each Ref node. Step 4
// already proved every reference resolves, so this pass cannot fail.
func linkTypes(u *ast.Unit, enums map[string]*ast.Enum, classes map[string]*ast.Class) {
	for _, c := range u.Classes {
		for i := range c.Properties {
			link(c.Properties[i].Type, enums, classes)
		}
	}
	for _, fn := range u.Functions {
		link(fn.Input, enums, classes)
		link(fn.Output, enums, classes)
	}
}

func link(t *ast.Type, enums map[string]*ast.Enum, classes map[string]*ast.Class) {
	if t == nil {
		return
	}
	switch t.Kind {
	case ast.TRef:
		if e, ok := enums[t.RefName]; ok {
			t.RefTarget = e
			return
		}
		if c, ok := classes[t.RefName]; ok {
			t.RefTarget = c
		}
	case ast.TOptional, ast.TList:
		link(t.Elem, enums, classes)
	case ast.TUnion:
		for _, o := range t.Options {
			link(o, enums, classes)
		}
	}
}
