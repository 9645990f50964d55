// Package ast defines the typed declaration model the parser
// produces: enums, classes, LLM clients, functions, variants, and test
// groups, plus the small algebraic Type grammar they share.
//
// Values are immutable once parsed, with two exceptions the validator
// performs deliberately: attaching a Variant or TestGroup to its owning
// Function, and linking a Ref Type to the Class or Enum it names.
package ast

import "github.com/kilnlang/kiln/internal/compiler/token"

// TypeDecl is implemented by the two declaration kinds a Ref type can
// resolve to.
type TypeDecl interface {
	TypeDeclName() string
}

// Enum is a named, ordered set of value identifiers.
type Enum struct {
	Tok     token.Token
	Name    string
	NamePos token.Position
	Values  []EnumValue
}

func (e *Enum) TypeDeclName() string { return e.Name }

// EnumValue is one member of an Enum.
type EnumValue struct {
	Name string
	Pos  token.Position
}

// Property is one field of a Class: a name and its Type.
type Property struct {
	Name    string
	NamePos token.Position
	Type    *Type
}

// LangBody is one per-language implementation of a Method.
type LangBody struct {
	Lang    string
	LangPos token.Position
	Code    string
}

// Method is a named, possibly multi-language code block attached to a
// Class, Variant, or TestGroup/TestCase.
type Method struct {
	Tok     token.Token
	Name    string
	NamePos token.Position
	Langs   []LangBody
}

// Class is a named product type: ordered properties plus methods.
type Class struct {
	Tok        token.Token
	Name       string
	NamePos    token.Position
	Properties []Property
	Methods    []Method
}

func (c *Class) TypeDeclName() string { return c.Name }

// LLMClient configures one named LLM provider, with an optional
// default fallback client and per-status-code fallbacks.
type LLMClient struct {
	Tok     token.Token
	Name    string
	NamePos token.Position

	Provider    string
	ProviderPos token.Position

	ArgNames []string // insertion order, for deterministic iteration
	Args     map[string]string

	HasRetries bool
	NumRetries int
	RetryPos   token.Position

	HasDefaultFallback bool
	DefaultFallback    string
	DefaultFallbackPos token.Position

	FallbackCodes   []int // insertion order
	FallbackByCode  map[int]string
	FallbackCodePos map[int]token.Position
}

func (c *LLMClient) TypeDeclName() string { return c.Name }

// Function is a named LLM-backed operation: a typed input and output,
// plus the variants and test groups attached to it by the validator.
type Function struct {
	Tok     token.Token
	Name    string
	NamePos token.Position
	Input   *Type
	Output  *Type

	Variants   []*Variant
	TestGroups []*TestGroup
}

func (f *Function) TypeDeclName() string { return f.Name }

// VariantKind distinguishes the two Variant shapes.
type VariantKind int

const (
	VariantLLM VariantKind = iota
	VariantCode
)

func (k VariantKind) String() string {
	if k == VariantLLM {
		return "llm"
	}
	return "code"
}

// StringifyProperty is one field's rendering override within a
// StringifyOverride.
type StringifyProperty struct {
	Name    string
	NamePos token.Position

	HasRename bool
	Rename    string

	HasDescribe bool
	Describe    string

	Skip bool
}

// StringifyOverride carries per-type rendering instructions for an LLM
// variant's prompt boundary.
type StringifyOverride struct {
	Tok        token.Token
	TypeName   string
	TypeNamePos token.Position
	Properties []StringifyProperty
}

// Variant is a concrete implementation of a Function: either an LLM
// variant (prompt against one client) or a Code variant (hand-written,
// depending on other functions). Function is filled in by the
// validator's attachment pass.
type Variant struct {
	Kind         VariantKind
	Tok          token.Token
	Name         string
	NamePos      token.Position
	FunctionName string
	FunctionNamePos token.Position
	Function     *Function

	// LLM-only fields.
	ClientName    string
	ClientNamePos token.Position
	Prompt        string
	PromptPos     token.Position
	StringifyOverrides []StringifyOverride

	// Code-only fields.
	DependsOn    []string
	DependsOnPos []token.Position

	Methods []Method
}

// UniqueName is the dependency graph vertex key: "<function>::<name>".
func (v *Variant) UniqueName() string {
	return v.FunctionName + "::" + v.Name
}

// TestCase is one example input, with an optional name (synthesized
// as "case_<i>" when omitted) and per-language assertion methods.
type TestCase struct {
	Name         string
	NamePos      token.Position
	NameExplicit bool
	LiteralInput string
	InputPos     token.Position
	Methods      []Method
}

// TestGroup attaches a set of TestCases to one Function.
type TestGroup struct {
	Tok             token.Token
	Name            string
	NamePos         token.Position
	FunctionName    string
	FunctionNamePos token.Position
	Function        *Function
	Cases           []*TestCase
	Methods         []Method
}

// UniqueName is the dependency graph vertex key: "<function>::<name>".
func (g *TestGroup) UniqueName() string {
	return g.FunctionName + "::" + g.Name
}

// FileBag is everything one source file's top-level declarations
// parse into, before merging. Variants and test groups are kept
// grouped by the function they target, mirroring the grammar: they
// are parsed as standalone `@variant`/`@test_group` blocks that name
// their function rather than being nested inside it.
type FileBag struct {
	File       string
	Enums      []*Enum
	Classes    []*Class
	Clients    []*LLMClient
	Functions  []*Function
	Variants   []*Variant
	TestGroups []*TestGroup
}

// Unit is the merged, whole-program AST: the concatenation of every
// file's FileBag, in file-then-declaration order. Variants and test
// groups are attached to their Functions by the validator; until then
// they remain in the flat Variants/TestGroups slices.
type Unit struct {
	Enums      []*Enum
	Classes    []*Class
	Clients    []*LLMClient
	Functions  []*Function
	Variants   []*Variant
	TestGroups []*TestGroup
}
