package validate

import (
	"strings"
	"testing"

	"github.com/kilnlang/kiln/internal/compiler/ast"
	"github.com/kilnlang/kiln/internal/compiler/merge"
	"github.com/kilnlang/kiln/internal/compiler/parser"
)

func mustUnit(t *testing.T, files map[string]string) *ast.Unit {
	t.Helper()
	var bags []*ast.FileBag
	for name, src := range files {
		bag, err := parser.ParseFile(name, src)
		if err != nil {
			t.Fatalf("ParseFile(%s) error: %v", name, err)
		}
		bags = append(bags, bag)
	}
	return merge.Files(bags)
}

func TestValidateMinimalFunction(t *testing.T) {
	u := mustUnit(t, map[string]string{
		"f.kiln": `@enum Color { RED BLUE } @function f { @input Color @output Color }`,
	})
	if err := Unit(u); err != nil {
		t.Fatalf("Unit() error: %v", err)
	}
	if u.Functions[0].Input.RefTarget != u.Enums[0] {
		t.Errorf("Input.RefTarget not linked to Color enum")
	}
}

func TestValidateDuplicateGlobalName(t *testing.T) {
	u := mustUnit(t, map[string]string{
		"f.kiln": `@enum Color { RED } @class Color { x int }`,
	})
	err := Unit(u)
	if err == nil || !strings.Contains(err.Error(), "Duplicate") {
		t.Fatalf("Unit() = %v, want Duplicate", err)
	}
}

func TestValidateUndefinedTypeRef(t *testing.T) {
	u := mustUnit(t, map[string]string{
		"f.kiln": `@function f { @input Missing @output int }`,
	})
	err := Unit(u)
	if err == nil || !strings.Contains(err.Error(), "Undefined") {
		t.Fatalf("Unit() = %v, want Undefined", err)
	}
}

func TestValidateVariantAttachment(t *testing.T) {
	u := mustUnit(t, map[string]string{
		"f.kiln": `
			@function f { @input int @output int }
			@client[llm] a { @provider openai model: gpt-4 }
			@client[llm] b { @provider openai model: gpt-4 }
			@variant[llm] V for f {
				@client a b
				@prompt "hello"
			}
		`,
	})
	if err := Unit(u); err != nil {
		t.Fatalf("Unit() error: %v", err)
	}
	fn := u.Functions[0]
	if len(fn.Variants) != 2 {
		t.Fatalf("got %d variants attached, want 2", len(fn.Variants))
	}
	names := map[string]bool{}
	for _, v := range fn.Variants {
		names[v.Name] = true
	}
	if !names["V_a"] || !names["V_b"] {
		t.Errorf("variant names = %v, want V_a and V_b", names)
	}
}

func TestValidateVariantUndefinedFunction(t *testing.T) {
	u := mustUnit(t, map[string]string{
		"f.kiln": `
			@client[llm] a { @provider openai model: gpt-4 }
			@variant[llm] V for missing {
				@client a
				@prompt "hi"
			}
		`,
	})
	err := Unit(u)
	if err == nil || !strings.Contains(err.Error(), "Undefined") {
		t.Fatalf("Unit() = %v, want Undefined", err)
	}
}

func TestValidateCodeVariantDependsOnResolves(t *testing.T) {
	u := mustUnit(t, map[string]string{
		"f.kiln": `
			@function f { @input int @output int }
			@function g { @input int @output int }
			@variant[code] V for f {
				@depends_on g
				@method run { @lang[py] return g(x) }
			}
		`,
	})
	if err := Unit(u); err != nil {
		t.Fatalf("Unit() error: %v", err)
	}
}

func TestValidateCodeVariantUndefinedDependsOn(t *testing.T) {
	u := mustUnit(t, map[string]string{
		"f.kiln": `
			@function f { @input int @output int }
			@variant[code] V for f {
				@depends_on missing
				@method run { @lang[py] pass }
			}
		`,
	})
	err := Unit(u)
	if err == nil || !strings.Contains(err.Error(), "Undefined") {
		t.Fatalf("Unit() = %v, want Undefined", err)
	}
}

func TestValidateClientSelfFallbackRejected(t *testing.T) {
	u := mustUnit(t, map[string]string{
		"f.kiln": `@client[llm] a { @provider openai model: gpt-4 @fallback a }`,
	})
	err := Unit(u)
	if err == nil || !strings.Contains(err.Error(), "Syntax") {
		t.Fatalf("Unit() = %v, want Syntax", err)
	}
}

func TestValidateClientMutualFallbackAllowed(t *testing.T) {
	u := mustUnit(t, map[string]string{
		"f.kiln": `
			@client[llm] a { @provider openai model: gpt-4 @fallback b }
			@client[llm] b { @provider openai model: gpt-4 @fallback a }
		`,
	})
	if err := Unit(u); err != nil {
		t.Fatalf("Unit() error: %v", err)
	}
}

func TestValidateClassPropertyMethodNameCollision(t *testing.T) {
	u := mustUnit(t, map[string]string{
		"f.kiln": `
			@class Point {
				x int
				@method x { @lang[py] return self.x }
			}
		`,
	})
	err := Unit(u)
	if err == nil || !strings.Contains(err.Error(), "Duplicate") {
		t.Fatalf("Unit() = %v, want Duplicate", err)
	}
}

func TestValidateTestGroupAttachmentAndCaseUniqueness(t *testing.T) {
	u := mustUnit(t, map[string]string{
		"f.kiln": `
			@function f { @input int @output int }
			@test_group G for f {
				@case one { @input "1" }
				@case two { @input "2" }
			}
		`,
	})
	if err := Unit(u); err != nil {
		t.Fatalf("Unit() error: %v", err)
	}
	if len(u.Functions[0].TestGroups) != 1 {
		t.Fatalf("test group not attached")
	}
}

func TestValidateTestGroupDuplicateCaseNames(t *testing.T) {
	u := mustUnit(t, map[string]string{
		"f.kiln": `
			@function f { @input int @output int }
			@test_group G for f {
				@case one { @input "1" }
				@case one { @input "2" }
			}
		`,
	})
	err := Unit(u)
	if err == nil || !strings.Contains(err.Error(), "Duplicate") {
		t.Fatalf("Unit() = %v, want Duplicate", err)
	}
}

func TestValidateStringifyOverrideTargetMustResolve(t *testing.T) {
	u := mustUnit(t, map[string]string{
		"f.kiln": `
			@function f { @input int @output int }
			@client[llm] a { @provider openai model: gpt-4 }
			@variant[llm] V for f {
				@client a
				@stringify Missing { x @rename "y" }
				@prompt "hi"
			}
		`,
	})
	err := Unit(u)
	if err == nil || !strings.Contains(err.Error(), "Undefined") {
		t.Fatalf("Unit() = %v, want Undefined", err)
	}
}
