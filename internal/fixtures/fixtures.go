// Package fixtures loads declarative end-to-end compile fixtures from
// a fixtures.yaml file: named cases pairing a small set of inline
// source files with an expected outcome (status and, on success, the
// expected emission order). It lets "kiln test" exercise the full
// tokenize-through-resolve pipeline against known-good and
// known-failing inputs without a generated-code runtime to execute.
package fixtures

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Case is one declarative compile fixture.
type Case struct {
	// Name identifies the case in test output.
	Name string `yaml:"name"`

	// Files maps source filenames to their kiln DSL content.
	Files map[string]string `yaml:"files"`

	// WantStatus is the expected driver.Result.Status.
	WantStatus int `yaml:"want_status"`

	// WantOrder is the expected emission order, by vertex name, when
	// WantStatus is StatusOK. Omitted (or left empty) when the case
	// expects a failure.
	WantOrder []string `yaml:"want_order,omitempty"`

	// WantErrorSubstring, if set, must appear in the rendered error
	// message when WantStatus is nonzero.
	WantErrorSubstring string `yaml:"want_error_substring,omitempty"`
}

// Suite is the parsed contents of a fixtures.yaml file: an ordered
// list of cases.
type Suite struct {
	Cases []Case `yaml:"cases"`
}

// Load reads and parses a fixtures.yaml file at path.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: reading %s: %w", path, err)
	}
	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("fixtures: parsing %s: %w", path, err)
	}
	for i, c := range suite.Cases {
		if c.Name == "" {
			return nil, fmt.Errorf("fixtures: case %d in %s has no name", i, path)
		}
		if len(c.Files) == 0 {
			return nil, fmt.Errorf("fixtures: case %q in %s has no files", c.Name, path)
		}
	}
	return &suite, nil
}
