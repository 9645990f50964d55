package driver

import (
	"strings"
	"testing"

	"github.com/kilnlang/kiln/internal/compiler/emitter"
)

func TestRunMinimalFunctionSucceeds(t *testing.T) {
	res := Run(Options{
		Sources: map[string]string{
			"f.kiln": `@enum Color { RED BLUE } @function f { @input Color @output Color }`,
		},
	})
	if res.Err != nil {
		t.Fatalf("Run() error: %v", res.Err)
	}
	if res.Status != StatusOK {
		t.Errorf("Status = %d, want StatusOK", res.Status)
	}
	if len(res.Order) != 2 || res.Order[0] != "Color" || res.Order[1] != "f" {
		t.Errorf("Order = %v, want [Color f]", res.Order)
	}
	if res.RunID == "" {
		t.Errorf("RunID is empty")
	}
}

func TestRunSyntaxErrorIsDomainError(t *testing.T) {
	res := Run(Options{
		Sources: map[string]string{
			"f.kiln": `not a valid declaration`,
		},
	})
	if res.Err == nil {
		t.Fatal("Run() succeeded, want error")
	}
	if res.Status != StatusDomainError {
		t.Errorf("Status = %d, want StatusDomainError", res.Status)
	}
}

func TestRunEmitsThroughManifestEmitter(t *testing.T) {
	m := emitter.NewManifest("manifest.txt")
	res := Run(Options{
		Sources: map[string]string{
			"f.kiln": `@enum Color { RED BLUE } @function f { @input Color @output Color }`,
		},
		Emitter: m,
	})
	if res.Err != nil {
		t.Fatalf("Run() error: %v", res.Err)
	}
	dir := t.TempDir() + "/out"
	if err := m.Flush(dir); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
}

func TestCompileReturnsFixedErrorBuffer(t *testing.T) {
	status, buf := Compile("", map[string]string{"f.kiln": `bogus`}, nil)
	if status != StatusDomainError {
		t.Fatalf("status = %d, want StatusDomainError", status)
	}
	msg := strings.TrimRight(string(buf[:]), "\x00")
	if msg == "" {
		t.Errorf("error buffer is empty")
	}
}

func TestCompileSuccessStatusIsZero(t *testing.T) {
	status, _ := Compile("", map[string]string{
		"f.kiln": `@enum Color { RED }`,
	}, nil)
	if status != StatusOK {
		t.Errorf("status = %d, want StatusOK", status)
	}
}
