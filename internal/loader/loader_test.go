package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadExplicitFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.kiln")
	writeFile(t, a, "@enum X { A }")

	files, err := Load([]string{a})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if files[a] != "@enum X { A }" {
		t.Errorf("files[a] = %q", files[a])
	}
}

func TestLoadDirectoryNonRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.kiln"), "A")
	writeFile(t, filepath.Join(dir, "b.kiln"), "B")
	writeFile(t, filepath.Join(dir, "readme.txt"), "ignored")
	subdir := filepath.Join(dir, "nested")
	mkdir(t, subdir)
	writeFile(t, filepath.Join(subdir, "c.kiln"), "C")

	files, err := Load([]string{dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2 (non-recursive): %v", len(files), files)
	}
}

func TestLoadMissingSourceErrors(t *testing.T) {
	_, err := Load([]string{"/no/such/path.kiln"})
	if err == nil {
		t.Fatal("Load() succeeded, want error")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
}
