// Package loader is the thin, emitter-agnostic layer that turns a
// manifest's source list into the filename-to-content map the
// compiler's entry point expects. It performs no import resolution:
// the DSL has no file-level import statement, so declarations across
// files are merged by name alone.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// sourceExt is the file extension the loader considers when walking a
// declared source directory non-recursively.
const sourceExt = ".kiln"

// Load reads every file named or discovered by sources (a mix of
// individual files and directories) and returns filename -> content.
// A directory is walked non-recursively: only its direct *.kiln
// children are read, in lexical order. An unreadable file, or a
// declared source that does not exist, is an error.
func Load(sources []string) (map[string]string, error) {
	out := map[string]string{}
	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("loader: source %q: %w", src, err)
		}
		if info.IsDir() {
			files, err := listSourceFiles(src)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				if err := readInto(f, out); err != nil {
					return nil, err
				}
			}
			continue
		}
		if err := readInto(src, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func listSourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loader: reading directory %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) != sourceExt {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func readInto(path string, out map[string]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("loader: reading %q: %w", path, err)
	}
	out[path] = string(data)
	return nil
}
