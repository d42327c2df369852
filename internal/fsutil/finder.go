// Package fsutil enumerates the migration files of a directory.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude and DefaultExclude describe a standard versions directory:
// every Python module except package markers and bytecode caches.
var (
	DefaultInclude = []string{"*.py"}
	DefaultExclude = []string{"__*", "**/__pycache__/**"}
)

// FindFiles returns the files under root whose slash-separated path relative to
// root matches at least one include pattern and no exclude pattern. Patterns use
// doublestar syntax, so "*.py" only matches the top level while "**/*.py"
// descends into subdirectories. The result is sorted lexically.
//
// Exclude patterns are also checked against the base name, which lets "__*"
// skip __init__.py at any depth. Excluded directories are not entered, nor
// are subdirectories when every include pattern is top-level only.
func FindFiles(root string, include, exclude []string) ([]string, error) {
	if len(include) == 0 {
		panic("fsutil: at least one include pattern is required")
	}
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	descend := !topLevelOnly(include)
	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if !descend || matchAny(exclude, rel) || matchAny(exclude, d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if matchAny(exclude, rel) || matchAny(exclude, d.Name()) {
			return nil
		}
		if matchAny(include, rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// topLevelOnly reports whether no pattern can match below the root.
func topLevelOnly(patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(p, "/") || strings.Contains(p, "**") {
			return false
		}
	}
	return true
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
