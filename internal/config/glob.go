package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultSourcePatterns are matched by ExpandSources when no pattern is given.
var DefaultSourcePatterns = []string{"*.c", "*.cl"}

// ExpandSources resolves kernel file names and glob patterns inside dir.
// The returned paths are relative to dir, sorted and unique. Directories are
// skipped; a plain name that does not exist is an error.
func ExpandSources(dir string, patterns []string) ([]string, error) {
	explicit := len(patterns) > 0
	if !explicit {
		patterns = DefaultSourcePatterns
	}

	files := make([]string, 0)
	seen := make(map[string]struct{})
	add := func(path string) {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		if _, ok := seen[rel]; ok {
			return
		}
		seen[rel] = struct{}{}
		files = append(files, rel)
	}

	for _, pattern := range patterns {
		full := filepath.Join(dir, pattern)

		if !hasGlobMeta(pattern) {
			info, err := os.Stat(full)
			if err != nil {
				return nil, err
			}
			if info.IsDir() {
				return nil, fmt.Errorf("%s is a directory", full)
			}
			add(full)
			continue
		}

		matches, err := filepath.Glob(full)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 && explicit {
			return nil, fmt.Errorf("no matches for pattern %q", pattern)
		}
		for _, match := range matches {
			if info, err := os.Stat(match); err == nil && !info.IsDir() {
				add(match)
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no kernel sources found in %s", dir)
	}

	sort.Strings(files)
	return files, nil
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
