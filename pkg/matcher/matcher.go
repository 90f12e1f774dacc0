// Package matcher implements glob matching of file paths against
// pattern lists, rooted at a base directory.
package matcher

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matches reports whether path matches any of the given glob patterns.
// The path is normalized relative to baseDir with forward-slash
// separators so behavior is identical across operating systems.
// Patterns support "**" (recursive), "*" (single segment) and literal
// segments. An empty pattern list never matches.
func Matches(path string, patterns []string, baseDir string) bool {
	if len(patterns) == 0 {
		return false
	}

	rel := Normalize(path, baseDir)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(strings.TrimPrefix(pattern, "./"))
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Normalize returns path relative to baseDir with forward slashes.
// Paths outside baseDir (or unresolvable ones) are returned slashed but
// otherwise untouched, so absolute patterns can still match them.
func Normalize(path, baseDir string) string {
	p := filepath.ToSlash(path)
	if baseDir == "" {
		return strings.TrimPrefix(p, "./")
	}

	rel, err := filepath.Rel(baseDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return strings.TrimPrefix(p, "./")
	}
	return filepath.ToSlash(rel)
}
