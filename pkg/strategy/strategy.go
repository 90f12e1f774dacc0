// Package strategy classifies filesystem changes into compile
// strategies. The resolver maps a changed path to exactly one strategy
// using a fixed precedence over pattern lists.
package strategy

import (
	"path/filepath"

	"github.com/Travisun/hexo-goose-builder/pkg/matcher"
)

// CompileStrategy is the classification assigned to a file change.
type CompileStrategy int

const (
	// Skip runs nothing.
	Skip CompileStrategy = iota
	// CSSOnly reruns only the CSS pipeline.
	CSSOnly
	// JSOnly reruns only the JS bundler.
	JSOnly
	// Full reruns CSS first, then JS.
	Full
)

// String returns the strategy name as used in logs and reload payloads.
func (s CompileStrategy) String() string {
	switch s {
	case Full:
		return "full"
	case CSSOnly:
		return "css-only"
	case JSOnly:
		return "js-only"
	default:
		return "skip"
	}
}

// Config holds the merged pattern tables, immutable after construction.
// Duplicates across lists are resolved by the fixed resolver precedence,
// not by order within a list.
type Config struct {
	baseDir string

	ignore      []string
	jsOnly      []string
	fullCompile []string
	cssOnly     []string
	watch       []string

	// Root-level files living outside the theme tree with fixed
	// strategies: the site build config and the Tailwind config.
	buildConfigPath    string
	tailwindConfigPath string
}

// Defaults for the goose theme layout. User patterns are appended to
// these, never replacing them.
var (
	defaultIgnore = []string{
		"source/css/components.*",
		"source/js/components.*",
		"source/js/*.manifest.json",
		"**/components.manifest.json",
		// dot-prefixed pipeline temp outputs
		"source/css/.*",
		"source/js/.*",
		"node_modules/**",
		".git/**",
	}
	defaultJSOnly = []string{
		"layout/components/**/*.js",
		"source/js/lib/**",
	}
	defaultFullCompile = []string{
		"layout/components/**",
		"layout/**/*.ejs",
	}
	defaultCSSOnly = []string{
		"layout/**/*.css",
		"source/css/**/*.css",
	}
)

// NewConfig merges the built-in defaults with user-supplied patterns.
// baseDir is the theme root all patterns are matched against;
// buildConfigPath and tailwindConfigPath are the absolute site-level
// config files resolved ahead of the pattern lists.
func NewConfig(baseDir string, user UserPatterns, buildConfigPath, tailwindConfigPath string) *Config {
	return &Config{
		baseDir:            baseDir,
		ignore:             append(append([]string{}, defaultIgnore...), user.Ignore...),
		jsOnly:             append(append([]string{}, defaultJSOnly...), user.JSOnly...),
		fullCompile:        append(append([]string{}, defaultFullCompile...), user.FullCompile...),
		cssOnly:            append(append([]string{}, defaultCSSOnly...), user.CSSOnly...),
		watch:              append([]string{}, user.Watch...),
		buildConfigPath:    buildConfigPath,
		tailwindConfigPath: tailwindConfigPath,
	}
}

// UserPatterns are the user-configured additions to each table.
type UserPatterns struct {
	Ignore      []string
	JSOnly      []string
	FullCompile []string
	CSSOnly     []string
	Watch       []string
}

// BaseDir returns the theme root patterns are matched against.
func (c *Config) BaseDir() string {
	return c.baseDir
}

// Resolve classifies a changed path. Precedence, first match wins:
// ignore, site-level config files, js-only, full-compile, css-only,
// legacy watch list (full), then Skip.
func Resolve(path string, c *Config) CompileStrategy {
	if matcher.Matches(path, c.ignore, c.baseDir) {
		return Skip
	}

	// The site build config and the Tailwind config live outside the
	// theme tree and would never match theme-relative patterns.
	if c.buildConfigPath != "" && samePath(path, c.buildConfigPath) {
		return Full
	}
	if c.tailwindConfigPath != "" && samePath(path, c.tailwindConfigPath) {
		return CSSOnly
	}

	if matcher.Matches(path, c.jsOnly, c.baseDir) {
		return JSOnly
	}
	if matcher.Matches(path, c.fullCompile, c.baseDir) {
		return Full
	}
	if matcher.Matches(path, c.cssOnly, c.baseDir) {
		return CSSOnly
	}
	if matcher.Matches(path, c.watch, c.baseDir) {
		return Full
	}
	return Skip
}

func samePath(a, b string) bool {
	ca, err1 := filepath.Abs(a)
	cb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return ca == cb
}
