// Package pipeline adapts the external CSS and JS build tools behind
// the contracts the compile coordinator depends on.
package pipeline

import "context"

// CompileOptions are passed to the CSS pipeline.
type CompileOptions struct {
	ForceRecompile bool
}

// BundleResult is the JS bundler output: the produced chunk filenames
// and any CSS the bundler extracted along the way.
type BundleResult struct {
	Chunks []string
	CSS    string
}

// CSS turns the theme's entry stylesheet into a content-hashed output
// file. An empty path with a nil error means "nothing to show, continue"
// (non-fatal failure per the pipeline contract).
type CSS interface {
	Compile(ctx context.Context, opts CompileOptions) (outputPath string, err error)
}

// JS bundles component scripts into content-hashed bundles plus a
// manifest. A nil result with a nil error is the non-fatal failure case.
type JS interface {
	Bundle(ctx context.Context) (*BundleResult, error)
}
