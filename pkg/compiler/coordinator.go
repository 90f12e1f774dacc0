// Package compiler coordinates the CSS and JS pipelines, guaranteeing
// at most one compilation in flight at any time.
package compiler

import (
	"context"
	"fmt"
	"sync"

	"github.com/Travisun/hexo-goose-builder/pkg/pipeline"
	log2 "github.com/Travisun/hexo-goose-builder/pkg/utils/log"
)

// inflight is the handle waiters block on while a run is compiling.
// Waiters receive the in-flight run's result instead of starting their
// own run.
type inflight struct {
	done chan struct{}
	err  error
}

// Coordinator owns the Idle/Compiling state machine and the compiled
// state. All compile entry points are funneled through run.
type Coordinator struct {
	css    pipeline.CSS
	js     pipeline.JS
	logger log2.Logger

	mu          sync.Mutex
	current     *inflight
	hasCompiled bool
}

// New creates a coordinator over the two pipelines.
func New(css pipeline.CSS, js pipeline.JS) *Coordinator {
	return &Coordinator{
		css:    css,
		js:     js,
		logger: log2.GetLogger(),
	}
}

// HasCompiled reports whether a Full compile has succeeded since the
// last cache clear.
func (c *Coordinator) HasCompiled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasCompiled
}

// IsCompiling reports whether a run is in flight.
func (c *Coordinator) IsCompiling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// run executes fn unless a run is already in flight, in which case the
// caller waits for that run and returns its result.
func (c *Coordinator) run(ctx context.Context, fn func(context.Context) error) error {
	c.mu.Lock()
	if cur := c.current; cur != nil {
		c.mu.Unlock()
		select {
		case <-cur.done:
			return cur.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	cur := &inflight{done: make(chan struct{})}
	c.current = cur
	c.mu.Unlock()

	cur.err = fn(ctx)
	close(cur.done)

	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()

	return cur.err
}

// CompileFull runs CSS first, then JS. A CSS failure (error or nil
// output) aborts the attempt and JS is never invoked. A JS failure
// after CSS success is a logged partial success: the build is usable
// but degraded, and hasCompiled is still set.
func (c *Coordinator) CompileFull(ctx context.Context) error {
	return c.run(ctx, func(ctx context.Context) error {
		cssOut, err := c.css.Compile(ctx, pipeline.CompileOptions{ForceRecompile: true})
		if err != nil {
			return fmt.Errorf("full compile aborted, css pipeline failed: %w", err)
		}
		if cssOut == "" {
			return fmt.Errorf("full compile aborted, css pipeline produced no output")
		}

		if _, err := c.js.Bundle(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("js bundle failed after successful css compile, continuing degraded")
		}

		c.mu.Lock()
		c.hasCompiled = true
		c.mu.Unlock()
		return nil
	})
}

// CompileCSSOnly runs only the CSS pipeline. It does not touch the
// hasCompiled semantics of the JS half.
func (c *Coordinator) CompileCSSOnly(ctx context.Context) error {
	return c.run(ctx, func(ctx context.Context) error {
		// Strategy-triggered, so the previous artifact is stale by
		// definition.
		out, err := c.css.Compile(ctx, pipeline.CompileOptions{ForceRecompile: true})
		if err != nil {
			return fmt.Errorf("css compile failed: %w", err)
		}
		if out == "" {
			c.logger.Warn().Msg("css pipeline produced no output")
		}
		return nil
	})
}

// CompileJSOnly runs only the JS bundler.
func (c *Coordinator) CompileJSOnly(ctx context.Context) error {
	return c.run(ctx, func(ctx context.Context) error {
		res, err := c.js.Bundle(ctx)
		if err != nil {
			return fmt.Errorf("js bundle failed: %w", err)
		}
		if res == nil {
			c.logger.Warn().Msg("js pipeline produced no output")
		}
		return nil
	})
}
