package compiler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Travisun/hexo-goose-builder/pkg/pipeline"
)

type fakeCSS struct {
	out   string
	err   error
	calls int32
	block chan struct{} // when non-nil, Compile waits on it
}

func (f *fakeCSS) Compile(ctx context.Context, opts pipeline.CompileOptions) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.block != nil {
		<-f.block
	}
	return f.out, f.err
}

type fakeJS struct {
	res   *pipeline.BundleResult
	err   error
	calls int32
}

func (f *fakeJS) Bundle(ctx context.Context) (*pipeline.BundleResult, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.res, f.err
}

func TestCompileFullSuccess(t *testing.T) {
	css := &fakeCSS{out: "components.abc.css"}
	js := &fakeJS{res: &pipeline.BundleResult{Chunks: []string{"nav.def.js"}}}
	c := New(css, js)

	if err := c.CompileFull(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.HasCompiled() {
		t.Error("expected hasCompiled after a successful full compile")
	}
	if css.calls != 1 || js.calls != 1 {
		t.Errorf("expected one invocation per pipeline, got css=%d js=%d", css.calls, js.calls)
	}
}

func TestCompileFullCSSErrorGatesJS(t *testing.T) {
	css := &fakeCSS{err: errors.New("postcss exploded")}
	js := &fakeJS{res: &pipeline.BundleResult{}}
	c := New(css, js)

	if err := c.CompileFull(context.Background()); err == nil {
		t.Fatal("expected an error when the css pipeline fails")
	}
	if js.calls != 0 {
		t.Error("js pipeline must never run after a css failure")
	}
	if c.HasCompiled() {
		t.Error("a failed full compile must not set hasCompiled")
	}
}

func TestCompileFullCSSNilOutputGatesJS(t *testing.T) {
	css := &fakeCSS{out: ""}
	js := &fakeJS{res: &pipeline.BundleResult{}}
	c := New(css, js)

	if err := c.CompileFull(context.Background()); err == nil {
		t.Fatal("expected an error when the css pipeline produces no output")
	}
	if js.calls != 0 {
		t.Error("js pipeline must never run when css produced no output")
	}
	if c.HasCompiled() {
		t.Error("hasCompiled must stay false")
	}
}

func TestCompileFullJSFailureIsPartialSuccess(t *testing.T) {
	css := &fakeCSS{out: "components.abc.css"}
	js := &fakeJS{err: errors.New("esbuild exploded")}
	c := New(css, js)

	if err := c.CompileFull(context.Background()); err != nil {
		t.Fatalf("js failure after css success must not propagate, got: %v", err)
	}
	if !c.HasCompiled() {
		t.Error("partial success must still set hasCompiled")
	}
}

func TestMutualExclusion(t *testing.T) {
	css := &fakeCSS{out: "components.abc.css", block: make(chan struct{})}
	js := &fakeJS{res: &pipeline.BundleResult{}}
	c := New(css, js)

	full := make(chan error, 1)
	go func() { full <- c.CompileFull(context.Background()) }()

	// Wait for the full compile to be in flight.
	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&css.calls) == 0 {
		select {
		case <-deadline:
			t.Fatal("full compile never started")
		case <-time.After(time.Millisecond):
		}
	}
	if !c.IsCompiling() {
		t.Fatal("expected IsCompiling while the full compile is blocked")
	}

	second := make(chan error, 1)
	go func() { second <- c.CompileCSSOnly(context.Background()) }()

	// The second caller must wait, not start another pipeline run.
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&css.calls); got != 1 {
		t.Fatalf("expected a single css invocation while blocked, got %d", got)
	}

	close(css.block)

	if err := <-full; err != nil {
		t.Fatalf("full compile failed: %v", err)
	}
	if err := <-second; err != nil {
		t.Fatalf("waiter must receive the in-flight result, got: %v", err)
	}
	if got := atomic.LoadInt32(&css.calls); got != 1 {
		t.Errorf("waiter started its own run: css invoked %d times", got)
	}
}

func TestClearCache(t *testing.T) {
	cssDir := t.TempDir()
	jsDir := t.TempDir()

	artifacts := []string{
		filepath.Join(cssDir, "components.abc12345.css"),
		filepath.Join(jsDir, "nav.def67890.js"),
		filepath.Join(jsDir, pipeline.ManifestFileName),
	}
	for _, p := range artifacts {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	kept := filepath.Join(cssDir, "tailwind.css")
	if err := os.WriteFile(kept, []byte("@tailwind base;"), 0644); err != nil {
		t.Fatal(err)
	}

	css := &fakeCSS{out: "components.abc.css"}
	js := &fakeJS{res: &pipeline.BundleResult{}}
	c := New(css, js)
	if err := c.CompileFull(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := c.ClearCache(cssDir, jsDir, ClearAll); err != nil {
		t.Fatalf("clear cache failed: %v", err)
	}

	for _, p := range artifacts {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("expected %s to be removed", p)
		}
	}
	if _, err := os.Stat(kept); err != nil {
		t.Errorf("source entry stylesheet must survive a cache clear: %v", err)
	}
	if c.HasCompiled() {
		t.Error("clear cache must reset hasCompiled")
	}
}

func TestClearCachePreservesHandAuthoredFiles(t *testing.T) {
	cssDir := t.TempDir()
	jsDir := t.TempDir()

	handAuthored := []string{
		filepath.Join(jsDir, "vendor.min.js"),
		filepath.Join(jsDir, "jquery.slim.js"),
		filepath.Join(cssDir, "components.custom.css"),
		filepath.Join(cssDir, "tailwind.css"),
	}
	emitted := []string{
		filepath.Join(jsDir, "nav.def67890.js"),
		filepath.Join(jsDir, pipeline.ManifestFileName),
		filepath.Join(cssDir, "components.abc12345.css"),
	}
	for _, p := range append(append([]string{}, handAuthored...), emitted...) {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	c := New(&fakeCSS{}, &fakeJS{})
	if err := c.ClearCache(cssDir, jsDir, ClearAll); err != nil {
		t.Fatalf("clear cache failed: %v", err)
	}

	for _, p := range handAuthored {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("hand-authored %s must survive a cache clear: %v", filepath.Base(p), err)
		}
	}
	for _, p := range emitted {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("emitted artifact %s should be removed", filepath.Base(p))
		}
	}
}

func TestClearCacheScoped(t *testing.T) {
	cssDir := t.TempDir()
	jsDir := t.TempDir()

	cssArtifact := filepath.Join(cssDir, "components.abc12345.css")
	jsArtifact := filepath.Join(jsDir, "nav.def67890.js")
	for _, p := range []string{cssArtifact, jsArtifact} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	c := New(&fakeCSS{}, &fakeJS{})
	if err := c.ClearCache(cssDir, jsDir, ClearCSS); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(cssArtifact); !os.IsNotExist(err) {
		t.Error("css artifact should be removed by a css-scoped clear")
	}
	if _, err := os.Stat(jsArtifact); err != nil {
		t.Error("js artifact must survive a css-scoped clear")
	}
}
