package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"github.com/Travisun/hexo-goose-builder/pkg/assets"
	"github.com/Travisun/hexo-goose-builder/pkg/compiler"
	"github.com/Travisun/hexo-goose-builder/pkg/debounce"
	"github.com/Travisun/hexo-goose-builder/pkg/strategy"
	log2 "github.com/Travisun/hexo-goose-builder/pkg/utils/log"
)

// Notifier pushes a reload notification after a successful drained
// compile. The websocket broadcaster implements it; nil disables it.
type Notifier interface {
	Notify(st strategy.CompileStrategy, changedFile string)
}

// WatcherControl is the subset of the file watcher the binder manages.
type WatcherControl interface {
	Start(ctx context.Context) error
	IsRunning() bool
}

// BinderConfig carries the directory layout and the ready banner.
type BinderConfig struct {
	ThemeDir     string
	StagingDir   string
	CSSOutputDir string // absolute css artifact directory
	JSOutputDir  string // absolute js artifact directory
	Banner       func() // shown once on ready; nil skips it
}

// Binder registers the orchestrator's behavior into the lifecycle
// hooks. The before-generate hook is the single authoritative compile
// gate: no other hook may be relied on to guarantee assets exist
// before content is emitted.
type Binder struct {
	coordinator *compiler.Coordinator
	debouncer   *debounce.Debouncer
	notifier    Notifier
	watcher     WatcherControl
	cfg         BinderConfig
	logger      log2.Logger

	bannerOnce sync.Once
}

// NewBinder wires the coordinator and debouncer into a binder. notifier
// and watcher may be nil for one-shot (static) execution.
func NewBinder(coordinator *compiler.Coordinator, debouncer *debounce.Debouncer, notifier Notifier, watcher WatcherControl, cfg BinderConfig) *Binder {
	return &Binder{
		coordinator: coordinator,
		debouncer:   debouncer,
		notifier:    notifier,
		watcher:     watcher,
		cfg:         cfg,
		logger:      log2.GetLogger(),
	}
}

// BindServerHooks registers all four callbacks for server execution.
func (b *Binder) BindServerHooks(bus *Bus) {
	bus.On(HookBeforeServerStart, b.onBeforeServerStart)
	bus.On(HookReady, b.onReady)
	bus.Register(HookBeforeGenerate, b.onBeforeGenerate, PriorityFirst)
	bus.On(HookAfterGenerate, b.onAfterGenerate)
}

// BindStaticHooks registers the generate-pass callbacks only; a
// one-shot build has no server or watcher phases.
func (b *Binder) BindStaticHooks(bus *Bus) {
	bus.Register(HookBeforeGenerate, b.onBeforeGenerate, PriorityFirst)
	bus.On(HookAfterGenerate, b.onAfterGenerate)
}

// onBeforeServerStart clears caches, forces a full compile and ensures
// the watcher is active. Any failure is fatal: the server must not
// start serving stale or missing assets.
func (b *Binder) onBeforeServerStart(ctx context.Context) error {
	if err := b.coordinator.ClearCache(b.cfg.CSSOutputDir, b.cfg.JSOutputDir, compiler.ClearAll); err != nil {
		return err
	}
	if err := b.coordinator.CompileFull(ctx); err != nil {
		return err
	}
	if b.watcher != nil {
		if err := b.watcher.Start(ctx); err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}
	return nil
}

// onReady shows the status banner once and, for server execution,
// starts the watcher if it is not already running.
func (b *Binder) onReady(ctx context.Context) error {
	b.bannerOnce.Do(func() {
		if b.cfg.Banner != nil {
			b.cfg.Banner()
		}
	})
	if b.watcher != nil && !b.watcher.IsRunning() {
		if err := b.watcher.Start(ctx); err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}
	return nil
}

// onBeforeGenerate drains a pending change and runs the matching
// compile, or forces a full compile when none has ever succeeded.
// Compile errors propagate and abort the generate pass.
func (b *Binder) onBeforeGenerate(ctx context.Context) error {
	if pending := b.debouncer.TakePending(); pending != nil {
		if err := b.compilePending(ctx, pending); err != nil {
			return err
		}
		if b.notifier != nil {
			b.notifier.Notify(pending.Strategy, pending.Path)
		}
		return nil
	}

	if !b.coordinator.HasCompiled() {
		return b.coordinator.CompileFull(ctx)
	}
	return nil
}

func (b *Binder) compilePending(ctx context.Context, pending *debounce.PendingChange) error {
	b.logger.Info().Str("strategy", pending.Strategy.String()).
		Str("file", pending.Path).Msg("compiling pending change")

	switch pending.Strategy {
	case strategy.Full:
		return b.coordinator.CompileFull(ctx)
	case strategy.CSSOnly:
		return b.coordinator.CompileCSSOnly(ctx)
	case strategy.JSOnly:
		return b.coordinator.CompileJSOnly(ctx)
	default:
		return nil
	}
}

// onAfterGenerate stages artifacts into the generator output,
// best-effort: generation already succeeded, so failures are logged.
func (b *Binder) onAfterGenerate(ctx context.Context) error {
	if err := assets.Stage(b.cfg.ThemeDir, b.cfg.StagingDir); err != nil {
		b.logger.Warn().Err(err).Msg("failed to stage build artifacts")
	}
	return nil
}
