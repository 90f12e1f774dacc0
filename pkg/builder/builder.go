// Package builder assembles the orchestrator: strategy tables,
// debouncer, pipelines, coordinator, lifecycle hooks, watcher and
// reload channel, then drives generate passes.
package builder

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	bctx "github.com/Travisun/hexo-goose-builder/pkg/context"
	"github.com/Travisun/hexo-goose-builder/pkg/compiler"
	"github.com/Travisun/hexo-goose-builder/pkg/debounce"
	"github.com/Travisun/hexo-goose-builder/pkg/lifecycle"
	"github.com/Travisun/hexo-goose-builder/pkg/pipeline"
	"github.com/Travisun/hexo-goose-builder/pkg/reload"
	"github.com/Travisun/hexo-goose-builder/pkg/strategy"
	"github.com/Travisun/hexo-goose-builder/pkg/style"
	"github.com/Travisun/hexo-goose-builder/pkg/utils/executor"
	log2 "github.com/Travisun/hexo-goose-builder/pkg/utils/log"
	"github.com/Travisun/hexo-goose-builder/pkg/utils/version"
	"github.com/Travisun/hexo-goose-builder/pkg/watcher"
)

// Orchestrator is the fully wired build orchestrator for one process.
type Orchestrator struct {
	ctx    *bctx.BuilderContext
	logger log2.Logger

	themeDir    string
	siteDir     string
	serverMode  bool
	coordinator *compiler.Coordinator
	debouncer   *debounce.Debouncer
	broadcaster *reload.Broadcaster
	watch       *watcher.Watcher
	bus         *lifecycle.Bus
	mode        lifecycle.ModeHandler
}

// New wires an orchestrator for the given execution mode ("server" or
// "static"). Configuration errors are fatal here, before anything runs.
func New(builderCtx *bctx.BuilderContext, modeName string) (*Orchestrator, error) {
	build := &builderCtx.Config.Build

	themeDir, err := build.ResolveThemeDir()
	if err != nil {
		return nil, err
	}

	stratCfg := strategy.NewConfig(
		themeDir,
		strategy.UserPatterns{
			Ignore:      build.Strategy.Ignore,
			JSOnly:      build.Strategy.JSOnly,
			FullCompile: build.Strategy.FullCompile,
			CSSOnly:     build.Strategy.CSSOnly,
			Watch:       build.Strategy.Watch,
		},
		filepath.Join(build.SiteDir, "_config.yml"),
		filepath.Join(build.SiteDir, build.CSS.ConfigFile),
	)

	debouncer := debounce.New(stratCfg, time.Duration(build.DebounceMs)*time.Millisecond)

	coordinator := compiler.New(
		pipeline.NewTailwindCSS(build.SiteDir, themeDir, build.CSS),
		pipeline.NewEsbuildJS(themeDir, build.JS),
	)

	var broadcaster *reload.Broadcaster
	var notifier lifecycle.Notifier
	var reloader lifecycle.Reloader
	if modeName == "server" && build.Reload.Enabled {
		broadcaster = reload.NewBroadcaster(build.Reload.Host, build.Reload.Port)
		notifier = broadcaster
		reloader = broadcaster
	}

	var watch *watcher.Watcher
	var watcherCtl lifecycle.WatcherControl
	if modeName == "server" {
		watch = watcher.New(themeDir, []string{build.SiteDir}, func(eventType, path string) {
			debouncer.Record(path, eventType)
		})
		watcherCtl = watch
	}

	o := &Orchestrator{
		ctx:         builderCtx,
		logger:      builderCtx.Logger,
		themeDir:    themeDir,
		siteDir:     build.SiteDir,
		serverMode:  modeName == "server",
		coordinator: coordinator,
		debouncer:   debouncer,
		broadcaster: broadcaster,
		watch:       watch,
		bus:         lifecycle.NewBus(),
	}

	binder := lifecycle.NewBinder(coordinator, debouncer, notifier, watcherCtl, lifecycle.BinderConfig{
		ThemeDir:     themeDir,
		StagingDir:   filepath.Join(build.SiteDir, build.StagingDir),
		CSSOutputDir: filepath.Join(themeDir, build.CSS.OutputDir),
		JSOutputDir:  filepath.Join(themeDir, build.JS.OutputDir),
		Banner:       o.showBanner,
	})

	o.mode = lifecycle.ResolveMode(modeName, binder, reloader)
	o.mode.RegisterHooks(o.bus)
	return o, nil
}

// Coordinator exposes the compile coordinator, e.g. for cache clears.
func (o *Orchestrator) Coordinator() *compiler.Coordinator {
	return o.coordinator
}

// ArtifactDirs returns the css and js artifact directories.
func (o *Orchestrator) ArtifactDirs() (cssDir, jsDir string) {
	build := &o.ctx.Config.Build
	return filepath.Join(o.themeDir, build.CSS.OutputDir), filepath.Join(o.themeDir, build.JS.OutputDir)
}

// RunStatic performs one production build: compile gate, one generator
// pass, artifact staging. Any failure aborts with an error so the CLI
// exits non-zero.
func (o *Orchestrator) RunStatic(ctx context.Context) error {
	if err := o.mode.Initialize(ctx); err != nil {
		return err
	}
	defer o.mode.Cleanup(context.Background())

	return o.generatePass(ctx)
}

// RunServer boots server execution: initial compile, watcher and reload
// channel, then serves generate passes until ctx is cancelled. Compile
// failures of later passes are logged and retried on the next change;
// only startup failures are fatal.
func (o *Orchestrator) RunServer(ctx context.Context) error {
	if err := o.mode.Initialize(ctx); err != nil {
		return err
	}
	defer o.mode.Cleanup(context.Background())

	if err := o.bus.Emit(ctx, lifecycle.HookBeforeServerStart); err != nil {
		return err
	}
	if err := o.bus.Emit(ctx, lifecycle.HookReady); err != nil {
		return err
	}

	// Serve the initial content once the gate passed.
	if err := o.generatePass(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			o.logger.Info().Msg("shutting down")
			if o.watch != nil {
				o.watch.Stop()
			}
			o.debouncer.Stop()
			return nil
		case <-o.debouncer.C():
			if err := o.generatePass(ctx); err != nil {
				// The server keeps running; the next triggering event
				// retries compilation.
				o.logger.Error().Err(err).Msg("generate pass failed")
			}
		}
	}
}

// generatePass runs one full generate cycle: the compile gate, the
// host generator, then artifact staging.
func (o *Orchestrator) generatePass(ctx context.Context) error {
	if err := o.bus.Emit(ctx, lifecycle.HookBeforeGenerate); err != nil {
		return err
	}
	if err := o.runGenerator(ctx); err != nil {
		return err
	}
	return o.bus.Emit(ctx, lifecycle.HookAfterGenerate)
}

// runGenerator invokes the host static-site generator for one pass. A
// generator missing from PATH is a degraded mode only while serving; a
// one-shot build without a generator must fail, not exit green with no
// site.
func (o *Orchestrator) runGenerator(ctx context.Context) error {
	cmd := o.ctx.Config.Build.GenerateCommand
	if !executor.LookPath(cmd[0]) {
		if !o.serverMode {
			return fmt.Errorf("generator command %s not found in PATH", cmd[0])
		}
		o.logger.Warn().Str("command", cmd[0]).Msg("generator not found, skipping generate pass")
		return nil
	}

	started := time.Now()
	_, stderr, err := executor.NewExecutor(ctx, cmd[0], cmd[1:]...).
		WithDir(o.siteDir).
		Run()
	if err != nil {
		return fmt.Errorf("generator failed: %w\n%s", err, stderr)
	}
	o.logger.Info().Dur("elapsed", time.Since(started)).Msg("site generated")
	return nil
}

// showBanner prints the one-time ready banner.
func (o *Orchestrator) showBanner() {
	info := style.BannerInfo{
		Version:  version.Version,
		ThemeDir: o.themeDir,
		Watching: o.watch != nil && o.watch.IsRunning(),
	}
	if o.broadcaster != nil {
		info.ReloadPort = o.broadcaster.ConnectionInfo().Port
	}
	fmt.Println(style.Banner(info))
}
