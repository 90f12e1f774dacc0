// Package watcher wraps fsnotify with recursive directory
// registration and automatic restart on watcher errors.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log2 "github.com/Travisun/hexo-goose-builder/pkg/utils/log"
)

// restartBackoff is the fixed delay before a failed watcher is rebuilt.
const restartBackoff = 2 * time.Second

// EventFunc receives (eventType, absolutePath) for every relevant
// filesystem event. eventType is one of add, change, unlink.
type EventFunc func(eventType, absolutePath string)

// skippedDirs never get registered; they only produce noise.
var skippedDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	".cache":       {},
}

// Watcher monitors a root directory tree and forwards events.
type Watcher struct {
	root    string
	shallow []string
	onEvent EventFunc
	logger  log2.Logger

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	running bool
}

// New creates a watcher for the given root tree. shallow directories
// are watched without recursion — the site root is registered this way
// so changes to the site-level config files are seen without pulling
// in the generator's own output tree. Events are delivered to onEvent
// from the watcher goroutine.
func New(root string, shallow []string, onEvent EventFunc) *Watcher {
	return &Watcher{
		root:    root,
		shallow: shallow,
		onEvent: onEvent,
		logger:  log2.GetLogger(),
	}
}

// IsRunning reports whether the event loop is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Start registers the directory tree and launches the event loop. It
// is idempotent; a running watcher is left alone.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := addTree(fsw, w.root); err != nil {
		_ = fsw.Close()
		w.mu.Unlock()
		return err
	}
	for _, dir := range w.shallow {
		if err := fsw.Add(dir); err != nil {
			w.logger.Warn().Str("dir", dir).Err(err).Msg("failed to watch directory")
		}
	}

	w.fsw = fsw
	w.running = true
	w.mu.Unlock()

	w.logger.Info().Str("root", w.root).Msg("file watcher started")
	go w.loop(ctx, fsw)
	return nil
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	if w.fsw != nil {
		_ = w.fsw.Close()
		w.fsw = nil
	}
}

// loop forwards events until the watcher closes or ctx is cancelled.
// Watcher errors restart the whole watcher after a fixed backoff; they
// are never fatal to the orchestrator.
func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("watcher error, restarting")
			w.restart(ctx)
			return
		}
	}
}

// restart rebuilds the watcher after the backoff, unless ctx ended.
func (w *Watcher) restart(ctx context.Context) {
	w.Stop()
	select {
	case <-ctx.Done():
		return
	case <-time.After(restartBackoff):
	}
	if err := w.Start(ctx); err != nil {
		w.logger.Error().Err(err).Msg("watcher restart failed")
	}
}

// handle translates an fsnotify event into an (eventType, path)
// callback. Chmod-only events never affect build output.
func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	if isSkippedPath(event.Name) {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		// New directories get registered so nested changes keep arriving.
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.mu.Lock()
			if w.fsw != nil {
				if err := w.fsw.Add(event.Name); err != nil {
					w.logger.Warn().Str("dir", event.Name).Err(err).Msg("failed to watch new directory")
				}
			}
			w.mu.Unlock()
			return
		}
		w.onEvent("add", event.Name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.onEvent("unlink", event.Name)
	case event.Has(fsnotify.Write):
		w.onEvent("change", event.Name)
	}
}

// addTree registers root and all non-skipped subdirectories.
func addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if _, skip := skippedDirs[d.Name()]; skip && path != root {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func isSkippedPath(path string) bool {
	slashed := filepath.ToSlash(path)
	for dir := range skippedDirs {
		if strings.Contains(slashed, "/"+dir+"/") || strings.HasSuffix(slashed, "/"+dir) {
			return true
		}
	}
	return false
}
