// Package debounce coalesces bursts of file changes into a single
// pending compilation request.
package debounce

import (
	"sync"
	"time"

	"github.com/Travisun/hexo-goose-builder/pkg/strategy"
)

// DefaultQuietWindow is the baseline quiet window between the last
// qualifying change and the compile trigger.
const DefaultQuietWindow = 300 * time.Millisecond

// PendingChange is the single surviving change of a quiet window.
// Later changes inside the window overwrite it (last write wins); only
// the latest path and strategy are kept.
type PendingChange struct {
	Path       string
	Strategy   strategy.CompileStrategy
	RecordedAt time.Time
}

// Debouncer owns the quiet-window timer and the pending-change slot.
// Record may be called from the watcher goroutine while TakePending is
// called from the drain side; one mutex guards both.
type Debouncer struct {
	config *strategy.Config
	window time.Duration

	mu      sync.Mutex
	pending *PendingChange
	timer   *time.Timer

	// fires once per elapsed quiet window; buffered so an unconsumed
	// signal coalesces with the next instead of blocking the timer.
	signal chan struct{}
}

// New creates a debouncer resolving strategies against config. A
// non-positive window falls back to DefaultQuietWindow.
func New(config *strategy.Config, window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultQuietWindow
	}
	return &Debouncer{
		config: config,
		window: window,
		signal: make(chan struct{}, 1),
	}
}

// C fires after a quiet window elapses with a pending change recorded.
// The serve loop consumes it to trigger a generate pass.
func (d *Debouncer) C() <-chan struct{} {
	return d.signal
}

// Record classifies the change and, unless it resolves to Skip,
// overwrites the pending slot and restarts the quiet-window timer.
// It returns the resolved strategy.
func (d *Debouncer) Record(path string, eventType string) strategy.CompileStrategy {
	st := strategy.Resolve(path, d.config)
	if st == strategy.Skip {
		return st
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = &PendingChange{
		Path:       path,
		Strategy:   st,
		RecordedAt: time.Now(),
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)

	return st
}

// fire signals the consumer that the quiet window elapsed.
func (d *Debouncer) fire() {
	select {
	case d.signal <- struct{}{}:
	default:
	}
}

// HasPending reports whether a change is waiting to be drained.
func (d *Debouncer) HasPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// TakePending atomically returns and clears the pending slot, or nil
// when nothing is pending.
func (d *Debouncer) TakePending() *PendingChange {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.pending
	d.pending = nil
	return p
}

// Stop cancels the quiet-window timer. Pending state is left intact so
// an already-recorded change can still be drained.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
