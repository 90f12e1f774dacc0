// Package lifecycle binds the compile orchestration into the host
// generator's lifecycle phases.
package lifecycle

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Hook names the lifecycle phases the host generator fires.
type Hook string

const (
	// HookReady fires once the host finished booting.
	HookReady Hook = "ready"
	// HookBeforeServerStart fires before the dev server begins serving.
	HookBeforeServerStart Hook = "before_server_start"
	// HookBeforeGenerate fires before any content emission of a pass.
	HookBeforeGenerate Hook = "before_generate"
	// HookAfterGenerate fires after a pass emitted its content.
	HookAfterGenerate Hook = "after_generate"
)

// PriorityFirst sorts a handler ahead of every default registration.
const (
	PriorityFirst   = 0
	PriorityDefault = 10
)

// Callback is a hook handler. A returned error aborts the phase.
type Callback func(ctx context.Context) error

type registration struct {
	cb       Callback
	priority int
	seq      int
}

// Bus is the named-hook registry. Handlers run in ascending priority
// order, registration order breaking ties, and the first error aborts
// the phase.
type Bus struct {
	mu       sync.Mutex
	handlers map[Hook][]registration
	seq      int
}

// NewBus creates an empty hook bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Hook][]registration)}
}

// On registers cb at the default priority.
func (b *Bus) On(hook Hook, cb Callback) {
	b.Register(hook, cb, PriorityDefault)
}

// Register registers cb with an explicit priority; lower runs earlier.
func (b *Bus) Register(hook Hook, cb Callback, priority int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	b.handlers[hook] = append(b.handlers[hook], registration{
		cb:       cb,
		priority: priority,
		seq:      b.seq,
	})
}

// Emit fires all handlers of a hook in deterministic order. The first
// handler error aborts the phase and is returned.
func (b *Bus) Emit(ctx context.Context, hook Hook) error {
	b.mu.Lock()
	regs := make([]registration, len(b.handlers[hook]))
	copy(regs, b.handlers[hook])
	b.mu.Unlock()

	sort.SliceStable(regs, func(i, j int) bool {
		if regs[i].priority != regs[j].priority {
			return regs[i].priority < regs[j].priority
		}
		return regs[i].seq < regs[j].seq
	})

	for _, reg := range regs {
		if err := reg.cb(ctx); err != nil {
			return fmt.Errorf("hook %s aborted: %w", hook, err)
		}
	}
	return nil
}
