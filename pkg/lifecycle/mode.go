package lifecycle

import (
	"context"
	"fmt"
)

// ModeHandler is the capability interface every execution mode
// implements. The set of modes is closed and resolved once at startup.
type ModeHandler interface {
	Initialize(ctx context.Context) error
	RegisterHooks(bus *Bus)
	OnMissingAssets(ctx context.Context) error
	Cleanup(ctx context.Context) error
}

// Reloader is the lifecycle-level view of the reload broadcaster.
type Reloader interface {
	Start() error
	Stop(ctx context.Context) error
}

// ServerMode runs the watcher, the reload channel and the full hook
// set for long-lived development serving.
type ServerMode struct {
	binder   *Binder
	reloader Reloader // nil when live reload is disabled
}

// Initialize starts the reload channel.
func (m *ServerMode) Initialize(ctx context.Context) error {
	if m.reloader != nil {
		if err := m.reloader.Start(); err != nil {
			return fmt.Errorf("failed to start reload server: %w", err)
		}
	}
	return nil
}

// RegisterHooks binds the full server hook set.
func (m *ServerMode) RegisterHooks(bus *Bus) {
	m.binder.BindServerHooks(bus)
}

// OnMissingAssets forces a full recompile.
func (m *ServerMode) OnMissingAssets(ctx context.Context) error {
	return m.binder.coordinator.CompileFull(ctx)
}

// Cleanup stops the reload channel.
func (m *ServerMode) Cleanup(ctx context.Context) error {
	if m.reloader != nil {
		return m.reloader.Stop(ctx)
	}
	return nil
}

// StaticMode runs one generate pass with no watcher and no reload
// channel.
type StaticMode struct {
	binder *Binder
}

// Initialize is a no-op; a one-shot build has nothing long-lived.
func (m *StaticMode) Initialize(ctx context.Context) error { return nil }

// RegisterHooks binds the generate-pass hooks only.
func (m *StaticMode) RegisterHooks(bus *Bus) {
	m.binder.BindStaticHooks(bus)
}

// OnMissingAssets forces a full recompile.
func (m *StaticMode) OnMissingAssets(ctx context.Context) error {
	return m.binder.coordinator.CompileFull(ctx)
}

// Cleanup is a no-op.
func (m *StaticMode) Cleanup(ctx context.Context) error { return nil }

// UnsupportedMode rejects execution under a mode name this builder
// does not implement.
type UnsupportedMode struct {
	Name string
}

// Initialize always fails.
func (m *UnsupportedMode) Initialize(ctx context.Context) error {
	return fmt.Errorf("unsupported execution mode: %s", m.Name)
}

// RegisterHooks registers nothing.
func (m *UnsupportedMode) RegisterHooks(bus *Bus) {}

// OnMissingAssets always fails.
func (m *UnsupportedMode) OnMissingAssets(ctx context.Context) error {
	return fmt.Errorf("unsupported execution mode: %s", m.Name)
}

// Cleanup is a no-op.
func (m *UnsupportedMode) Cleanup(ctx context.Context) error { return nil }

// ResolveMode picks the handler for a mode name, once at startup.
func ResolveMode(name string, binder *Binder, reloader Reloader) ModeHandler {
	switch name {
	case "server":
		return &ServerMode{binder: binder, reloader: reloader}
	case "static":
		return &StaticMode{binder: binder}
	default:
		return &UnsupportedMode{Name: name}
	}
}
