package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type recordedEvent struct {
	eventType string
	path      string
}

func TestWatcherDeliversEvents(t *testing.T) {
	root := t.TempDir()
	events := make(chan recordedEvent, 64)

	w := New(root, nil, func(eventType, path string) {
		events <- recordedEvent{eventType, path}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsRunning() {
		t.Fatal("expected the watcher to be running")
	}

	target := filepath.Join(root, "tailwind.css")
	if err := os.WriteFile(target, []byte("@tailwind base;"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.path == target && (ev.eventType == "add" || ev.eventType == "change") {
				return
			}
		case <-deadline:
			t.Fatal("no event delivered for the created file")
		}
	}
}

func TestWatcherStartIsIdempotent(t *testing.T) {
	root := t.TempDir()
	w := New(root, nil, func(string, string) {})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("second Start must be a no-op, got %v", err)
	}
}

func TestWatcherIgnoresSkippedDirs(t *testing.T) {
	root := t.TempDir()
	gitDir := filepath.Join(root, ".git")
	if err := os.MkdirAll(gitDir, 0755); err != nil {
		t.Fatal(err)
	}

	events := make(chan recordedEvent, 64)
	w := New(root, nil, func(eventType, path string) {
		events <- recordedEvent{eventType, path}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		if strings.Contains(ev.path, ".git") {
			t.Errorf("events under .git must be dropped, got %+v", ev)
		}
	case <-time.After(500 * time.Millisecond):
		// no event is the expected outcome
	}
}
