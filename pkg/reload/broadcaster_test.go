package reload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/Travisun/hexo-goose-builder/pkg/strategy"
)

func startBroadcaster(t *testing.T) *Broadcaster {
	t.Helper()
	b := NewBroadcaster("127.0.0.1", 0) // ephemeral port
	if err := b.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = b.Stop(ctx)
	})
	return b
}

func waitForClients(t *testing.T, b *Broadcaster, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for b.ConnectionInfo().ClientCount != want {
		select {
		case <-deadline:
			t.Fatalf("client count never reached %d, have %d", want, b.ConnectionInfo().ClientCount)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNotifyWithNoClientsIsNoop(t *testing.T) {
	b := startBroadcaster(t)

	info := b.ConnectionInfo()
	if !info.IsRunning || info.Port == 0 {
		t.Fatalf("expected a running server on a bound port, got %+v", info)
	}

	// Must not panic or block.
	b.Notify(strategy.Full, "layout/index.ejs")
}

func TestNotifyReachesConnectedClient(t *testing.T) {
	b := startBroadcaster(t)
	port := b.ConnectionInfo().Port

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://127.0.0.1:%d/livereload", port), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	waitForClients(t, b, 1)

	b.Notify(strategy.CSSOnly, "layout/tailwind.css")

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var note Notification
	if err := conn.ReadJSON(&note); err != nil {
		t.Fatal(err)
	}

	if note.Event != "reload" {
		t.Errorf("expected reload event, got %q", note.Event)
	}
	if note.Strategy != "css-only" {
		t.Errorf("expected css-only strategy, got %q", note.Strategy)
	}
	if note.ChangedFile != "layout/tailwind.css" {
		t.Errorf("unexpected changed file %q", note.ChangedFile)
	}
	if note.Timestamp == 0 {
		t.Error("expected a timestamp")
	}
}

func TestClientDisconnectUpdatesCount(t *testing.T) {
	b := startBroadcaster(t)
	port := b.ConnectionInfo().Port

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://127.0.0.1:%d/livereload", port), nil)
	if err != nil {
		t.Fatal(err)
	}
	waitForClients(t, b, 1)

	_ = conn.Close()
	waitForClients(t, b, 0)
}

func TestBootstrapScriptEmbedsPort(t *testing.T) {
	b := startBroadcaster(t)
	port := b.ConnectionInfo().Port

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/livereload.js", port))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), fmt.Sprintf(":%d/livereload", port)) {
		t.Errorf("bootstrap script does not embed the bound port:\n%s", body)
	}
}
