// Package reload notifies connected browser clients over a websocket
// channel after a successful compile. Delivery is fire-and-forget: no
// acknowledgement, no retry, and late subscribers simply miss earlier
// notifications.
package reload

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/Travisun/hexo-goose-builder/pkg/strategy"
	log2 "github.com/Travisun/hexo-goose-builder/pkg/utils/log"
)

// Notification is the structured message pushed to every client.
type Notification struct {
	Event       string `json:"event"`
	Strategy    string `json:"strategy"`
	ChangedFile string `json:"changed_file"`
	Message     string `json:"message"`
	Timestamp   int64  `json:"timestamp"`
}

// ConnectionInfo is the externally reported server state, e.g. for
// embedding the port in the client bootstrap script.
type ConnectionInfo struct {
	Port        int
	IsRunning   bool
	ClientCount int
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Broadcaster is the live-reload websocket server. One instance serves
// many subscriber connections over a single shared channel.
type Broadcaster struct {
	host   string
	port   int
	logger log2.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	server  *http.Server
	running bool
}

// NewBroadcaster creates a broadcaster bound to host:port.
func NewBroadcaster(host string, port int) *Broadcaster {
	return &Broadcaster{
		host:    host,
		port:    port,
		logger:  log2.GetLogger(),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Start begins accepting subscriber connections. It returns once the
// listener is bound; serving continues in the background.
func (b *Broadcaster) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/livereload", b.handleSubscribe)
	mux.HandleFunc("/livereload.js", b.handleScript)

	addr := fmt.Sprintf("%s:%d", b.host, b.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind reload server on %s: %w", addr, err)
	}
	// Re-read the port so port 0 reports the bound one.
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		b.port = tcp.Port
	}

	b.server = &http.Server{Handler: mux}
	b.running = true

	go func() {
		if err := b.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			b.logger.Error().Err(err).Msg("reload server stopped")
		}
	}()

	b.logger.Info().Str("addr", addr).Msg("live reload server listening")
	return nil
}

// Stop closes all client connections and shuts the server down.
func (b *Broadcaster) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return nil
	}
	b.running = false
	server := b.server
	for conn := range b.clients {
		_ = conn.Close()
	}
	b.clients = make(map[*websocket.Conn]struct{})
	b.mu.Unlock()

	return server.Shutdown(ctx)
}

// handleSubscribe upgrades a connection and tracks it until it closes.
func (b *Broadcaster) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Debug().Err(err).Msg("reload subscribe upgrade failed")
		return
	}

	b.mu.Lock()
	b.clients[conn] = struct{}{}
	count := len(b.clients)
	b.mu.Unlock()
	b.logger.Debug().Int("clients", count).Msg("reload client connected")

	// Drain reads so close frames are processed.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				break
			}
		}
		b.mu.Lock()
		delete(b.clients, conn)
		b.mu.Unlock()
		_ = conn.Close()
		b.logger.Debug().Msg("reload client disconnected")
	}()
}

// Notify broadcasts a reload notification for the given strategy and
// changed file. It is a no-op with zero connected clients; write
// failures drop the client and are never surfaced to the caller.
func (b *Broadcaster) Notify(st strategy.CompileStrategy, changedFile string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.clients) == 0 {
		return
	}

	note := Notification{
		Event:       "reload",
		Strategy:    st.String(),
		ChangedFile: changedFile,
		Message:     fmt.Sprintf("recompiled (%s) after change to %s", st, changedFile),
		Timestamp:   time.Now().UnixMilli(),
	}

	for conn := range b.clients {
		if err := conn.WriteJSON(note); err != nil {
			b.logger.Debug().Err(err).Msg("dropping unresponsive reload client")
			delete(b.clients, conn)
			_ = conn.Close()
		}
	}
	b.logger.Info().Str("strategy", note.Strategy).Str("file", changedFile).
		Int("clients", len(b.clients)).Msg("reload notification sent")
}

// ConnectionInfo reports the current server state.
func (b *Broadcaster) ConnectionInfo() ConnectionInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ConnectionInfo{
		Port:        b.port,
		IsRunning:   b.running,
		ClientCount: len(b.clients),
	}
}

// handleScript serves the client bootstrap script with the bound port
// embedded, so themes can include a single static script tag.
func (b *Broadcaster) handleScript(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	port := b.port
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/javascript")
	fmt.Fprintf(w, bootstrapScript, port)
}

const bootstrapScript = `(function () {
  var ws = new WebSocket("ws://" + location.hostname + ":%d/livereload");
  ws.onmessage = function (msg) {
    var note = JSON.parse(msg.data);
    if (note.event === "reload") {
      location.reload();
    }
  };
})();
`
