// Package remote streams the carousel position to websocket clients and
// accepts navigation commands from them.
//
// Commands never touch the controller directly: they are published on the
// event bus and the terminal program applies them on its own loop.
package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"bannerloop/internal/domain"
	"bannerloop/internal/eventbus"
	"bannerloop/internal/log"
)

const shutdownTimeout = 5 * time.Second

// ServerConfig configures a Server
type ServerConfig struct {
	Hub HubConfig
	// Path of the websocket endpoint, "/ws" when empty
	Path string
}

// Server owns the hub and the HTTP endpoint that upgrades clients
type Server struct {
	logger *slog.Logger
	hub    *Hub
	bus    eventbus.Publisher
	path   string
	now    func() time.Time

	mu   sync.Mutex
	last *domain.Position
}

var upgrader = websocket.Upgrader{
	// the endpoint is meant for local dashboards
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewServer constructs a server. A nil logger uses the process logger and a
// nil bus discards commands.
func NewServer(logger *slog.Logger, bus eventbus.Publisher, cfg ServerConfig) *Server {
	if logger == nil {
		logger = log.Logger()
	}
	if bus == nil {
		bus = eventbus.Discard{}
	}
	path := cfg.Path
	if path == "" {
		path = "/ws"
	}
	return &Server{
		logger: logger,
		hub:    NewHub(logger, cfg.Hub),
		bus:    bus,
		path:   path,
		now:    time.Now,
	}
}

// Hub returns the server's hub
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns a mux serving the websocket endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleWS)
	return mux
}

// PublishPosition remembers p and broadcasts it to every client
func (s *Server) PublishPosition(p domain.Position) {
	s.mu.Lock()
	s.last = &p
	s.mu.Unlock()

	msg, err := encodeIndex(p, s.now())
	if err != nil {
		s.logger.Warn("remote encode failed", "error", err)
		return
	}
	s.hub.BroadcastBytes(msg)
}

// Position returns the last published position
func (s *Server) Position() (domain.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return domain.Position{}, false
	}
	return *s.last, true
}

// handleWS upgrades a client, queues the current position and registers it
// before any pump runs
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("remote upgrade failed", "error", err)
		return
	}

	client := NewClient(s.hub, conn, s.bus, r.RemoteAddr, s.logger)

	// Holding mu orders the snapshot against PublishPosition: a position
	// published after it reaches the client through the hub.
	s.mu.Lock()
	if s.last != nil {
		if msg, err := encodeIndex(*s.last, s.now()); err == nil {
			client.send <- msg
		}
	}
	ok := s.hub.Register(client)
	s.mu.Unlock()
	if !ok {
		_ = conn.Close()
		return
	}

	// pumps outlive the request; the hub and socket errors end them
	go client.writePump()
	go client.readPump()
}

// Serve runs the hub and an HTTP server on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	hubCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		s.hub.Run(hubCtx)
	}()

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.logger.Info("remote listening", "addr", ln.Addr().String(), "path", s.path)

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("remote shutdown error", "error", err)
	}
	cancel()
	<-hubDone

	if serveErr != nil {
		return fmt.Errorf("remote server: %w", serveErr)
	}
	return nil
}

// ListenAndServe listens on addr and calls Serve
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}
