package remote

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"bannerloop/internal/eventbus"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second

	// commands are tiny JSON objects
	maxMessageSize = 1024
)

// Client is one websocket connection registered with a Hub
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	once sync.Once

	// commands decoded by the read pump go here
	bus eventbus.Publisher

	remoteAddr string
	logger     *slog.Logger
}

// NewClient creates a client with a buffered send queue
func NewClient(hub *Hub, conn *websocket.Conn, bus eventbus.Publisher, remoteAddr string, logger *slog.Logger) *Client {
	sendBuf := 16
	if hub != nil && hub.sendBuf > 0 {
		sendBuf = hub.sendBuf
	}
	if bus == nil {
		bus = eventbus.Discard{}
	}
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBuf),
		bus:        bus,
		remoteAddr: remoteAddr,
		logger:     logger,
	}
}

func (c *Client) closeSend() {
	c.once.Do(func() { close(c.send) })
}

// closeStatus extracts the websocket close code and text when present
func closeStatus(err error) (code int, text string, ok bool) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, ce.Text, true
	}
	return 0, "", false
}

func (c *Client) logExit(pump string, err error) {
	if errors.Is(err, websocket.ErrCloseSent) {
		return
	}
	if code, text, ok := closeStatus(err); ok {
		c.logger.Debug("remote pump exiting", "pump", pump, "remote_addr", c.remoteAddr, "code", code, "reason", text)
		return
	}
	c.logger.Debug("remote pump exiting", "pump", pump, "remote_addr", c.remoteAddr, "error", err)
}

// writePump drains the send queue onto the socket and keeps the peer alive
// with pings. It exits on write error or when send is closed.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logExit("write", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logExit("ping", err)
				return
			}
		}
	}
}

// readPump decodes commands from the peer and publishes them on the bus.
// Malformed commands are logged and skipped. On read error the client
// unregisters itself.
func (c *Client) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.logExit("read", err)
			if c.hub != nil {
				c.hub.Unregister(c)
			}
			return
		}

		cmd, err := ParseCommand(data)
		if err != nil {
			c.logger.Warn("remote command rejected", "remote_addr", c.remoteAddr, "error", err)
			continue
		}
		c.logger.Debug("remote command", "remote_addr", c.remoteAddr, "action", cmd.Action, "index", cmd.Index)
		c.bus.Publish(cmd)
	}
}
