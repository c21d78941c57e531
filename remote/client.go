// Package remote follows a host's event stream and sends it commands over the websocket
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/moodrig/event"
	"github.com/lixenwraith/moodrig/server"
)

const (
	handshakeTimeout = 10 * time.Second
	writeWait        = 10 * time.Second
	eventBuffer      = 256
)

// ErrClosed is returned by Send after Close
var ErrClosed = errors.New("remote client closed")

// Client is a websocket connection to a host's /ws/events
type Client struct {
	ws  *websocket.Conn
	log *slog.Logger

	wsMu   sync.Mutex // serializes writes
	events chan event.Event
	errs   chan string
	done   chan struct{}
	once   sync.Once
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// EventsURL builds the stream address from a host base URL, optionally filtered to one instance
func EventsURL(base, instanceID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse host url: %w", err)
	}
	switch u.Scheme {
	case "http", "":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws/events"
	if instanceID != "" {
		q := u.Query()
		q.Set("instance", instanceID)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Dial connects to the stream at wsURL and starts reading
func Dial(ctx context.Context, wsURL string, opts ...Option) (*Client, error) {
	c := &Client{
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		events: make(chan event.Event, eventBuffer),
		errs:   make(chan string, 16),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	ws, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", wsURL, err)
	}
	c.ws = ws

	// Server pings keep the read deadline fresh
	ws.SetPingHandler(func(appData string) error {
		c.wsMu.Lock()
		defer c.wsMu.Unlock()
		return ws.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeWait))
	})

	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	defer close(c.events)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.log.Warn("event stream closed", "error", err)
			}
			return
		}

		var probe struct {
			Type  string `json:"type"`
			Error string `json:"error"`
		}
		if err := json.Unmarshal(data, &probe); err == nil && probe.Type == "error" {
			select {
			case c.errs <- probe.Error:
			default:
			}
			continue
		}

		ev, err := event.Decode(data)
		if err != nil {
			c.log.Debug("undecodable frame skipped", "error", err)
			continue
		}
		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}

// Events delivers decoded events; closed when the connection ends
func (c *Client) Events() <-chan event.Event { return c.events }

// Rejections delivers error replies to commands sent on this connection
func (c *Client) Rejections() <-chan string { return c.errs }

// Send writes a command frame
func (c *Client) Send(msg server.CommandMessage) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.wsMu.Lock()
	defer c.wsMu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(msg)
}

// Close sends a close frame and tears the connection down
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		c.wsMu.Lock()
		c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		c.wsMu.Unlock()
		err = c.ws.Close()
	})
	return err
}
