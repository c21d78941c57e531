package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/lixenwraith/moodrig/character"
	"github.com/lixenwraith/moodrig/parameter"
)

// ErrInvalidCommand is returned for inbound frames that do not describe a command
var ErrInvalidCommand = errors.New("invalid command")

// CommandMessage is an inbound websocket command
type CommandMessage struct {
	Op         string  `json:"op"`
	InstanceID string  `json:"instance_id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Name       string  `json:"name,omitempty"`
	Part       string  `json:"part,omitempty"`
	Enabled    bool    `json:"enabled"`
}

// Command converts the message into a queued character command
func (m CommandMessage) Command() (character.Command, error) {
	op, ok := character.ParseOp(m.Op)
	if !ok {
		return character.Command{}, fmt.Errorf("%w: unknown op %q", ErrInvalidCommand, m.Op)
	}
	switch op {
	case character.OpSetMood:
		if !finite(m.X) || !finite(m.Y) {
			return character.Command{}, fmt.Errorf("%w: mood coordinate must be finite", ErrInvalidCommand)
		}
		return character.SetMood(m.X, m.Y), nil
	case character.OpPlayEmote:
		if m.Name == "" {
			return character.Command{}, fmt.Errorf("%w: emote name required", ErrInvalidCommand)
		}
		return character.PlayEmote(m.Name), nil
	case character.OpPause:
		return character.Pause(), nil
	case character.OpResume:
		return character.Resume(), nil
	case character.OpToggleAutoEmotes:
		return character.ToggleAutoEmotes(m.Enabled), nil
	case character.OpBodyPartChanged:
		return character.BodyPartChanged(m.Part, m.Name), nil
	}
	return character.Command{}, fmt.Errorf("%w: op %q", ErrInvalidCommand, m.Op)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// errorMessage is written back to the sender of a rejected command
type errorMessage struct {
	Type  string `json:"type"`
	Op    string `json:"op"`
	Error string `json:"error"`
}

// client is one websocket connection
// send belongs to the hub, which closes it on drop; replies belongs to the client
type client struct {
	hub     *Hub
	srv     *Server
	conn    *websocket.Conn
	send    chan []byte
	replies chan []byte
	filter  string
}

func newClient(h *Hub, srv *Server, conn *websocket.Conn, filter string) *client {
	return &client{
		hub:     h,
		srv:     srv,
		conn:    conn,
		send:    make(chan []byte, parameter.ClientSendBuffer),
		replies: make(chan []byte, parameter.ClientReplyBuffer),
		filter:  filter,
	}
}

// run pumps until the connection closes
func (c *client) run() {
	if !c.hub.join(c) {
		c.conn.Close()
		return
	}
	go c.writePump()
	c.readPump()
}

// readPump decodes inbound commands and detects disconnection
func (c *client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(parameter.WSMaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(parameter.WSPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(parameter.WSPongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.handle(data)
	}
}

func (c *client) handle(data []byte) {
	var msg CommandMessage
	err := json.Unmarshal(data, &msg)
	if err == nil {
		err = c.srv.dispatch(msg)
	}
	if err == nil {
		return
	}

	c.srv.log.Debug("ws command rejected", "op", msg.Op, "instance", msg.InstanceID, "error", err)
	reply, mErr := json.Marshal(errorMessage{Type: "error", Op: msg.Op, Error: err.Error()})
	if mErr != nil {
		return
	}
	select {
	case c.replies <- reply:
	default:
	}
}

// writePump is the only writer of the connection
func (c *client) writePump() {
	ticker := time.NewTicker(parameter.WSPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(parameter.WSWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case data := <-c.replies:
			c.conn.SetWriteDeadline(time.Now().Add(parameter.WSWriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(parameter.WSWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
