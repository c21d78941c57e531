package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lixenwraith/moodrig/parameter"
)

// message is one encoded frame for websocket clients
// instanceID scopes delivery for filtered clients, "" reaches everyone
type message struct {
	instanceID string
	data       []byte
}

// Hub fans encoded events out to websocket clients
// Run owns the client set; every other goroutine talks to it over channels
type Hub struct {
	log *slog.Logger

	clients    map[*client]bool
	broadcast  chan message
	register   chan *client
	unregister chan *client

	done     chan struct{}
	doneOnce sync.Once

	mu    sync.RWMutex
	count int
}

// NewHub creates a stopped hub
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*client]bool),
		broadcast:  make(chan message, parameter.HubBroadcastBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until ctx is done
// A hub runs once; Done is closed when Run returns
func (h *Hub) Run(ctx context.Context) {
	select {
	case <-h.done:
		return
	default:
	}
	defer h.doneOnce.Do(func() { close(h.done) })

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			h.setCount()
			h.log.Debug("ws client connected", "filter", c.filter, "clients", len(h.clients))

		case c := <-h.unregister:
			if h.clients[c] {
				h.drop(c)
			}
			h.log.Debug("ws client disconnected", "clients", len(h.clients))

		case msg := <-h.broadcast:
			for c := range h.clients {
				if c.filter != "" && msg.instanceID != "" && c.filter != msg.instanceID {
					continue
				}
				select {
				case c.send <- msg.data:
				default:
					// Too slow to keep up
					h.drop(c)
					h.log.Warn("dropped slow ws client")
				}
			}
		}
	}
}

// Done is closed once Run has returned
func (h *Hub) Done() <-chan struct{} { return h.done }

// join registers c, reporting false when the hub has stopped
func (h *Hub) join(c *client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave unregisters c; a stopped hub has already dropped it
func (h *Hub) leave(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.setCount()
}

func (h *Hub) setCount() {
	h.mu.Lock()
	h.count = len(h.clients)
	h.mu.Unlock()
}

// Broadcast queues data for every client, dropping it when the hub is backed up
func (h *Hub) Broadcast(instanceID string, data []byte) bool {
	select {
	case h.broadcast <- message{instanceID: instanceID, data: data}:
		return true
	default:
		h.log.Warn("ws broadcast buffer full, event dropped")
		return false
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}
