// Package server exposes the roster over a REST control API and a websocket event stream
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lixenwraith/moodrig/blend"
	"github.com/lixenwraith/moodrig/character"
	"github.com/lixenwraith/moodrig/event"
	"github.com/lixenwraith/moodrig/parameter"
	"github.com/lixenwraith/moodrig/status"
)

// Server is the control surface of a host
// Handlers never touch a character directly: commands are queued for the host loop
// and reads come from published snapshots
type Server struct {
	addr   string
	roster *character.Roster
	reg    *status.Registry
	log    *slog.Logger

	app *fiber.App
	hub *Hub

	mu     sync.Mutex
	bound  string
	subs   map[*event.Bus][]event.SubscriptionID
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Server
type Option func(*Server)

// WithAddress sets the listen address
func WithAddress(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithStatus exposes reg on /api/status
func WithStatus(reg *status.Registry) Option {
	return func(s *Server) { s.reg = reg }
}

// New builds the routes over roster
func New(roster *character.Roster, opts ...Option) *Server {
	s := &Server{
		addr:   parameter.ServerAddress,
		roster: roster,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		subs:   make(map[*event.Bus][]event.SubscriptionID),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reg == nil {
		s.reg = status.NewRegistry()
	}
	s.hub = NewHub(s.log)

	app := fiber.New(fiber.Config{
		AppName:               "moodrig",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/instances", s.handleList)
	api.Get("/instances/:id", s.handleGet)
	api.Post("/instances/:id/mood", s.handleMood)
	api.Post("/instances/:id/emotes/:name", s.handleEmote)
	api.Post("/instances/:id/pause", s.handlePause)
	api.Post("/instances/:id/resume", s.handleResume)
	api.Post("/instances/:id/auto-emotes", s.handleAutoEmotes)
	api.Post("/instances/:id/body-parts", s.handleBodyPart)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEvents))

	s.app = app
	return s
}

// App exposes the fiber app for tests and embedding
func (s *Server) App() *fiber.App { return s.app }

// Hub returns the websocket fan-out
func (s *Server) Hub() *Hub { return s.hub }

// Attach streams every event of bus to websocket clients
func (s *Server) Attach(bus *event.Bus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[bus]; ok {
		return
	}
	s.subs[bus] = append(s.subs[bus], bus.SubscribeAll(s.forward))
}

// Detach stops streaming every attached bus
func (s *Server) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for bus, ids := range s.subs {
		for _, id := range ids {
			bus.Unsubscribe(id)
		}
	}
	clear(s.subs)
}

func (s *Server) forward(ev event.Event) {
	data, err := event.Encode(ev)
	if err != nil {
		s.log.Warn("event not encodable", "type", event.GetEventName(ev.Type), "error", err)
		return
	}
	s.hub.Broadcast(ev.InstanceID, data)
}

// Addr returns the bound listen address once serving, else the configured one
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bound != "" {
		return s.bound
	}
	return s.addr
}

// Serve runs the hub and accepts connections on ln until Shutdown
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.bound = ln.Addr().String()
	s.mu.Unlock()
	s.startHub()
	return s.app.Listener(ln)
}

// ListenAndServe runs the hub and listens on the configured address until Shutdown
func (s *Server) ListenAndServe() error {
	s.startHub()
	s.log.Info("control server listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

func (s *Server) startHub() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		s.hub.Run(ctx)
	}()
}

// Shutdown closes the listener, disconnects websocket clients and detaches from every bus
func (s *Server) Shutdown() error {
	s.Detach()

	// Stopping the hub first closes websocket clients so their handlers return
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
	return s.app.Shutdown()
}

// dispatch validates an inbound websocket command and queues it
func (s *Server) dispatch(msg CommandMessage) error {
	cmd, err := msg.Command()
	if err != nil {
		return err
	}
	return s.roster.Enqueue(msg.InstanceID, cmd)
}

func (s *Server) handleEvents(c *websocket.Conn) {
	newClient(s.hub, s, c, c.Query("instance")).run()
}

// errorHandler renders every error as JSON
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// httpError maps rig errors to status codes
func httpError(err error) error {
	switch {
	case errors.Is(err, character.ErrUnknownInstance), errors.Is(err, blend.ErrUnknownEmote):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, blend.ErrEmoteActive):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, character.ErrQueueFull):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, character.ErrDisposed), errors.Is(err, blend.ErrDisposed):
		return fiber.NewError(fiber.StatusGone, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusGatewayTimeout, err.Error())
	case errors.Is(err, ErrInvalidCommand):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fmt.Errorf("command failed: %w", err)
}
