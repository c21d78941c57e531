package server

import (
	"fmt"
	"net"

	"github.com/lixenwraith/moodrig/engine"
)

// Name implements service.Service
func (s *Server) Name() string { return "server" }

// Dependencies implements service.Service
func (s *Server) Dependencies() []string { return []string{"rig"} }

// Init implements service.Service
func (s *Server) Init() error { return nil }

// Start binds the listen address and serves in the background
// Bind errors are returned; later serve errors are logged
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.bound = ln.Addr().String()
	s.mu.Unlock()
	s.log.Info("control server listening", "addr", s.bound)
	engine.Go(func() {
		if err := s.Serve(ln); err != nil {
			s.log.Error("control server stopped", "error", err)
		}
	})
	return nil
}

// Stop implements service.Service
func (s *Server) Stop() error {
	return s.Shutdown()
}
