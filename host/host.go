// Package host assembles a rig process from its services: status, audio, the character roster and the control server
package host

import (
	"fmt"
	"log/slog"

	"github.com/lixenwraith/moodrig/config"
	"github.com/lixenwraith/moodrig/server"
	"github.com/lixenwraith/moodrig/service"
	"github.com/lixenwraith/moodrig/status"
)

// Host is a wired set of services
type Host struct {
	Hub    *service.Hub
	Status *status.Service
	Audio  *AudioService
	Rig    *RigService
	// Server is nil when cfg.ServerAddress is empty
	Server *server.Server
}

// New registers every service cfg asks for without initializing any of them
func New(cfg config.Config, log *slog.Logger) (*Host, error) {
	h := &Host{
		Hub:    service.NewHub(),
		Status: status.NewService(),
		Audio:  NewAudioService(cfg.Audio, log.With("service", "audio")),
	}
	h.Rig = NewRigService(cfg, h.Status.Registry(), h.Audio.Player(), log.With("service", "rig"))

	services := []service.Service{h.Status, h.Audio, h.Rig}
	if cfg.ServerAddress != "" {
		h.Server = server.New(h.Rig.Roster(),
			server.WithAddress(cfg.ServerAddress),
			server.WithStatus(h.Status.Registry()),
			server.WithLogger(log.With("service", "server")),
		)
		h.Server.Attach(h.Rig.Bus())
		services = append(services, h.Server)
	}

	for _, svc := range services {
		if err := h.Hub.Register(svc); err != nil {
			return nil, fmt.Errorf("register %s: %w", svc.Name(), err)
		}
	}
	return h, nil
}

// Start initializes then starts every service in dependency order
func (h *Host) Start() error {
	if err := h.Hub.InitAll(); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if err := h.Hub.StartAll(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	return nil
}

// Stop stops every started service in reverse order
func (h *Host) Stop() error {
	return h.Hub.StopAll()
}
