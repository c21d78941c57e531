package host

import (
	"log/slog"

	"github.com/lixenwraith/moodrig/audio"
	"github.com/lixenwraith/moodrig/engine"
)

// AudioService owns the cue player
// A missing audio device is logged and the player stays silent
type AudioService struct {
	enabled bool
	log     *slog.Logger
	player  *audio.CuePlayer
}

// NewAudioService creates the service; enabled false keeps the device closed
func NewAudioService(enabled bool, log *slog.Logger) *AudioService {
	return &AudioService{
		enabled: enabled,
		log:     log,
		player:  audio.NewCuePlayer(engine.NewMonotonicTimeProvider()),
	}
}

// Name implements service.Service
func (s *AudioService) Name() string { return "audio" }

// Dependencies implements service.Service
func (s *AudioService) Dependencies() []string { return nil }

// Init opens the speaker when enabled
func (s *AudioService) Init() error {
	if !s.enabled {
		s.player.SetEnabled(false)
		return nil
	}
	if err := s.player.Initialize(); err != nil {
		s.log.Warn("audio unavailable, cues muted", "error", err)
		s.player.SetEnabled(false)
	}
	return nil
}

// Start implements service.Service
func (s *AudioService) Start() error { return nil }

// Stop closes the speaker
func (s *AudioService) Stop() error {
	s.player.Cleanup()
	return nil
}

// Player returns the cue sink handed to characters
func (s *AudioService) Player() *audio.CuePlayer { return s.player }
