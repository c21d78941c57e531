package host

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/lixenwraith/moodrig/character"
	"github.com/lixenwraith/moodrig/config"
	"github.com/lixenwraith/moodrig/engine"
	"github.com/lixenwraith/moodrig/event"
	"github.com/lixenwraith/moodrig/parameter"
	"github.com/lixenwraith/moodrig/status"
)

// RigService hosts the roster and drives it from one frame loop goroutine
type RigService struct {
	cfg    config.Config
	log    *slog.Logger
	reg    *status.Registry
	cues   character.CueSink
	bus    *event.Bus
	roster *character.Roster
	clock  engine.TimeProvider

	mu     sync.Mutex
	loop   *engine.FrameLoop
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRigService creates the service; characters are built on Init
// cues may be nil
func NewRigService(cfg config.Config, reg *status.Registry, cues character.CueSink, log *slog.Logger) *RigService {
	return &RigService{
		cfg:    cfg,
		log:    log,
		reg:    reg,
		cues:   cues,
		bus:    event.NewBus(),
		roster: character.NewRoster(),
		clock:  engine.NewMonotonicTimeProvider(),
	}
}

// Name implements service.Service
func (s *RigService) Name() string { return "rig" }

// Dependencies implements service.Service
func (s *RigService) Dependencies() []string { return []string{"status", "audio"} }

// Init builds and initializes cfg.Instances characters on the shared bus
func (s *RigService) Init() error {
	for i := 0; i < s.cfg.Instances; i++ {
		opts := []character.Option{
			character.WithBus(s.bus),
			character.WithClock(s.clock),
			character.WithLogger(s.log),
			character.WithBlendConfig(s.cfg.Blend()),
			character.WithExpressionConfig(s.cfg.Expression()),
			character.WithSpriteFPS(s.cfg.SpriteFPS),
			character.WithStatus(s.reg),
		}
		if s.cfg.Seed != 0 {
			opts = append(opts, character.WithRandom(rand.New(rand.NewSource(s.cfg.Seed+int64(i)))))
		}
		if s.cues != nil {
			opts = append(opts, character.WithCueSink(s.cues))
		}

		ch := character.New(character.NewMixerRig(character.DefaultClips), opts...)
		if err := ch.Init(context.Background()); err != nil {
			ch.Dispose()
			return fmt.Errorf("init character %d: %w", i, err)
		}
		ch.ToggleAutoEmotes(s.cfg.AutoEmotes)
		if err := s.roster.Add(ch); err != nil {
			ch.Dispose()
			return err
		}
		s.log.Info("character ready", "instance", ch.ID())
	}
	return nil
}

// Start runs the frame loop
func (s *RigService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.loop = engine.NewFrameLoop(s.cfg.FrameInterval, parameter.MaxFrameDelta, s.clock, s.roster.Update)

	loop, done := s.loop, s.done
	engine.Go(func() {
		defer close(done)
		loop.Run(ctx)
	})
	return nil
}

// Stop halts the loop and disposes every character
func (s *RigService) Stop() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	s.roster.DisposeAll()
	return nil
}

// Bus returns the bus shared by every hosted character
func (s *RigService) Bus() *event.Bus { return s.bus }

// Roster returns the hosted characters
func (s *RigService) Roster() *character.Roster { return s.roster }

// Frames returns the number of host frames run, zero before Start
func (s *RigService) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loop == nil {
		return 0
	}
	return s.loop.Frames()
}
