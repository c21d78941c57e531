// Package expression drives the face atlas from mood changes on the event bus
package expression

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/lixenwraith/moodrig/engine"
	"github.com/lixenwraith/moodrig/event"
	"github.com/lixenwraith/moodrig/mood"
	"github.com/lixenwraith/moodrig/parameter"
	"github.com/lixenwraith/moodrig/sprite"
)

// TextureLoader resolves the atlas asset
type TextureLoader interface {
	LoadTexture(ctx context.Context, path string) (sprite.Texture, error)
}

// MaterialFinder locates the face material by name under a parent node
type MaterialFinder interface {
	FindMaterial(name, parent string) (sprite.Material, bool)
}

// Config describes the atlas and where it is bound
type Config struct {
	AtlasPath      string
	MaterialName   string
	MaterialParent string
	Rows           int
	Columns        int
}

// DefaultConfig returns the stock atlas layout
func DefaultConfig() Config {
	return Config{
		AtlasPath:      parameter.AtlasPath,
		MaterialName:   parameter.FaceMaterialName,
		MaterialParent: parameter.FaceMaterialParent,
		Rows:           parameter.AtlasRows,
		Columns:        parameter.AtlasColumns,
	}
}

type animation struct {
	def    sprite.Def
	frames []sprite.Frame
}

// Manager maps moods to sprite animations and plays one at a time on its own timer
// An Init failure leaves the manager uninitialized: playback becomes a logged no-op
type Manager struct {
	mu sync.Mutex

	cfg        Config
	instanceID string
	bus        *event.Bus
	loader     TextureLoader
	finder     MaterialFinder
	sched      engine.Scheduler
	log        *slog.Logger

	atlas       *sprite.AtlasTexture
	initialized bool
	anims       map[mood.Kind]animation
	current     *sprite.Controller
	currentKind mood.Kind
	paused      bool
	subs        []event.SubscriptionID
}

// Option configures a Manager
type Option func(*Manager)

// WithConfig overrides the atlas layout
func WithConfig(cfg Config) Option {
	return func(m *Manager) { m.cfg = cfg }
}

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// New creates an uninitialized manager for one instance
func New(instanceID string, bus *event.Bus, loader TextureLoader, finder MaterialFinder, sched engine.Scheduler, opts ...Option) *Manager {
	m := &Manager{
		cfg:        DefaultConfig(),
		instanceID: instanceID,
		bus:        bus,
		loader:     loader,
		finder:     finder,
		sched:      sched,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		anims:      make(map[mood.Kind]animation),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init loads the atlas, binds it to the face material and subscribes to the instance's events
// On failure the manager stays uninitialized and may be initialized again later
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	tex, err := m.loader.LoadTexture(ctx, m.cfg.AtlasPath)
	if err != nil {
		m.log.Error("atlas load failed", "path", m.cfg.AtlasPath, "error", err)
		return fmt.Errorf("load atlas: %w", err)
	}
	tex.SetNearestFilter()

	mat, ok := m.finder.FindMaterial(m.cfg.MaterialName, m.cfg.MaterialParent)
	if !ok {
		m.log.Error("face material not found", "material", m.cfg.MaterialName, "parent", m.cfg.MaterialParent)
		return fmt.Errorf("%w: %s/%s", ErrMaterialNotFound, m.cfg.MaterialParent, m.cfg.MaterialName)
	}

	m.atlas = sprite.NewAtlasTexture(m.cfg.Rows, m.cfg.Columns, tex, mat)
	m.subs = append(m.subs,
		m.bus.SubscribeInstance(event.EventBodyPartChanged, m.instanceID, m.handleBodyPartChanged),
		m.bus.SubscribeInstance(event.EventMoodChanged, m.instanceID, m.handleMoodChanged),
	)
	m.initialized = true
	m.log.Info("expression manager initialized", "atlas", m.cfg.AtlasPath, "grid", fmt.Sprintf("%dx%d", m.cfg.Rows, m.cfg.Columns))
	return nil
}

func (m *Manager) handleBodyPartChanged(ev event.Event) {
	mat, ok := m.finder.FindMaterial(m.cfg.MaterialName, m.cfg.MaterialParent)

	m.mu.Lock()
	atlas := m.atlas
	m.mu.Unlock()

	if !ok || atlas == nil {
		m.log.Warn("face material rebind skipped", "found", ok)
		return
	}
	atlas.UpdateMaterial(mat)
	m.log.Debug("face material rebound", "material", mat.Name())
}

func (m *Manager) handleMoodChanged(ev event.Event) {
	var dominant string
	switch p := ev.Payload.(type) {
	case *event.MoodChangedPayload:
		dominant = p.Dominant
	case event.MoodChangedPayload:
		dominant = p.Dominant
	default:
		return
	}
	if dominant == "" {
		return
	}

	kind, ok := mood.ParseKind(dominant)
	if !ok {
		m.log.Warn("mood change with unknown dominant kind", "dominant", dominant)
		return
	}
	m.PlayAnimation(kind, nil)
}

// RegisterAnimation validates def and stores it under its kind, replacing any earlier definition
func (m *Manager) RegisterAnimation(def sprite.Def) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	frames, err := def.Resolve(m.cfg.Columns)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	if def.FPS <= 0 {
		return fmt.Errorf("%w: %s: %w", ErrInvalidDefinition, def.Kind, sprite.ErrInvalidFPS)
	}

	m.anims[def.Kind] = animation{def: def, frames: frames}
	return nil
}

// RegisterAnimations registers every definition, stopping at the first error
func (m *Manager) RegisterAnimations(defs ...sprite.Def) error {
	for _, d := range defs {
		if err := m.RegisterAnimation(d); err != nil {
			return err
		}
	}
	return nil
}

// PlayAnimation stops the running animation and starts the one registered for kind
// A no-op when the atlas is not initialized or kind is unregistered
func (m *Manager) PlayAnimation(kind mood.Kind, onComplete func()) {
	m.mu.Lock()

	if !m.initialized || m.atlas == nil {
		m.mu.Unlock()
		m.log.Warn("expression manager not initialized, sprite playback skipped", "mood", kind.String())
		return
	}

	anim, ok := m.anims[kind]
	if !ok {
		m.mu.Unlock()
		m.log.Warn("sprite animation not registered, skipped", "mood", kind.String())
		return
	}

	m.stopLocked()

	atlas := m.atlas
	ctrl, err := sprite.NewController(anim.frames, anim.def.FPS, anim.def.Loop, m.sched, atlas.UpdateFrame)
	if err != nil {
		m.mu.Unlock()
		m.log.Error("sprite controller rejected", "mood", kind.String(), "error", err)
		return
	}
	if m.paused {
		ctrl.Pause()
	}
	m.current = ctrl
	m.currentKind = kind
	ctrl.Start(onComplete)
	m.mu.Unlock()

	m.bus.Emit(event.Event{
		Type:       event.EventExpressionChanged,
		InstanceID: m.instanceID,
		Payload: &event.ExpressionChangedPayload{
			Mood:   kind.String(),
			Frames: len(anim.frames),
			FPS:    int(anim.def.FPS),
		},
	})
}

// Pause holds the face on its current frame; animations started while paused begin paused
func (m *Manager) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = true
	if m.current != nil {
		m.current.Pause()
	}
}

// Resume continues the face animation
func (m *Manager) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = false
	if m.current != nil {
		m.current.Resume()
	}
}

// Stop halts the running animation
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if m.current != nil {
		m.current.Stop()
		m.current = nil
	}
}

// Dispose stops playback, releases the atlas clone and drops the bus subscriptions
func (m *Manager) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()
	for _, id := range m.subs {
		m.bus.Unsubscribe(id)
	}
	m.subs = nil
	if m.atlas != nil {
		m.atlas.Dispose()
		m.atlas = nil
	}
	m.initialized = false
}

// Initialized reports whether Init succeeded
func (m *Manager) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// Paused reports the face pause state
func (m *Manager) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// Current returns the kind of the running animation
func (m *Manager) Current() (mood.Kind, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return 0, false
	}
	return m.currentKind, true
}

// Controller returns the running sprite controller, nil when stopped
func (m *Manager) Controller() *sprite.Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Frame returns the frame last written to the atlas
func (m *Manager) Frame() (sprite.Frame, bool) {
	m.mu.Lock()
	atlas := m.atlas
	m.mu.Unlock()
	if atlas == nil {
		return sprite.Frame{}, false
	}
	return atlas.Frame(), true
}

// Atlas returns the bound atlas texture, nil before Init
func (m *Manager) Atlas() *sprite.AtlasTexture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.atlas
}

// Registered reports whether kind has an animation
func (m *Manager) Registered(kind mood.Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.anims[kind]
	return ok
}
