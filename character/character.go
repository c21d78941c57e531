// Package character wires the blend controller and the expression manager of one character instance
package character

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/moodrig/blend"
	"github.com/lixenwraith/moodrig/engine"
	"github.com/lixenwraith/moodrig/event"
	"github.com/lixenwraith/moodrig/expression"
	"github.com/lixenwraith/moodrig/mood"
	"github.com/lixenwraith/moodrig/parameter"
	"github.com/lixenwraith/moodrig/sprite"
	"github.com/lixenwraith/moodrig/status"
	"github.com/lixenwraith/moodrig/track"
)

// CueSink receives audible feedback requests; audio.CuePlayer satisfies it
type CueSink interface {
	EmoteCue(kind mood.Kind, additive bool)
	MoodCue(kind mood.Kind)
}

// Character coordinates the body blend and the face of one instance
// Mutating methods belong to the host goroutine; other goroutines use Enqueue or Submit,
// and read state through Snapshot
type Character struct {
	id     string
	bus    *event.Bus
	rig    Rig
	blend  *blend.Controller
	expr   *expression.Manager
	cues   CueSink
	reg    *status.Registry
	log    *slog.Logger
	queue  *commandQueue
	emotes []string

	// Construction options, consumed by New
	sched     engine.Scheduler
	clock     engine.TimeProvider
	rng       blend.Random
	blendCfg  blend.Config
	exprCfg   expression.Config
	loader    expression.TextureLoader
	finder    expression.MaterialFinder
	spriteFPS float64

	subs         []event.SubscriptionID
	sincePublish time.Duration
	snapshot     atomic.Pointer[Snapshot]
	disposed     atomic.Bool
	metrics      metrics
}

// metrics caches registry pointers so publishing never touches the map
type metrics struct {
	x, y       *status.AtomicFloat
	emoteW     *status.AtomicFloat
	state      *status.AtomicString
	dominant   *status.AtomicString
	emote      *status.AtomicString
	face       *status.AtomicString
	paused     *atomic.Bool
	auto       *atomic.Bool
	emoteCount *atomic.Int64
	moodMoves  *atomic.Int64
	commands   *atomic.Int64
}

// Option configures a Character
type Option func(*Character)

// WithID sets the instance id; a uuid is generated otherwise
func WithID(id string) Option {
	return func(c *Character) { c.id = id }
}

// WithBus shares an event bus between instances
func WithBus(bus *event.Bus) Option {
	return func(c *Character) { c.bus = bus }
}

// WithScheduler sets the face animation timer source
func WithScheduler(s engine.Scheduler) Option {
	return func(c *Character) { c.sched = s }
}

// WithClock sets the wall clock used by the auto emote interval gate
func WithClock(clock engine.TimeProvider) Option {
	return func(c *Character) { c.clock = clock }
}

// WithRandom sets the auto emote randomness source
func WithRandom(rng blend.Random) Option {
	return func(c *Character) { c.rng = rng }
}

// WithLogger sets the logger; the instance id is attached
func WithLogger(log *slog.Logger) Option {
	return func(c *Character) { c.log = log }
}

// WithBlendConfig overrides the blend tuning
func WithBlendConfig(cfg blend.Config) Option {
	return func(c *Character) { c.blendCfg = cfg }
}

// WithExpressionConfig overrides the atlas layout
func WithExpressionConfig(cfg expression.Config) Option {
	return func(c *Character) { c.exprCfg = cfg }
}

// WithTextureLoader sets the atlas loader
func WithTextureLoader(l expression.TextureLoader) Option {
	return func(c *Character) { c.loader = l }
}

// WithMaterialFinder sets the face material lookup
func WithMaterialFinder(f expression.MaterialFinder) Option {
	return func(c *Character) { c.finder = f }
}

// WithCueSink enables audio cues
func WithCueSink(s CueSink) Option {
	return func(c *Character) { c.cues = s }
}

// WithStatus publishes metrics into reg
func WithStatus(reg *status.Registry) Option {
	return func(c *Character) { c.reg = reg }
}

// WithSpriteFPS sets the face animation rate
func WithSpriteFPS(fps float64) Option {
	return func(c *Character) { c.spriteFPS = fps }
}

// New builds a character over rig
// Anchors missing their idle clip are skipped with a warning
func New(rig Rig, opts ...Option) *Character {
	c := &Character{
		rig:       rig,
		blendCfg:  blend.DefaultConfig(),
		exprCfg:   expression.DefaultConfig(),
		spriteFPS: parameter.SpriteFPS,
		queue:     newCommandQueue(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.id == "" {
		c.id = uuid.NewString()
	}
	if c.bus == nil {
		c.bus = event.NewBus()
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.log = c.log.With("instance", c.id)
	if c.sched == nil {
		c.sched = engine.NewRealScheduler()
	}
	if c.clock == nil {
		c.clock = engine.NewMonotonicTimeProvider()
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.loader == nil {
		c.loader = &expression.MemoryLoader{}
	}
	if c.finder == nil {
		c.finder = expression.NewMemoryScene(
			sprite.NewMemoryMaterial(c.exprCfg.MaterialName, c.exprCfg.MaterialParent),
		)
	}

	c.blend = blend.New(rig, c.blendCfg,
		blend.WithClock(c.clock),
		blend.WithRandom(c.rng),
		blend.WithLogger(c.log),
		blend.WithHooks(c.onEmoteStart, c.onEmoteFinish),
	)
	c.registerAnchors()

	c.expr = expression.New(c.id, c.bus, c.loader, c.finder, c.sched,
		expression.WithConfig(c.exprCfg),
		expression.WithLogger(c.log),
	)

	if c.reg != nil {
		c.bindMetrics()
	}
	c.subs = append(c.subs,
		c.bus.SubscribeInstance(event.EventMoodChanged, c.id, c.logEvent),
		c.bus.SubscribeInstance(event.EventBodyPartChanged, c.id, c.logEvent),
	)
	c.snapshot.Store(&Snapshot{ID: c.id, AutoEmotes: true})
	return c
}

// registerAnchors builds idle and emote tracks from the rig clips
func (c *Character) registerAnchors() {
	names := c.rig.ClipNames()
	for _, anchor := range DefaultAnchors {
		clip, ok := c.rig.Clip(anchor.Idle)
		if !ok {
			c.log.Warn("idle clip missing, anchor skipped", "mood", anchor.Kind.String(), "clip", anchor.Idle)
			continue
		}

		var emotes []*track.Track
		for _, name := range EmotesFor(anchor.Kind, names) {
			ec, ok := c.rig.Clip(name)
			if !ok {
				continue
			}
			if IsAdditiveClip(name) {
				emotes = append(emotes, track.NewAdditiveEmote(anchor.Kind, ec))
			} else {
				emotes = append(emotes, track.NewEmote(anchor.Kind, ec))
			}
			c.emotes = append(c.emotes, name)
		}

		c.blend.AddMood(anchor.Kind, anchor.X, anchor.Y, track.New(anchor.Kind, clip), emotes...)
		c.log.Debug("mood anchor registered", "mood", anchor.Kind.String(), "idle", anchor.Idle, "emotes", len(emotes))
	}
}

func (c *Character) bindMetrics() {
	key := func(name string) string { return status.Key(c.id, name) }
	c.metrics = metrics{
		x:          c.reg.Floats.Get(key("mood.x")),
		y:          c.reg.Floats.Get(key("mood.y")),
		emoteW:     c.reg.Floats.Get(key("emote.weight")),
		state:      c.reg.Strings.Get(key("blend.state")),
		dominant:   c.reg.Strings.Get(key("mood.dominant")),
		emote:      c.reg.Strings.Get(key("emote.active")),
		face:       c.reg.Strings.Get(key("face.mood")),
		paused:     c.reg.Bools.Get(key("paused")),
		auto:       c.reg.Bools.Get(key("auto_emotes")),
		emoteCount: c.reg.Ints.Get(key("emote.count")),
		moodMoves:  c.reg.Ints.Get(key("mood.changes")),
		commands:   c.reg.Ints.Get(key("commands")),
	}
}

func (c *Character) logEvent(ev event.Event) {
	c.log.Debug("event", "type", event.GetEventName(ev.Type), "payload", ev.Payload)
}

// ID returns the instance id
func (c *Character) ID() string { return c.id }

// Bus returns the event bus the instance publishes on
func (c *Character) Bus() *event.Bus { return c.bus }

// Blend exposes the body controller
func (c *Character) Blend() *blend.Controller { return c.blend }

// Expression exposes the face manager
func (c *Character) Expression() *expression.Manager { return c.expr }

// Init sets up the face, plays the entrance and places the mood at the origin
// A face failure only degrades the face; the body keeps working
func (c *Character) Init(ctx context.Context) error {
	if c.disposed.Load() {
		return ErrDisposed
	}

	if err := c.expr.Init(ctx); err != nil {
		c.log.Error("face unavailable, continuing without sprite animation", "error", err)
	}
	if err := c.expr.RegisterAnimations(DefaultSprites(c.spriteFPS, c.exprCfg.Columns)...); err != nil {
		c.log.Error("sprite table rejected", "error", err)
	}
	c.expr.PlayAnimation(mood.Idle, nil)

	c.playEntrance()
	c.SetMood(0, 0)
	c.publish()
	c.log.Info("character initialized", "anchors", len(c.blend.Space().Anchors()), "emotes", len(c.emotes))
	return nil
}

// playEntrance runs the entrance clip once at full weight, fading out over its length
func (c *Character) playEntrance() {
	clip, ok := c.rig.Clip(parameter.EntranceClipName)
	if !ok {
		c.log.Debug("no entrance clip")
		return
	}
	clip.SetLoop(track.LoopOnce, 1)
	clip.SetWeight(1)
	clip.Play()
	clip.FadeOut(clip.Duration())
}

// Update applies queued commands, advances the blend by dt and publishes state
func (c *Character) Update(dt time.Duration) {
	if c.disposed.Load() {
		return
	}

	cmds := c.queue.Drain()
	for _, cmd := range cmds {
		err := c.apply(cmd)
		if err != nil {
			c.log.Debug("command rejected", "op", cmd.Op.String(), "error", err)
		}
		if cmd.Result != nil {
			select {
			case cmd.Result <- err:
			default:
			}
		}
	}
	if c.reg != nil && len(cmds) > 0 {
		c.metrics.commands.Add(int64(len(cmds)))
	}

	c.blend.Update(dt)

	c.sincePublish += dt
	if len(cmds) > 0 || c.sincePublish >= parameter.StatusPublishInterval {
		c.publish()
	}
}

func (c *Character) apply(cmd Command) error {
	switch cmd.Op {
	case OpSetMood:
		c.SetMood(cmd.X, cmd.Y)
		return nil
	case OpPlayEmote:
		return c.PlayEmote(cmd.Name)
	case OpPause:
		c.Pause()
		return nil
	case OpResume:
		c.Resume()
		return nil
	case OpToggleAutoEmotes:
		c.ToggleAutoEmotes(cmd.Enabled)
		return nil
	case OpBodyPartChanged:
		c.NotifyBodyPartChanged(cmd.Name, cmd.PartName)
		return nil
	}
	return ErrUnknownOp
}

// Enqueue hands cmd to the host goroutine; safe from any goroutine
func (c *Character) Enqueue(cmd Command) error {
	if c.disposed.Load() {
		return ErrDisposed
	}
	if !c.queue.Push(cmd) {
		return ErrQueueFull
	}
	return nil
}

// Submit enqueues cmd and waits for the host goroutine to apply it
func (c *Character) Submit(ctx context.Context, cmd Command) error {
	cmd.Result = make(chan error, 1)
	if err := c.Enqueue(cmd); err != nil {
		return err
	}
	select {
	case err := <-cmd.Result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetMood moves the mood coordinate and announces the dominant idle kind
// No event is emitted when the coordinate is unchanged
func (c *Character) SetMood(x, y float64) {
	if c.disposed.Load() {
		return
	}
	if !c.blend.SetMoodPosition(x, y) {
		return
	}

	kind := mood.Idle
	if tr, ok := c.blend.Dominant(); ok {
		kind = tr.Mood()
	}

	c.bus.Emit(event.Event{
		Type:       event.EventMoodChanged,
		InstanceID: c.id,
		Payload:    &event.MoodChangedPayload{X: x, Y: y, Dominant: kind.String()},
	})
	if c.cues != nil {
		c.cues.MoodCue(kind)
	}
	if c.reg != nil {
		c.metrics.moodMoves.Add(1)
	}
}

// PlayEmote starts a named emote; a paused character resumes body and face first
func (c *Character) PlayEmote(name string) error {
	if err := c.blend.PlayEmote(name); err != nil {
		return err
	}
	if c.expr.Paused() {
		c.expr.Resume()
		c.emitToggled(false)
	}
	return nil
}

// Pause freezes body and face
func (c *Character) Pause() {
	if c.disposed.Load() {
		return
	}
	c.blend.Pause()
	c.expr.Pause()
	c.emitToggled(true)
}

// Resume continues body and face
func (c *Character) Resume() {
	if c.disposed.Load() {
		return
	}
	c.blend.Resume()
	c.expr.Resume()
	c.emitToggled(false)
}

func (c *Character) emitToggled(paused bool) {
	c.bus.Emit(event.Event{
		Type:       event.EventPlaybackToggled,
		InstanceID: c.id,
		Payload:    &event.PlaybackToggledPayload{Paused: paused},
	})
}

// ToggleAutoEmotes enables or disables the blend update
func (c *Character) ToggleAutoEmotes(enabled bool) {
	c.blend.ToggleAutoEmotes(enabled)
	c.log.Info("auto emotes toggled", "enabled", enabled)
}

// NotifyBodyPartChanged announces a swapped body part so the face rebinds its material
func (c *Character) NotifyBodyPartChanged(kind, name string) {
	c.bus.Emit(event.Event{
		Type:       event.EventBodyPartChanged,
		InstanceID: c.id,
		Payload:    &event.BodyPartChangedPayload{PartKind: kind, PartName: name},
	})
}

func (c *Character) onEmoteStart(emote *track.Track, auto bool) {
	c.bus.Emit(event.Event{
		Type:       event.EventEmoteStarted,
		InstanceID: c.id,
		Payload: &event.EmoteStartedPayload{
			Name:     emote.Name(),
			Mood:     emote.Mood().String(),
			Additive: emote.IsAdditive(),
			Auto:     auto,
		},
	})
	if c.cues != nil {
		c.cues.EmoteCue(emote.Mood(), emote.IsAdditive())
	}
	if c.reg != nil {
		c.metrics.emoteCount.Add(1)
	}
}

func (c *Character) onEmoteFinish(emote *track.Track, cancelled bool) {
	c.bus.Emit(event.Event{
		Type:       event.EventEmoteFinished,
		InstanceID: c.id,
		Payload:    &event.EmoteFinishedPayload{Name: emote.Name(), Cancelled: cancelled},
	})
}

// Emotes returns every registered emote name
func (c *Character) Emotes() []string {
	return append([]string(nil), c.emotes...)
}

// Disposed reports whether Dispose was called
func (c *Character) Disposed() bool { return c.disposed.Load() }

// Dispose releases tracks, the face atlas and every subscription
func (c *Character) Dispose() {
	if c.disposed.Swap(true) {
		return
	}
	c.blend.Dispose()
	c.expr.Dispose()
	for _, id := range c.subs {
		c.bus.Unsubscribe(id)
	}
	c.subs = nil
	if c.reg != nil {
		c.reg.Forget(c.id)
	}

	snap := *c.snapshot.Load()
	snap.Disposed = true
	c.snapshot.Store(&snap)
	c.log.Info("character disposed")
}
