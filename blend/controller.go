// Package blend mixes looping idle tracks by mood coordinate and layers one-shot emotes on top
package blend

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/lixenwraith/moodrig/engine"
	"github.com/lixenwraith/moodrig/mood"
	"github.com/lixenwraith/moodrig/track"
)

// Player is the clip-playback clock the controller advances
// OnLoop delivers loop boundaries of repeating clips, synchronously from inside Update
type Player interface {
	Update(dt time.Duration)
	OnLoop(fn func(track.Clip))
}

// Random is the randomness source for auto emotes; *rand.Rand satisfies it
type Random interface {
	Float64() float64
	Intn(n int) int
}

// StartHook is called when an emote begins its transition in
type StartHook func(emote *track.Track, auto bool)

// FinishHook is called when an emote leaves control, cancelled on mood change or dispose
type FinishHook func(emote *track.Track, cancelled bool)

// Controller owns the idle blend and the emote state machine of one character
// Not safe for concurrent use: the host frame loop is the only caller
type Controller struct {
	cfg    Config
	space  *mood.Space[*track.Track]
	player Player
	clock  engine.TimeProvider
	rng    Random
	log    *slog.Logger

	idle   []*track.Track // registration order
	emotes map[string]*track.Track

	// Blend state
	position    mood.Vec2
	positionSet bool
	stableTime  time.Duration
	lastChange  time.Time
	sinceEmote  time.Duration
	current     []*track.Track // idle tracks of the last query, nearest first
	paused      bool
	autoEmotes  bool
	disposed    bool

	// Emote state
	state     State
	pending   *track.Track
	syncTrack *track.Track
	active    *track.Track
	auto      bool
	fade      time.Duration
	original  map[*track.Track]float64
	tasks     []*transition

	onStart  StartHook
	onFinish FinishHook
}

// Option configures a Controller
type Option func(*Controller)

// WithClock injects the wall clock used for the mood-change interval gate
func WithClock(clock engine.TimeProvider) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithRandom injects the auto emote randomness source
func WithRandom(rng Random) Option {
	return func(c *Controller) { c.rng = rng }
}

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithHooks sets the emote start and finish callbacks
func WithHooks(onStart StartHook, onFinish FinishHook) Option {
	return func(c *Controller) {
		c.onStart = onStart
		c.onFinish = onFinish
	}
}

// New creates a controller driving player
func New(player Player, cfg Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:        cfg,
		space:      mood.NewSpaceWithPenalty[*track.Track](mood.Idle, cfg.NeutralPenalty),
		player:     player,
		clock:      engine.NewMonotonicTimeProvider(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		emotes:     make(map[string]*track.Track),
		autoEmotes: true,
		original:   make(map[*track.Track]float64),
	}
	for _, opt := range opts {
		opt(c)
	}
	player.OnLoop(c.HandleLoop)
	return c
}

// AddMood registers an anchor with its idle track and emotes
// A duplicate kind replaces the previous anchor
func (c *Controller) AddMood(kind mood.Kind, x, y float64, idle *track.Track, emotes ...*track.Track) {
	if prev, ok := c.space.Anchor(kind); ok {
		for i, tr := range c.idle {
			if tr == prev.Idle {
				c.idle = append(c.idle[:i], c.idle[i+1:]...)
				break
			}
		}
		for _, e := range prev.Emotes {
			if c.emotes[e.Name()] == e {
				delete(c.emotes, e.Name())
			}
		}
	}
	c.space.AddAnchor(kind, x, y, idle, emotes...)
	c.idle = append(c.idle, idle)
	for _, e := range emotes {
		c.emotes[e.Name()] = e
	}
}

// Space exposes the mood space for inspection
func (c *Controller) Space() *mood.Space[*track.Track] {
	return c.space
}

// Emote looks up a registered emote track by clip name
func (c *Controller) Emote(name string) (*track.Track, bool) {
	e, ok := c.emotes[name]
	return e, ok
}

// Update advances the controller by one frame
func (c *Controller) Update(dt time.Duration) {
	if c.disposed || c.paused || !c.autoEmotes {
		return
	}

	c.player.Update(dt)
	c.runTasks(dt)

	if c.state.EmoteActive() {
		c.sinceEmote = 0
		return
	}

	c.sinceEmote += dt
	if c.sinceEmote <= c.cfg.EmoteDelay {
		return
	}

	c.stableTime += dt
	if !c.eligible() {
		return
	}
	if c.rng.Float64() >= c.cfg.EmoteChance {
		return
	}

	pool := c.space.AvailableEmotes()
	if len(pool) == 0 {
		return
	}
	emote := pool[c.rng.Intn(len(pool))]
	c.log.Debug("auto emote", "emote", emote.Name(), "dt", dt)
	c.request(emote, dt*time.Duration(c.cfg.AutoFadeFrames), true)
}

// eligible reports whether stable time and the mood-change interval both allow an auto emote
func (c *Controller) eligible() bool {
	if c.stableTime < c.cfg.StableThreshold {
		return false
	}
	return c.clock.Now().Sub(c.lastChange) >= c.cfg.MinInterval
}

// SetMoodPosition moves the mood coordinate and rebalances the idle blend
// Returns false when the coordinate is unchanged, leaving stable time and last change untouched
// An active or pending emote is cancelled immediately
func (c *Controller) SetMoodPosition(x, y float64) bool {
	p := mood.Vec2{X: x, Y: y}
	if c.positionSet && p == c.position {
		return false
	}

	c.position = p
	c.positionSet = true
	c.stableTime = 0
	c.lastChange = c.clock.Now()

	c.CancelEmote()
	c.rebalance()
	return true
}

// rebalance assigns inverse-distance weights over the nearest anchors
func (c *Controller) rebalance() {
	results := c.space.Query(c.position, c.cfg.AnchorCount)
	if len(results) == 0 {
		c.log.Warn("no mood anchors registered, blend skipped")
		return
	}

	exact := results[0].Distance == 0
	var total float64
	if !exact {
		for _, r := range results {
			total += 1 / r.Distance
		}
	}

	for _, tr := range c.idle {
		tr.SetWeight(0)
	}

	c.current = c.current[:0]
	exactAssigned := false
	for _, r := range results {
		tr := r.Anchor.Idle
		if tr == nil {
			c.log.Warn("mood anchor has no idle track", "mood", r.Anchor.Kind.String())
			continue
		}

		var w float64
		switch {
		case exact && r.Distance == 0 && !exactAssigned:
			w = 1
			exactAssigned = true
		case exact:
			w = 0
		default:
			w = (1 / r.Distance) / total
		}

		tr.SetWeight(w)
		if w > 0 && !c.paused && !tr.IsPlaying() {
			tr.Play()
		}
		c.current = append(c.current, tr)
	}

	if c.log.Enabled(context.Background(), slog.LevelDebug) {
		c.log.Debug("blend updated", "x", c.position.X, "y", c.position.Y, "weights", c.describe())
	}
}

func (c *Controller) describe() string {
	var b strings.Builder
	for i, tr := range c.current {
		if i > 0 {
			b.WriteString(" | ")
		}
		fmt.Fprintf(&b, "%s: %.3f", tr.Mood(), tr.Weight())
	}
	return b.String()
}

// PlayEmote starts an emote by name, bypassing the auto emote gate
// With idle tracks playing the emote waits for the primary idle track's next loop boundary
// A paused controller is resumed first
func (c *Controller) PlayEmote(name string) error {
	emote, err := c.lookup(name)
	if err != nil {
		return err
	}
	c.Resume()
	c.request(emote, c.cfg.FadeDuration, false)
	return nil
}

// ExecuteEmote resets and starts an emote immediately without loop synchronization
func (c *Controller) ExecuteEmote(name string) error {
	emote, err := c.lookup(name)
	if err != nil {
		return err
	}
	c.fade = c.cfg.FadeDuration
	emote.Reset()
	c.begin(emote, false)
	return nil
}

func (c *Controller) lookup(name string) (*track.Track, error) {
	if c.disposed {
		return nil, ErrDisposed
	}
	emote, ok := c.emotes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEmote, name)
	}
	if c.state.EmoteActive() {
		return nil, fmt.Errorf("%w: %s", ErrEmoteActive, c.activeName())
	}
	return emote, nil
}

// request queues emote behind the primary idle loop, or starts it when no idle track runs
func (c *Controller) request(emote *track.Track, fade time.Duration, auto bool) {
	c.fade = fade
	c.auto = auto

	if len(c.current) > 0 && c.current[0].IsPlaying() {
		c.pending = emote
		c.syncTrack = c.current[0]
		c.state = AwaitingLoop
		return
	}

	emote.Reset()
	c.begin(emote, auto)
}

// HandleLoop feeds a loop boundary into the state machine
// Starts a pending emote on the primary idle loop, or transitions a playing emote out on its own loop
// Ignored while transitioning or when no emote is active
func (c *Controller) HandleLoop(clip track.Clip) {
	switch c.state {
	case AwaitingLoop:
		if c.syncTrack == nil || clip != c.syncTrack.Clip() {
			return
		}
		emote := c.pending
		c.pending = nil
		c.syncTrack = nil
		emote.Reset()
		c.begin(emote, c.auto)

	case Playing:
		if c.active == nil || clip != c.active.Clip() {
			return
		}
		c.transitionOut()
	}
}

// begin starts the transition in of emote
func (c *Controller) begin(emote *track.Track, auto bool) {
	c.active = emote
	c.auto = auto
	c.state = TransitioningIn

	clear(c.original)
	for _, tr := range c.current {
		c.original[tr] = tr.Weight()
	}

	emote.Clip().SetEnabled(true)
	emote.Clip().SetTimeScale(1)
	emote.SetWeight(0)
	emote.Play()

	additive := emote.IsAdditive()
	idle := append([]*track.Track(nil), c.current...)
	c.tasks = append(c.tasks, &transition{
		duration: c.fade,
		apply: func(alpha float64) {
			if !additive {
				for _, tr := range idle {
					tr.SetWeight(c.original[tr] * (1 - alpha))
				}
			}
			emote.SetWeight(alpha)
		},
		done: func() {
			if c.active == emote && c.state == TransitioningIn {
				c.state = Playing
			}
		},
	})

	c.log.Debug("emote start", "emote", emote.Name(), "mode", emote.Mode().String(), "fade", c.fade, "auto", auto)
	if c.onStart != nil {
		c.onStart(emote, auto)
	}
}

// transitionOut ramps the playing emote out and the idle mix back in
func (c *Controller) transitionOut() {
	emote := c.active
	c.state = TransitioningOut

	additive := emote.IsAdditive()
	idle := append([]*track.Track(nil), c.current...)
	targets := make(map[*track.Track]float64, len(idle))
	for _, tr := range idle {
		targets[tr] = c.original[tr]
	}

	c.tasks = append(c.tasks, &transition{
		duration: c.fade,
		apply: func(alpha float64) {
			if !additive {
				for _, tr := range idle {
					tr.SetWeight(targets[tr] * alpha)
				}
			}
			emote.SetWeight(1 - alpha)
		},
		done: func() {
			emote.Stop()
			if c.active != emote {
				return
			}
			c.active = nil
			c.state = Blending
			c.log.Debug("emote finished", "emote", emote.Name())
			if c.onFinish != nil {
				c.onFinish(emote, false)
			}
		},
	})
}

// runTasks steps every transition task, dropping completed ones
func (c *Controller) runTasks(dt time.Duration) {
	if len(c.tasks) == 0 {
		return
	}
	running := c.tasks
	c.tasks = nil
	for _, t := range running {
		if !t.step(dt) {
			c.tasks = append(c.tasks, t)
		}
	}
}

// CancelEmote snaps any pending or active emote out without a ramp
func (c *Controller) CancelEmote() {
	if !c.state.EmoteActive() {
		return
	}

	emote := c.active
	c.tasks = nil
	c.pending = nil
	c.syncTrack = nil
	c.active = nil
	c.state = Blending

	if emote == nil {
		return
	}
	emote.SetWeight(0)
	emote.Stop()
	if !emote.IsAdditive() {
		for _, tr := range c.current {
			tr.SetWeight(c.original[tr])
		}
	}
	c.log.Debug("emote cancelled", "emote", emote.Name())
	if c.onFinish != nil {
		c.onFinish(emote, true)
	}
}

// Pause freezes the blended idle tracks and the active emote
func (c *Controller) Pause() {
	c.paused = true
	for _, tr := range c.current {
		tr.Pause()
	}
	if c.active != nil {
		c.active.Pause()
	}
}

// Resume continues playback, starting blended tracks that were skipped while paused
func (c *Controller) Resume() {
	c.paused = false
	for _, tr := range c.current {
		if tr.Weight() > 0 && !tr.IsPlaying() {
			tr.Play()
			continue
		}
		tr.Resume()
	}
	if c.active != nil {
		c.active.Resume()
	}
}

// ToggleAutoEmotes enables or disables the controller update
// While disabled Update is a no-op, body playback included
func (c *Controller) ToggleAutoEmotes(enable bool) {
	c.autoEmotes = enable
}

// Dominant returns the highest-weight idle track of the current blend, the later track wins ties
func (c *Controller) Dominant() (*track.Track, bool) {
	if len(c.current) == 0 {
		return nil, false
	}
	best := c.current[0]
	for _, tr := range c.current[1:] {
		if tr.Weight() >= best.Weight() {
			best = tr
		}
	}
	return best, true
}

// Current returns the idle tracks of the current blend, nearest first
func (c *Controller) Current() []*track.Track {
	return append([]*track.Track(nil), c.current...)
}

// Weights returns the weight of every idle track keyed by mood
func (c *Controller) Weights() map[mood.Kind]float64 {
	out := make(map[mood.Kind]float64, len(c.idle))
	for _, tr := range c.idle {
		out[tr.Mood()] = tr.Weight()
	}
	return out
}

// Status is a point-in-time view of the controller
type Status struct {
	State       State
	Position    mood.Vec2
	StableTime  time.Duration
	LastChange  time.Time
	SinceEmote  time.Duration
	ActiveEmote string
	EmoteWeight float64
	Paused      bool
	AutoEmotes  bool
}

// Status returns the current controller state
func (c *Controller) Status() Status {
	s := Status{
		State:      c.state,
		Position:   c.position,
		StableTime: c.stableTime,
		LastChange: c.lastChange,
		SinceEmote: c.sinceEmote,
		Paused:     c.paused,
		AutoEmotes: c.autoEmotes,
	}
	s.ActiveEmote = c.activeName()
	if c.active != nil {
		s.EmoteWeight = c.active.Weight()
	}
	return s
}

func (c *Controller) activeName() string {
	switch {
	case c.active != nil:
		return c.active.Name()
	case c.pending != nil:
		return c.pending.Name()
	}
	return ""
}

// State returns the emote layer state
func (c *Controller) State() State { return c.state }

// Paused reports whether playback is paused
func (c *Controller) Paused() bool { return c.paused }

// Dispose cancels any emote and releases every track
func (c *Controller) Dispose() {
	if c.disposed {
		return
	}
	c.CancelEmote()
	for _, tr := range c.idle {
		tr.Dispose()
	}
	for _, e := range c.emotes {
		e.Dispose()
	}
	c.current = nil
	c.disposed = true
}
