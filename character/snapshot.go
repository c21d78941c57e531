package character

import (
	"github.com/lixenwraith/moodrig/sprite"
)

// Snapshot is a read-only copy of one instance, published by the host goroutine
type Snapshot struct {
	ID          string             `json:"id"`
	X           float64            `json:"x"`
	Y           float64            `json:"y"`
	Dominant    string             `json:"dominant"`
	Weights     map[string]float64 `json:"weights"`
	State       string             `json:"state"`
	ActiveEmote string             `json:"active_emote,omitempty"`
	EmoteWeight float64            `json:"emote_weight"`
	Paused      bool               `json:"paused"`
	AutoEmotes  bool               `json:"auto_emotes"`
	StableTime  float64            `json:"stable_time"` // seconds
	Face        string             `json:"face,omitempty"`
	FaceFrame   sprite.Frame       `json:"face_frame"`
	FaceReady   bool               `json:"face_ready"`
	Pending     int                `json:"pending_commands"`
	Emotes      []string           `json:"emotes"`
	Disposed    bool               `json:"disposed,omitempty"`
}

// Snapshot returns the last published state; safe from any goroutine
func (c *Character) Snapshot() Snapshot {
	return *c.snapshot.Load()
}

// publish copies controller state into the snapshot and the status registry
func (c *Character) publish() {
	c.sincePublish = 0

	st := c.blend.Status()
	snap := &Snapshot{
		ID:          c.id,
		X:           st.Position.X,
		Y:           st.Position.Y,
		Weights:     make(map[string]float64),
		State:       st.State.String(),
		ActiveEmote: st.ActiveEmote,
		EmoteWeight: st.EmoteWeight,
		Paused:      st.Paused,
		AutoEmotes:  st.AutoEmotes,
		StableTime:  st.StableTime.Seconds(),
		FaceReady:   c.expr.Initialized(),
		Pending:     c.queue.Len(),
		Emotes:      c.emotes,
	}
	for kind, w := range c.blend.Weights() {
		snap.Weights[kind.String()] = w
	}
	if tr, ok := c.blend.Dominant(); ok {
		snap.Dominant = tr.Mood().String()
	}
	if kind, ok := c.expr.Current(); ok {
		snap.Face = kind.String()
	}
	if f, ok := c.expr.Frame(); ok {
		snap.FaceFrame = f
	}
	c.snapshot.Store(snap)

	if c.reg == nil {
		return
	}
	m := &c.metrics
	m.x.Set(snap.X)
	m.y.Set(snap.Y)
	m.emoteW.Set(snap.EmoteWeight)
	m.state.Store(snap.State)
	m.dominant.Store(snap.Dominant)
	m.emote.Store(snap.ActiveEmote)
	m.face.Store(snap.Face)
	m.paused.Store(snap.Paused)
	m.auto.Store(snap.AutoEmotes)
}
