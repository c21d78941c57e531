package track

import (
	"time"

	"github.com/lixenwraith/moodrig/mood"
)

// BlendMode selects how a track combines with the idle blend
type BlendMode int

const (
	// Plain tracks take part in the normalize-to-one idle mix
	Plain BlendMode = iota
	// Override emotes replace the idle weight while active
	Override
	// Additive emotes layer on top without reducing idle weight
	Additive
)

func (m BlendMode) String() string {
	switch m {
	case Plain:
		return "plain"
	case Override:
		return "override"
	case Additive:
		return "additive"
	default:
		return "unknown"
	}
}

// Track wraps one clip with its mood kind, blend mode and last assigned weight
type Track struct {
	mood   mood.Kind
	mode   BlendMode
	clip   Clip
	weight float64
	paused bool
}

// New creates a plain idle track
func New(kind mood.Kind, clip Clip) *Track {
	return &Track{mood: kind, mode: Plain, clip: clip}
}

// NewEmote creates an override emote track
func NewEmote(kind mood.Kind, clip Clip) *Track {
	return &Track{mood: kind, mode: Override, clip: clip}
}

// NewAdditiveEmote creates an additive emote track, converting the clip to deltas first
func NewAdditiveEmote(kind mood.Kind, clip Clip) *Track {
	clip.SetTimeScale(1)
	clip.MakeAdditive()
	return &Track{mood: kind, mode: Additive, clip: clip}
}

// Name returns the clip name
func (t *Track) Name() string { return t.clip.Name() }

// Mood returns the mood kind the track belongs to
func (t *Track) Mood() mood.Kind { return t.mood }

// Mode returns the blend mode
func (t *Track) Mode() BlendMode { return t.mode }

// Clip returns the underlying playback primitive
func (t *Track) Clip() Clip { return t.clip }

// IsEmote reports whether the track is an emote of either mode
func (t *Track) IsEmote() bool { return t.mode != Plain }

// IsAdditive reports whether the track layers on top of the idle blend
func (t *Track) IsAdditive() bool { return t.mode == Additive }

// Play un-pauses, enables and starts the clip
func (t *Track) Play() {
	t.paused = false
	t.clip.SetPaused(false)
	t.clip.SetEnabled(true)
	t.clip.Play()
}

// Pause freezes the clip at its current time
func (t *Track) Pause() {
	t.paused = true
	t.clip.SetPaused(true)
}

// Resume continues a paused clip
func (t *Track) Resume() {
	t.paused = false
	t.clip.SetPaused(false)
}

// Paused reports the last pause state set through the track
func (t *Track) Paused() bool { return t.paused }

// Stop halts the clip
func (t *Track) Stop() { t.clip.Stop() }

// Reset rewinds the clip to its start
func (t *Track) Reset() { t.clip.Reset() }

// IsPlaying reports whether the clip is scheduled
func (t *Track) IsPlaying() bool { return t.clip.IsRunning() }

// SetWeight sets the effective weight, clamped to [0,1]
func (t *Track) SetWeight(w float64) {
	switch {
	case w < 0:
		w = 0
	case w > 1:
		w = 1
	}
	t.weight = w
	t.clip.SetWeight(w)
}

// Weight returns the last weight set through the track
func (t *Track) Weight() float64 { return t.weight }

// FadeIn ramps the clip in over d
func (t *Track) FadeIn(d time.Duration) { t.clip.FadeIn(d) }

// FadeOut ramps the clip out over d
func (t *Track) FadeOut(d time.Duration) { t.clip.FadeOut(d) }

// CrossFadeFrom fades other out while this track fades in
func (t *Track) CrossFadeFrom(other *Track, d time.Duration, warp bool) {
	t.clip.CrossFadeFrom(other.clip, d, warp)
}

// CrossFadeTo fades this track out while other fades in
func (t *Track) CrossFadeTo(other *Track, d time.Duration, warp bool) {
	t.clip.CrossFadeTo(other.clip, d, warp)
}

// Dispose stops the clip and drops its weight
func (t *Track) Dispose() {
	t.clip.Stop()
	t.weight = 0
	t.clip.SetWeight(0)
}
