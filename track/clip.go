package track

import "time"

// LoopMode controls what a clip does at the end of its duration
type LoopMode int

const (
	// LoopRepeat wraps to the start and reports a loop boundary
	LoopRepeat LoopMode = iota
	// LoopOnce stops at the end and reports finished
	LoopOnce
)

// Clip is the playback primitive supplied by the host animation system
// One Clip is one playable action bound to a named animation clip
type Clip interface {
	Name() string
	Duration() time.Duration

	Play()
	Stop()
	Reset()
	IsRunning() bool

	SetPaused(paused bool)
	Paused() bool
	SetEnabled(enabled bool)
	SetTimeScale(scale float64)

	// SetWeight sets the effective weight immediately, cancelling any fade
	SetWeight(w float64)
	Weight() float64

	FadeIn(d time.Duration)
	FadeOut(d time.Duration)
	CrossFadeFrom(from Clip, d time.Duration, warp bool)
	CrossFadeTo(to Clip, d time.Duration, warp bool)

	SetLoop(mode LoopMode, repetitions int)

	// MakeAdditive converts the clip data to deltas from its rest pose and switches to additive blending
	MakeAdditive()
}
