package mixer

import (
	"math"
	"time"

	"github.com/lixenwraith/moodrig/track"
)

// interpolant is a linear ramp in mixer time
type interpolant struct {
	active     bool
	start, end float64 // mixer seconds
	from, to   float64
}

func (ip *interpolant) schedule(now float64, d time.Duration, from, to float64) {
	ip.active = true
	ip.start = now
	ip.end = now + d.Seconds()
	ip.from = from
	ip.to = to
}

// eval returns the value at now and whether the ramp has completed
func (ip *interpolant) eval(now float64) (float64, bool) {
	span := ip.end - ip.start
	if span <= 0 || now >= ip.end {
		return ip.to, true
	}
	alpha := (now - ip.start) / span
	if alpha < 0 {
		alpha = 0
	}
	return ip.from + (ip.to-ip.from)*alpha, false
}

// Action is the simulated playback state of one clip
// Implements track.Clip
type Action struct {
	mixer    *Mixer
	name     string
	duration time.Duration

	time      float64 // local clip time, seconds
	running   bool
	enabled   bool
	paused    bool
	timeScale float64
	weight    float64
	additive  bool

	loop        track.LoopMode
	repetitions int // 0 = infinite
	loopCount   int

	fade interpolant
	warp interpolant
}

var _ track.Clip = (*Action)(nil)

func (a *Action) Name() string            { return a.name }
func (a *Action) Duration() time.Duration { return a.duration }

// Play schedules the action; a finished once-clip must be Reset first
func (a *Action) Play() {
	a.running = true
}

// Stop unschedules the action and rewinds it
func (a *Action) Stop() {
	a.running = false
	a.fade.active = false
	a.warp.active = false
	a.time = 0
	a.loopCount = 0
}

// Reset rewinds and re-enables without changing the scheduled state
func (a *Action) Reset() {
	a.paused = false
	a.enabled = true
	a.time = 0
	a.loopCount = 0
	a.fade.active = false
	a.warp.active = false
}

func (a *Action) IsRunning() bool {
	return a.running && a.enabled && !a.paused
}

func (a *Action) SetPaused(paused bool) { a.paused = paused }
func (a *Action) Paused() bool          { return a.paused }

func (a *Action) SetEnabled(enabled bool) {
	a.enabled = enabled
}

// Enabled reports whether the action contributes to the pose
func (a *Action) Enabled() bool { return a.enabled }

func (a *Action) SetTimeScale(scale float64) {
	a.warp.active = false
	a.timeScale = scale
}

// TimeScale returns the current playback rate
func (a *Action) TimeScale() float64 { return a.timeScale }

func (a *Action) SetWeight(w float64) {
	a.fade.active = false
	a.weight = w
}

// Weight returns the effective weight, zero when disabled
func (a *Action) Weight() float64 {
	if !a.enabled {
		return 0
	}
	return a.weight
}

func (a *Action) FadeIn(d time.Duration) {
	a.fade.schedule(a.mixer.time, d, 0, 1)
	a.weight = 0
}

func (a *Action) FadeOut(d time.Duration) {
	a.fade.schedule(a.mixer.time, d, a.weight, 0)
}

// CrossFadeFrom fades from out and this action in over d
// With warp the two time scales are ramped so the clip rates meet
func (a *Action) CrossFadeFrom(from track.Clip, d time.Duration, warp bool) {
	from.FadeOut(d)
	a.FadeIn(d)

	if !warp {
		return
	}
	other, ok := from.(*Action)
	if !ok || a.duration <= 0 || other.duration <= 0 {
		return
	}
	ratio := other.duration.Seconds() / a.duration.Seconds()
	other.warp.schedule(a.mixer.time, d, 1, 1/ratio)
	a.warp.schedule(a.mixer.time, d, ratio, 1)
}

func (a *Action) CrossFadeTo(to track.Clip, d time.Duration, warp bool) {
	to.CrossFadeFrom(a, d, warp)
}

func (a *Action) SetLoop(mode track.LoopMode, repetitions int) {
	a.loop = mode
	a.repetitions = repetitions
}

func (a *Action) MakeAdditive() {
	a.additive = true
}

// Additive reports whether MakeAdditive was applied
func (a *Action) Additive() bool { return a.additive }

// Time returns the local clip time
func (a *Action) Time() time.Duration {
	return time.Duration(a.time * float64(time.Second))
}

// advance moves the action by dt seconds of mixer time
// Returns whether a loop boundary or the finish was crossed
func (a *Action) advance(now, dt float64) (looped, finished bool) {
	if !a.running || !a.enabled || a.paused {
		return false, false
	}

	if a.fade.active {
		w, done := a.fade.eval(now)
		a.weight = w
		if done {
			a.fade.active = false
			if w == 0 {
				a.enabled = false
			}
		}
	}
	if a.warp.active {
		s, done := a.warp.eval(now)
		a.timeScale = s
		if done {
			a.warp.active = false
		}
	}

	dur := a.duration.Seconds()
	if dur <= 0 {
		return false, false
	}

	a.time += dt * a.timeScale
	if a.time < dur {
		return false, false
	}

	switch a.loop {
	case track.LoopOnce:
		a.time = dur
		a.running = false
		a.enabled = false
		return false, true
	default:
		a.loopCount += int(a.time / dur)
		a.time = math.Mod(a.time, dur)
		if a.repetitions > 0 && a.loopCount >= a.repetitions {
			a.time = dur
			a.running = false
			a.enabled = false
			return false, true
		}
		return true, false
	}
}
