package mixer

import (
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/moodrig/track"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

// TestLoopBoundaryEvents verifies repeating actions report each wrap once
func TestLoopBoundaryEvents(t *testing.T) {
	m := New()
	a := m.ClipAction("idle", time.Second)
	a.Play()

	var loops []string
	m.OnLoop(func(c track.Clip) { loops = append(loops, c.Name()) })

	for i := 0; i < 25; i++ {
		m.Update(100 * time.Millisecond)
	}

	if len(loops) != 2 {
		t.Errorf("Expected 2 loop events in 2.5s of a 1s clip, got %d", len(loops))
	}
	if !approx(a.Time().Seconds(), 0.5) {
		t.Errorf("Expected clip time 0.5s, got %v", a.Time())
	}
}

func TestLoopOnceFinishes(t *testing.T) {
	m := New()
	a := m.ClipAction("emote_entrance", 500*time.Millisecond)
	a.SetLoop(track.LoopOnce, 1)
	a.Play()

	finished := 0
	m.OnFinished(func(track.Clip) { finished++ })
	m.OnLoop(func(track.Clip) { t.Error("LoopOnce action must not report loop boundaries") })

	for i := 0; i < 10; i++ {
		m.Update(100 * time.Millisecond)
	}

	if finished != 1 {
		t.Errorf("Expected exactly 1 finished event, got %d", finished)
	}
	if a.IsRunning() {
		t.Error("Expected finished action to stop running")
	}
}

func TestPausedActionHoldsTime(t *testing.T) {
	m := New()
	a := m.ClipAction("idle", time.Second)
	a.Play()
	m.Update(200 * time.Millisecond)

	a.SetPaused(true)
	m.Update(500 * time.Millisecond)

	if !approx(a.Time().Seconds(), 0.2) {
		t.Errorf("Expected paused clip to hold at 0.2s, got %v", a.Time())
	}
}

// TestFadeOutDisables verifies a fade to zero ramps linearly then disables the action
func TestFadeOutDisables(t *testing.T) {
	m := New()
	a := m.ClipAction("emote_entrance", 10*time.Second)
	a.SetWeight(1)
	a.Play()
	a.FadeOut(time.Second)

	m.Update(250 * time.Millisecond)
	if !approx(a.Weight(), 0.75) {
		t.Errorf("Expected weight 0.75 a quarter into the fade, got %f", a.Weight())
	}

	m.Update(time.Second)
	if a.Weight() != 0 || a.Enabled() {
		t.Errorf("Expected faded action disabled at weight 0, got weight=%f enabled=%v", a.Weight(), a.Enabled())
	}
}

func TestCrossFadeWarp(t *testing.T) {
	m := New()
	from := m.ClipAction("idle_lazy", 2*time.Second)
	to := m.ClipAction("idle_energetic", time.Second)
	from.SetWeight(1)
	from.Play()
	to.Play()

	to.CrossFadeFrom(from, time.Second, true)

	// Midway both weights meet
	m.Update(500 * time.Millisecond)
	if !approx(from.Weight(), 0.5) || !approx(to.Weight(), 0.5) {
		t.Errorf("Expected both weights 0.5 midway, got from=%f to=%f", from.Weight(), to.Weight())
	}

	m.Update(600 * time.Millisecond)
	if !approx(to.TimeScale(), 1) {
		t.Errorf("Expected target time scale settled at 1, got %f", to.TimeScale())
	}
	if !approx(from.Weight(), 0) || !approx(to.Weight(), 1) {
		t.Errorf("Expected crossfade complete, got from=%f to=%f", from.Weight(), to.Weight())
	}
}

func TestClipActionReuse(t *testing.T) {
	m := New()
	a := m.ClipAction("idle", time.Second)
	b := m.ClipAction("idle", 5*time.Second)
	if a != b {
		t.Error("Expected same action for same clip name")
	}
	if _, ok := m.Action("missing"); ok {
		t.Error("Expected lookup of unknown clip to fail")
	}
}
