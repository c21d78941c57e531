// Package audio synthesizes short cues for emotes and mood changes
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/moodrig/engine"
	"github.com/lixenwraith/moodrig/mood"
	"github.com/lixenwraith/moodrig/parameter"
)

// CuePlayer mixes cues into the speaker
// Every operation is a silent no-op until Initialize succeeds, so hosts without an audio device run unchanged
type CuePlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	rate        beep.SampleRate
	volume      float64
	clock       engine.TimeProvider
	lastCue     time.Time
	initialized bool
	speaker     bool // mixer attached to the device
	enabled     bool
	played      int
}

// NewCuePlayer creates an uninitialized player
func NewCuePlayer(clock engine.TimeProvider) *CuePlayer {
	return &CuePlayer{
		mixer:   &beep.Mixer{},
		rate:    beep.SampleRate(parameter.AudioSampleRate),
		volume:  parameter.CueVolume,
		clock:   clock,
		enabled: true,
	}
}

// Initialize opens the speaker and starts the mixer
func (p *CuePlayer) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(p.rate, p.rate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}

	speaker.Play(p.mixer)
	p.speaker = true
	p.initialized = true
	return nil
}

// Cleanup drops queued cues and detaches from the speaker
func (p *CuePlayer) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	if p.speaker {
		speaker.Clear()
	}
	p.mixer.Clear()
	p.speaker = false
	p.initialized = false
}

// SetEnabled mutes or unmutes cues without closing the device
func (p *CuePlayer) SetEnabled(enabled bool) {
	p.mu.Lock()
	p.enabled = enabled
	p.mu.Unlock()
}

// Enabled reports the mute toggle
func (p *CuePlayer) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Play queues cue pitched for kind; cues closer than MinCueGap to the previous one are dropped
// Returns whether the cue was queued
func (p *CuePlayer) Play(cue Cue, kind mood.Kind) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || !p.enabled {
		return false
	}

	now := p.clock.Now()
	if !p.lastCue.IsZero() && now.Sub(p.lastCue) < parameter.MinCueGap {
		return false
	}
	p.lastCue = now

	s := NewCue(cue, kind, p.rate, p.volume)
	if p.speaker {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
	} else {
		p.mixer.Add(s)
	}
	p.played++
	return true
}

// EmoteCue plays the emote start cue
func (p *CuePlayer) EmoteCue(kind mood.Kind, additive bool) {
	if additive {
		p.Play(CueAdditiveEmote, kind)
		return
	}
	p.Play(CueEmote, kind)
}

// MoodCue plays the mood change cue
func (p *CuePlayer) MoodCue(kind mood.Kind) {
	p.Play(CueMood, kind)
}

// Played returns the number of cues queued since creation
func (p *CuePlayer) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}

// Pending returns the number of cues still streaming in the mixer
func (p *CuePlayer) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.speaker {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return p.mixer.Len()
}
