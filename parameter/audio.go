package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 48000

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond
)

// Cue Shapes
const (
	// EmoteCueDuration is the length of the chime played when an emote starts
	EmoteCueDuration = 180 * time.Millisecond

	// MoodCueDuration is the length of the blip played on mood change
	MoodCueDuration = 90 * time.Millisecond

	// CueAttack and CueRelease shape every cue envelope
	CueAttack  = 10 * time.Millisecond
	CueRelease = 60 * time.Millisecond

	// CueVolume is the beep/effects volume exponent applied to cues (base 2)
	CueVolume = -1.5

	// MinCueGap suppresses cues fired in quick succession
	MinCueGap = 50 * time.Millisecond
)

// Cue Pitches (Hz)
const (
	CueBaseFreq      = 440.0
	CueHappyFreq     = 659.25
	CueSadFreq       = 329.63
	CueEnergeticFreq = 783.99
	CueLazyFreq      = 261.63
)
