package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/moodrig/mood"
	"github.com/lixenwraith/moodrig/parameter"
)

// Cue identifies a synthesized notification sound
type Cue int

const (
	// CueEmote is a rising two-note chime for override emotes
	CueEmote Cue = iota
	// CueAdditiveEmote is a single short note for additive emotes
	CueAdditiveEmote
	// CueMood is a soft blip on mood change
	CueMood
)

func (c Cue) String() string {
	switch c {
	case CueEmote:
		return "emote"
	case CueAdditiveEmote:
		return "additive_emote"
	case CueMood:
		return "mood"
	default:
		return "unknown"
	}
}

// Pitch returns the base frequency for a mood
func Pitch(kind mood.Kind) float64 {
	switch kind {
	case mood.Happy:
		return parameter.CueHappyFreq
	case mood.Sad:
		return parameter.CueSadFreq
	case mood.Energetic:
		return parameter.CueEnergeticFreq
	case mood.Lazy:
		return parameter.CueLazyFreq
	default:
		return parameter.CueBaseFreq
	}
}

// Duration returns the length of a cue
func (c Cue) Duration() time.Duration {
	switch c {
	case CueEmote:
		return parameter.EmoteCueDuration
	case CueAdditiveEmote:
		return parameter.EmoteCueDuration / 2
	default:
		return parameter.MoodCueDuration
	}
}

// NewCue synthesizes cue pitched for kind at volume exponent vol
func NewCue(cue Cue, kind mood.Kind, rate beep.SampleRate, vol float64) beep.Streamer {
	freq := Pitch(kind)

	switch cue {
	case CueEmote:
		half := cue.Duration() / 2
		n1 := NewEnvelope(NewOscillator(freq, half, WaveSine, rate), half, parameter.CueAttack, parameter.CueRelease/2, rate)
		// Perfect fifth up
		n2 := NewEnvelope(NewOscillator(freq*1.5, half, WaveSine, rate), half, parameter.CueAttack, parameter.CueRelease, rate)
		return newVolume(beep.Seq(n1, n2), vol)

	case CueAdditiveEmote:
		d := cue.Duration()
		note := NewEnvelope(NewOscillator(freq*2, d, WaveTriangle, rate), d, parameter.CueAttack, parameter.CueRelease, rate)
		return newVolume(note, vol)

	default:
		d := cue.Duration()
		blip := NewEnvelope(NewOscillator(freq/2, d, WaveSquare, rate), d, parameter.CueAttack, parameter.CueRelease, rate)
		// Square is harsh, keep it a step quieter
		return newVolume(blip, vol-1)
	}
}
