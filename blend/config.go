package blend

import (
	"time"

	"github.com/lixenwraith/moodrig/parameter"
)

// Config holds the blend and auto-emote knobs
type Config struct {
	// StableThreshold is the time at an unchanged mood before auto emotes are eligible
	StableThreshold time.Duration
	// FadeDuration is the crossfade used by manual emotes
	FadeDuration time.Duration
	// MinInterval is the wall-clock time since the last mood change before auto emotes are eligible
	MinInterval time.Duration
	// EmoteDelay is the cool-down after an emote
	EmoteDelay time.Duration
	// EmoteChance is the per-frame auto emote probability once eligible
	EmoteChance float64
	// AnchorCount is the number of anchors mixed into the idle blend
	AnchorCount int
	// NeutralPenalty multiplies the idle anchor distance before ranking
	NeutralPenalty float64
	// AutoFadeFrames scales the frame delta into the auto emote crossfade
	AutoFadeFrames int
}

// DefaultConfig returns the stock tuning
func DefaultConfig() Config {
	return Config{
		StableThreshold: parameter.EmoteStableThreshold,
		FadeDuration:    parameter.EmoteFadeDuration,
		MinInterval:     parameter.EmoteMinInterval,
		EmoteDelay:      parameter.EmoteDelay,
		EmoteChance:     parameter.EmoteChance,
		AnchorCount:     parameter.BlendAnchorCount,
		NeutralPenalty:  parameter.NeutralDistancePenalty,
		AutoFadeFrames:  parameter.AutoEmoteFadeFrames,
	}
}
