package parameter

import "time"

// Mood Blending
const (
	// BlendAnchorCount is the number of nearest anchors mixed into the idle blend
	BlendAnchorCount = 2

	// NeutralDistancePenalty multiplies the neutral anchor distance before ranking
	// Biases the blend away from the neutral idle unless it is genuinely closest
	NeutralDistancePenalty = 3.0
)

// Emote Timing
const (
	// EmoteStableThreshold is the time the mood coordinate must stay unchanged before an auto emote
	EmoteStableThreshold = 3 * time.Second

	// EmoteFadeDuration is the default crossfade for manually started emotes
	EmoteFadeDuration = 300 * time.Millisecond

	// EmoteMinInterval is the wall-clock time since the last mood change before an auto emote
	EmoteMinInterval = 3 * time.Second

	// EmoteDelay is the cool-down after any emote before auto emotes are considered again
	EmoteDelay = 3 * time.Second

	// EmoteChance is the per-frame probability of an auto emote once eligible
	EmoteChance = 0.01

	// AutoEmoteFadeFrames scales the frame delta into the auto emote crossfade
	// Fade completes over roughly this many frames, so smoothness tracks frame rate
	AutoEmoteFadeFrames = 10
)

// Rig clip naming
const (
	// EmoteClipPrefix marks a clip as an emote
	EmoteClipPrefix = "emote_"

	// AdditiveClipMarker marks an emote clip as additive
	AdditiveClipMarker = "add"

	// EntranceClipName is the one-shot clip played on instance init
	EntranceClipName = "emote_entrance"

	// EntranceMarker excludes the entrance clip from emote pools
	EntranceMarker = "entrance"
)
