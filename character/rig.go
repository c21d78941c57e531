package character

import (
	"strings"
	"time"

	"github.com/lixenwraith/moodrig/blend"
	"github.com/lixenwraith/moodrig/mixer"
	"github.com/lixenwraith/moodrig/mood"
	"github.com/lixenwraith/moodrig/parameter"
	"github.com/lixenwraith/moodrig/sprite"
	"github.com/lixenwraith/moodrig/track"
)

// Rig is the clip-playback surface of a loaded character model
type Rig interface {
	blend.Player
	Clip(name string) (track.Clip, bool)
	ClipNames() []string
}

// AnchorSpec places one mood's idle clip in mood space
type AnchorSpec struct {
	Kind mood.Kind
	X, Y float64
	Idle string
}

// DefaultAnchors is the stock layout; registration order breaks distance ties
var DefaultAnchors = []AnchorSpec{
	{Kind: mood.Happy, X: 1, Y: 0, Idle: "idle_happy"},
	{Kind: mood.Sad, X: -1, Y: 0, Idle: "idle_sad"},
	{Kind: mood.Energetic, X: 0, Y: 1, Idle: "idle_energetic"},
	{Kind: mood.Lazy, X: 0, Y: -1, Idle: "idle_lazy"},
	{Kind: mood.Idle, X: 0, Y: 0, Idle: "idle"},
}

// ClipSpec names a clip and its length
type ClipSpec struct {
	Name     string
	Duration time.Duration
}

// DefaultClips is the clip set of the stock model
var DefaultClips = []ClipSpec{
	{"idle", 2000 * time.Millisecond},
	{"idle_happy", 1600 * time.Millisecond},
	{"idle_sad", 2400 * time.Millisecond},
	{"idle_energetic", 1200 * time.Millisecond},
	{"idle_lazy", 3000 * time.Millisecond},
	{parameter.EntranceClipName, 2000 * time.Millisecond},
	{"emote_happy_jump", 1200 * time.Millisecond},
	{"emote_happy_add_wiggle", 800 * time.Millisecond},
	{"emote_sad_sigh", 1800 * time.Millisecond},
	{"emote_energetic_spin", 1000 * time.Millisecond},
	{"emote_energetic_add_bounce", 600 * time.Millisecond},
	{"emote_lazy_yawn", 2200 * time.Millisecond},
	{"emote_wave", 1400 * time.Millisecond},
	{"emote_look_around", 2000 * time.Millisecond},
}

// NewMixerRig creates a simulated rig holding clips
func NewMixerRig(clips []ClipSpec) *mixer.Mixer {
	m := mixer.New()
	for _, c := range clips {
		m.ClipAction(c.Name, c.Duration)
	}
	return m
}

// IsEmoteClip reports whether a clip name is an emote
func IsEmoteClip(name string) bool {
	return strings.HasPrefix(name, parameter.EmoteClipPrefix)
}

// IsAdditiveClip reports whether an emote clip layers on top of the idle blend
func IsAdditiveClip(name string) bool {
	return strings.Contains(strings.TrimPrefix(name, parameter.EmoteClipPrefix), parameter.AdditiveClipMarker)
}

// EmotesFor filters emote clip names belonging to kind
// Idle owns the emotes naming no other mood, the entrance excluded
func EmotesFor(kind mood.Kind, names []string) []string {
	var out []string
	for _, name := range names {
		if !IsEmoteClip(name) {
			continue
		}
		if kind == mood.Idle {
			if !namesOtherMood(name) && !strings.Contains(name, parameter.EntranceMarker) {
				out = append(out, name)
			}
			continue
		}
		if strings.Contains(name, kind.String()) {
			out = append(out, name)
		}
	}
	return out
}

func namesOtherMood(name string) bool {
	for _, k := range mood.Kinds() {
		if k != mood.Idle && strings.Contains(name, k.String()) {
			return true
		}
	}
	return false
}

// DefaultSprites returns the face animation table, all looping at fps
func DefaultSprites(fps float64, columns int) []sprite.Def {
	last := columns - 1
	rows := func(kind mood.Kind, from, to int) sprite.Def {
		return sprite.Def{
			Kind:  kind,
			Start: &sprite.Index{Row: from, Col: 0},
			End:   &sprite.Index{Row: to, Col: last},
			FPS:   fps,
			Loop:  true,
		}
	}
	return []sprite.Def{
		rows(mood.Happy, 0, 2),
		rows(mood.Energetic, 3, 3),
		rows(mood.Sad, 4, 4),
		rows(mood.Lazy, 5, 5),
		rows(mood.Idle, 0, 2),
	}
}
