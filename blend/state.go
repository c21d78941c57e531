package blend

// State is the emote layer state of a controller
type State int

const (
	// Blending is the steady idle mix with no emote
	Blending State = iota
	// AwaitingLoop holds a requested emote until the primary idle track wraps
	AwaitingLoop
	// TransitioningIn ramps the emote in and, unless additive, the idle mix out
	TransitioningIn
	// Playing means the emote is fully in control until its next loop boundary
	Playing
	// TransitioningOut ramps the emote out and the idle mix back to its pre-emote weights
	TransitioningOut
)

func (s State) String() string {
	switch s {
	case Blending:
		return "blending"
	case AwaitingLoop:
		return "awaiting_loop"
	case TransitioningIn:
		return "transitioning_in"
	case Playing:
		return "playing"
	case TransitioningOut:
		return "transitioning_out"
	default:
		return "unknown"
	}
}

// EmoteActive reports whether the state holds an emote, pending or running
func (s State) EmoteActive() bool {
	return s != Blending
}
