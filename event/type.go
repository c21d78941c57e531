package event

// EventType represents the type of rig event
type EventType int

const (
	// EventNone is the zero value, used as the wildcard in SubscribeAll
	EventNone EventType = iota

	// === Mood Event ===

	// EventMoodChanged announces a new mood coordinate and its dominant idle track
	// Trigger: character.SetMood | Consumer: expression.Manager, server stream
	// Payload: *MoodChangedPayload
	EventMoodChanged

	// EventBodyPartChanged announces a body part swap by an external collaborator
	// Trigger: host, character.NotifyBodyPartChanged | Consumer: expression.Manager
	// Payload: *BodyPartChangedPayload
	EventBodyPartChanged

	// === Emote Event ===

	// EventEmoteStarted fires when an emote begins its transition in
	// Trigger: blend.Controller hook | Consumer: audio cues, server stream
	// Payload: *EmoteStartedPayload
	EventEmoteStarted

	// EventEmoteFinished fires when an emote completes its transition out or is cancelled
	// Trigger: blend.Controller hook | Consumer: server stream
	// Payload: *EmoteFinishedPayload
	EventEmoteFinished

	// === Expression Event ===

	// EventExpressionChanged fires when the face switches to another sprite animation
	// Trigger: expression.Manager | Consumer: viewer, server stream
	// Payload: *ExpressionChangedPayload
	EventExpressionChanged

	// === Lifecycle Event ===

	// EventPlaybackToggled fires on pause and resume
	// Trigger: character.Pause/Resume | Consumer: server stream
	// Payload: *PlaybackToggledPayload
	EventPlaybackToggled
)

// Event is a single bus message scoped to one character instance
// Listeners on a shared bus must filter by InstanceID
type Event struct {
	Type       EventType
	InstanceID string
	Payload    any
}
