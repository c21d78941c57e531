package event

// MoodChangedPayload carries the new mood coordinate and the kind of the highest-weight idle track
type MoodChangedPayload struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Dominant string  `json:"dominant"`
}

// BodyPartChangedPayload identifies the swapped part
type BodyPartChangedPayload struct {
	PartKind string `json:"part_kind"`
	PartName string `json:"part_name"`
}

// EmoteStartedPayload names the emote entering its transition
type EmoteStartedPayload struct {
	Name     string `json:"name"`
	Mood     string `json:"mood"`
	Additive bool   `json:"additive"`
	Auto     bool   `json:"auto"`
}

// EmoteFinishedPayload names the emote leaving control
// Cancelled is set when a mood change snapped the emote out
type EmoteFinishedPayload struct {
	Name      string `json:"name"`
	Cancelled bool   `json:"cancelled"`
}

// ExpressionChangedPayload names the face animation now playing
type ExpressionChangedPayload struct {
	Mood   string `json:"mood"`
	Frames int    `json:"frames"`
	FPS    int    `json:"fps"`
}

// PlaybackToggledPayload reports the playback state after pause or resume
type PlaybackToggledPayload struct {
	Paused bool `json:"paused"`
}
