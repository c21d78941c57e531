package event

import (
	"reflect"
	"sync"
)

var (
	nameToType    = make(map[string]EventType)
	typeToName    = make(map[EventType]string)
	typeToPayload = make(map[EventType]reflect.Type)
	registryOnce  sync.Once
)

// RegisterType maps a string name to an EventType and its payload struct type
// payloadInstance should be a pointer to the payload struct (e.g., &MoodChangedPayload{})
// Pass nil if the event has no payload
func RegisterType(name string, et EventType, payloadInstance any) {
	nameToType[name] = et
	typeToName[et] = name
	if payloadInstance != nil {
		t := reflect.TypeOf(payloadInstance)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		typeToPayload[et] = t
	}
}

// GetEventType returns the EventType for a given name
func GetEventType(name string) (EventType, bool) {
	et, ok := nameToType[name]
	return et, ok
}

// GetEventName returns the string name for an EventType
func GetEventName(et EventType) string {
	if et == EventNone {
		return "None"
	}
	return typeToName[et]
}

// NewPayloadStruct returns a new pointer to a zero-value payload struct for the event type
// Returns nil if no payload is registered
func NewPayloadStruct(et EventType) any {
	t, ok := typeToPayload[et]
	if !ok {
		return nil
	}
	return reflect.New(t).Interface()
}

// InitRegistry populates the registry with all rig events
// Safe to call repeatedly; NewBus calls it
func InitRegistry() {
	registryOnce.Do(func() {
		// Mood
		RegisterType("MoodChanged", EventMoodChanged, &MoodChangedPayload{})
		RegisterType("BodyPartChanged", EventBodyPartChanged, &BodyPartChangedPayload{})

		// Emote
		RegisterType("EmoteStarted", EventEmoteStarted, &EmoteStartedPayload{})
		RegisterType("EmoteFinished", EventEmoteFinished, &EmoteFinishedPayload{})

		// Expression
		RegisterType("ExpressionChanged", EventExpressionChanged, &ExpressionChangedPayload{})

		// Lifecycle
		RegisterType("PlaybackToggled", EventPlaybackToggled, &PlaybackToggledPayload{})
	})
}
