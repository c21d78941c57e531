package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownEventType is returned when decoding an envelope with an unregistered type name
var ErrUnknownEventType = errors.New("unknown event type")

// Envelope is the JSON form of an Event on the websocket stream
type Envelope struct {
	Type       string          `json:"type"`
	InstanceID string          `json:"instance_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Encode marshals ev into an envelope
func Encode(ev Event) ([]byte, error) {
	env := Envelope{
		Type:       GetEventName(ev.Type),
		InstanceID: ev.InstanceID,
	}
	if ev.Payload != nil {
		raw, err := json.Marshal(ev.Payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", env.Type, err)
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}

// Decode parses an envelope back into an Event with a typed payload pointer
func Decode(data []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Event{}, fmt.Errorf("decode envelope: %w", err)
	}

	InitRegistry()
	et, ok := GetEventType(env.Type)
	if !ok {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEventType, env.Type)
	}

	ev := Event{Type: et, InstanceID: env.InstanceID}
	if payload := NewPayloadStruct(et); payload != nil && len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, payload); err != nil {
			return Event{}, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		ev.Payload = payload
	}
	return ev, nil
}
