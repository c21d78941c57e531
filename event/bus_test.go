package event

import (
	"errors"
	"testing"
)

// TestBusDeliveryOrder verifies handlers run in subscription order
func TestBusDeliveryOrder(t *testing.T) {
	bus := NewBus()

	var order []int
	bus.Subscribe(EventMoodChanged, func(Event) { order = append(order, 1) })
	bus.SubscribeAll(func(Event) { order = append(order, 2) })
	bus.Subscribe(EventMoodChanged, func(Event) { order = append(order, 3) })
	bus.Subscribe(EventEmoteStarted, func(Event) { order = append(order, 99) })

	bus.Emit(Event{Type: EventMoodChanged, InstanceID: "a"})

	if len(order) != 3 {
		t.Fatalf("Expected 3 deliveries, got %d (%v)", len(order), order)
	}
	for i, want := range []int{1, 2, 3} {
		if order[i] != want {
			t.Errorf("Delivery %d: expected handler %d, got %d", i, want, order[i])
		}
	}
}

// TestBusInstanceFiltering verifies two instances sharing one bus see only their own events
func TestBusInstanceFiltering(t *testing.T) {
	bus := NewBus()

	var gotA, gotB int
	bus.SubscribeInstance(EventMoodChanged, "a", func(Event) { gotA++ })
	bus.SubscribeInstance(EventMoodChanged, "b", func(Event) { gotB++ })

	bus.Emit(Event{Type: EventMoodChanged, InstanceID: "a"})
	bus.Emit(Event{Type: EventMoodChanged, InstanceID: "a"})
	bus.Emit(Event{Type: EventMoodChanged, InstanceID: "b"})

	if gotA != 2 {
		t.Errorf("Expected instance a to receive 2 events, got %d", gotA)
	}
	if gotB != 1 {
		t.Errorf("Expected instance b to receive 1 event, got %d", gotB)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	id := bus.Subscribe(EventEmoteFinished, func(Event) { calls++ })

	if !bus.Unsubscribe(id) {
		t.Fatal("Expected Unsubscribe to report removal")
	}
	if bus.Unsubscribe(id) {
		t.Error("Expected second Unsubscribe to report unknown id")
	}

	bus.Emit(Event{Type: EventEmoteFinished})
	if calls != 0 {
		t.Errorf("Expected no calls after unsubscribe, got %d", calls)
	}
}

// TestBusReentrantEmit verifies a handler can subscribe and emit during delivery
func TestBusReentrantEmit(t *testing.T) {
	bus := NewBus()

	var seen []EventType
	bus.Subscribe(EventMoodChanged, func(ev Event) {
		seen = append(seen, ev.Type)
		bus.Subscribe(EventExpressionChanged, func(ev Event) { seen = append(seen, ev.Type) })
		bus.Emit(Event{Type: EventExpressionChanged})
	})

	bus.Emit(Event{Type: EventMoodChanged})

	if len(seen) != 2 || seen[1] != EventExpressionChanged {
		t.Errorf("Expected nested delivery of ExpressionChanged, got %v", seen)
	}
}

func TestBusRemoveAll(t *testing.T) {
	bus := NewBus()

	bus.Subscribe(EventMoodChanged, func(Event) {})
	bus.Subscribe(EventMoodChanged, func(Event) {})
	bus.Subscribe(EventBodyPartChanged, func(Event) {})

	bus.RemoveAll(EventMoodChanged)
	if n := bus.HandlerCount(EventMoodChanged); n != 0 {
		t.Errorf("Expected 0 MoodChanged handlers, got %d", n)
	}
	if n := bus.HandlerCount(EventBodyPartChanged); n != 1 {
		t.Errorf("Expected 1 BodyPartChanged handler, got %d", n)
	}

	bus.RemoveAll()
	if n := bus.HandlerCount(EventBodyPartChanged); n != 0 {
		t.Errorf("Expected 0 handlers after RemoveAll, got %d", n)
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	InitRegistry()

	data, err := Encode(Event{
		Type:       EventMoodChanged,
		InstanceID: "boxy-1",
		Payload:    &MoodChangedPayload{X: 0.5, Y: -0.25, Dominant: "happy"},
	})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	ev, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if ev.Type != EventMoodChanged || ev.InstanceID != "boxy-1" {
		t.Errorf("Expected MoodChanged for boxy-1, got %v for %q", ev.Type, ev.InstanceID)
	}
	p, ok := ev.Payload.(*MoodChangedPayload)
	if !ok {
		t.Fatalf("Expected *MoodChangedPayload, got %T", ev.Payload)
	}
	if p.X != 0.5 || p.Y != -0.25 || p.Dominant != "happy" {
		t.Errorf("Payload mismatch: %+v", p)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"type":"Nope","instance_id":"x"}`))
	if !errors.Is(err, ErrUnknownEventType) {
		t.Errorf("Expected ErrUnknownEventType, got %v", err)
	}
}
