package event

import "sync"

// Handler receives a delivered event
type Handler func(Event)

// SubscriptionID identifies a subscription for later removal
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	typ     EventType // EventNone matches every type
	handler Handler
}

// Bus dispatches events to subscribed handlers
//
// Architecture:
//   - Constructed explicitly and injected; no package-level instance
//   - Synchronous dispatch on the emitting goroutine
//   - Handlers are invoked in subscription order
//   - No per-instance isolation: payload scoping is by Event.InstanceID
//
// Handlers may subscribe, unsubscribe or emit from inside a callback;
// the handler list is snapshotted before delivery
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID SubscriptionID
}

// NewBus creates an empty bus and ensures the event name registry is populated
func NewBus() *Bus {
	InitRegistry()
	return &Bus{}
}

// Subscribe adds a handler for one event type
func (b *Bus) Subscribe(t EventType, h Handler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs = append(b.subs, subscription{id: b.nextID, typ: t, handler: h})
	return b.nextID
}

// SubscribeInstance adds a handler that only sees events for instanceID
func (b *Bus) SubscribeInstance(t EventType, instanceID string, h Handler) SubscriptionID {
	return b.Subscribe(t, func(ev Event) {
		if ev.InstanceID != instanceID {
			return
		}
		h(ev)
	})
}

// SubscribeAll adds a handler for every event type
func (b *Bus) SubscribeAll(h Handler) SubscriptionID {
	return b.Subscribe(EventNone, h)
}

// Unsubscribe removes a subscription, returns false if id is unknown
func (b *Bus) Unsubscribe(id SubscriptionID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAll drops every subscription for the given types, or all subscriptions when none given
func (b *Bus) RemoveAll(types ...EventType) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(types) == 0 {
		b.subs = nil
		return
	}

	kept := b.subs[:0:0]
	for _, s := range b.subs {
		drop := false
		for _, t := range types {
			if s.typ == t {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, s)
		}
	}
	b.subs = kept
}

// Emit delivers ev to every matching handler in subscription order
func (b *Bus) Emit(ev Event) {
	b.mu.RLock()
	targets := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.typ == ev.Type || s.typ == EventNone {
			targets = append(targets, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range targets {
		h(ev)
	}
}

// HandlerCount returns the number of handlers registered for the given type
// Wildcard subscriptions are not counted
func (b *Bus) HandlerCount(t EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, s := range b.subs {
		if s.typ == t {
			n++
		}
	}
	return n
}
