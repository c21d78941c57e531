package character

import (
	"fmt"
	"sync"
	"time"
)

// Roster holds every live instance of a host
// Membership is guarded so control surfaces can look instances up from their own goroutines
type Roster struct {
	mu    sync.RWMutex
	byID  map[string]*Character
	order []string
}

// NewRoster creates an empty roster
func NewRoster() *Roster {
	return &Roster{byID: make(map[string]*Character)}
}

// Add registers c under its id
func (r *Roster) Add(c *Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[c.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateInstance, c.ID())
	}
	r.byID[c.ID()] = c
	r.order = append(r.order, c.ID())
	return nil
}

// Get looks up an instance
func (r *Roster) Get(id string) (*Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInstance, id)
	}
	return c, nil
}

// List returns instances in insertion order
func (r *Roster) List() []*Character {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Character, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the instance count
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Remove disposes and drops an instance
func (r *Roster) Remove(id string) error {
	r.mu.Lock()
	c, ok := r.byID[id]
	if ok {
		delete(r.byID, id)
		for i, oid := range r.order {
			if oid == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownInstance, id)
	}
	c.Dispose()
	return nil
}

// Enqueue routes cmd to the instance with id
func (r *Roster) Enqueue(id string, cmd Command) error {
	c, err := r.Get(id)
	if err != nil {
		return err
	}
	return c.Enqueue(cmd)
}

// Update advances every instance by dt; host goroutine only
func (r *Roster) Update(dt time.Duration) {
	for _, c := range r.List() {
		c.Update(dt)
	}
}

// Snapshots returns the published state of every instance
func (r *Roster) Snapshots() []Snapshot {
	list := r.List()
	out := make([]Snapshot, len(list))
	for i, c := range list {
		out[i] = c.Snapshot()
	}
	return out
}

// DisposeAll disposes and drops every instance
func (r *Roster) DisposeAll() {
	r.mu.Lock()
	list := make([]*Character, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, r.byID[id])
	}
	r.byID = make(map[string]*Character)
	r.order = nil
	r.mu.Unlock()

	for _, c := range list {
		c.Dispose()
	}
}
