package remote

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lixenwraith/moodrig/character"
	"github.com/lixenwraith/moodrig/event"
)

// View is the state of one remote instance rebuilt from its event stream
type View struct {
	mu sync.RWMutex

	snap  character.Snapshot
	last  string
	count int
}

// NewView starts from a fetched snapshot
func NewView(snap character.Snapshot) *View {
	return &View{snap: snap}
}

// Apply folds ev into the view; events for other instances are ignored
func (v *View) Apply(ev event.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.snap.ID != "" && ev.InstanceID != v.snap.ID {
		return
	}
	v.count++
	v.last = event.GetEventName(ev.Type)

	switch p := ev.Payload.(type) {
	case *event.MoodChangedPayload:
		v.snap.X, v.snap.Y = p.X, p.Y
		v.snap.Dominant = p.Dominant
		v.snap.ActiveEmote = ""
		v.snap.State = "blending"
	case *event.EmoteStartedPayload:
		v.snap.ActiveEmote = p.Name
		v.snap.State = "transitioning_in"
	case *event.EmoteFinishedPayload:
		if v.snap.ActiveEmote == p.Name {
			v.snap.ActiveEmote = ""
		}
		v.snap.State = "blending"
	case *event.ExpressionChangedPayload:
		v.snap.Face = p.Mood
	case *event.PlaybackToggledPayload:
		v.snap.Paused = p.Paused
	}
}

// Snapshot returns the current view
func (v *View) Snapshot() character.Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snap
}

// LastEvent returns the name of the last applied event and the total applied
func (v *View) LastEvent() (string, int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.last, v.count
}

// FetchSnapshot reads GET /api/instances/:id from a host
func FetchSnapshot(base, instanceID string, timeout time.Duration) (character.Snapshot, error) {
	var snap character.Snapshot
	url := strings.TrimRight(base, "/") + "/api/instances/" + instanceID

	code, body, errs := fiber.Get(url).Timeout(timeout).Struct(&snap)
	if len(errs) > 0 {
		return snap, fmt.Errorf("fetch %s: %w", url, errs[0])
	}
	if code != fiber.StatusOK {
		return snap, fmt.Errorf("fetch %s: status %d: %s", url, code, body)
	}
	return snap, nil
}

// FetchInstances reads GET /api/instances from a host
func FetchInstances(base string, timeout time.Duration) ([]character.Snapshot, error) {
	var list []character.Snapshot
	url := strings.TrimRight(base, "/") + "/api/instances"

	code, body, errs := fiber.Get(url).Timeout(timeout).Struct(&list)
	if len(errs) > 0 {
		return nil, fmt.Errorf("fetch %s: %w", url, errs[0])
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d: %s", url, code, body)
	}
	return list, nil
}
