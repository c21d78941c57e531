package mixer

import (
	"time"

	"github.com/lixenwraith/moodrig/track"
)

// Mixer is an in-memory clip-playback simulator
// Stands in for a skeletal animation mixer: it tracks time, weights, fades and loop boundaries
// without producing a pose. Not safe for concurrent use
type Mixer struct {
	time    float64 // seconds
	actions []*Action
	byName  map[string]*Action

	loopListeners     []func(track.Clip)
	finishedListeners []func(track.Clip)
}

// New creates an empty mixer
func New() *Mixer {
	return &Mixer{
		byName: make(map[string]*Action),
	}
}

// ClipAction returns the action for name, creating it with duration on first use
func (m *Mixer) ClipAction(name string, duration time.Duration) *Action {
	if a, ok := m.byName[name]; ok {
		return a
	}
	a := &Action{
		mixer:     m,
		name:      name,
		duration:  duration,
		enabled:   true,
		timeScale: 1,
	}
	m.actions = append(m.actions, a)
	m.byName[name] = a
	return a
}

// Action looks up an existing action
func (m *Mixer) Action(name string) (*Action, bool) {
	a, ok := m.byName[name]
	return a, ok
}

// Clip looks up an action as a track.Clip
func (m *Mixer) Clip(name string) (track.Clip, bool) {
	a, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return a, true
}

// ClipNames returns action names in creation order
func (m *Mixer) ClipNames() []string {
	names := make([]string, len(m.actions))
	for i, a := range m.actions {
		names[i] = a.name
	}
	return names
}

// Actions returns all actions in creation order
func (m *Mixer) Actions() []*Action {
	out := make([]*Action, len(m.actions))
	copy(out, m.actions)
	return out
}

// OnLoop registers a listener for loop boundaries of repeating actions
func (m *Mixer) OnLoop(fn func(track.Clip)) {
	m.loopListeners = append(m.loopListeners, fn)
}

// OnFinished registers a listener for actions that played out
func (m *Mixer) OnFinished(fn func(track.Clip)) {
	m.finishedListeners = append(m.finishedListeners, fn)
}

// Time returns the accumulated mixer time
func (m *Mixer) Time() time.Duration {
	return time.Duration(m.time * float64(time.Second))
}

// Update advances every running action by dt and dispatches boundary events afterwards
func (m *Mixer) Update(dt time.Duration) {
	step := dt.Seconds()
	m.time += step

	var looped, finished []*Action
	for _, a := range m.actions {
		l, f := a.advance(m.time, step)
		if l {
			looped = append(looped, a)
		}
		if f {
			finished = append(finished, a)
		}
	}

	for _, a := range looped {
		for _, fn := range m.loopListeners {
			fn(a)
		}
	}
	for _, a := range finished {
		for _, fn := range m.finishedListeners {
			fn(a)
		}
	}
}
