package mood

import (
	"slices"

	"github.com/lixenwraith/moodrig/parameter"
)

// Anchor binds a point in mood space to one looping idle track and its emotes
// T is the track handle type
type Anchor[T comparable] struct {
	Kind     Kind
	Position Vec2
	Idle     T
	Emotes   []T
}

// Result is one ranked anchor of a query
// Distance is the ranking distance, penalty applied for the neutral anchor
type Result[T comparable] struct {
	Anchor   *Anchor[T]
	Distance float64
}

// Space stores mood anchors and answers nearest-anchor queries
// Not safe for concurrent use; owned by one blend controller
type Space[T comparable] struct {
	anchors []*Anchor[T] // registration order
	neutral Kind
	penalty float64
	current []Result[T]
	queried bool
}

// NewSpace creates a space with Idle as the neutral anchor and the default distance penalty
func NewSpace[T comparable]() *Space[T] {
	return NewSpaceWithPenalty[T](Idle, parameter.NeutralDistancePenalty)
}

// NewSpaceWithPenalty creates a space with an explicit neutral kind and penalty factor
func NewSpaceWithPenalty[T comparable](neutral Kind, penalty float64) *Space[T] {
	return &Space[T]{
		neutral: neutral,
		penalty: penalty,
	}
}

// AddAnchor registers an anchor, a duplicate kind overwrites the previous one in place
func (s *Space[T]) AddAnchor(kind Kind, x, y float64, idle T, emotes ...T) *Anchor[T] {
	a := &Anchor[T]{
		Kind:     kind,
		Position: Vec2{X: x, Y: y},
		Idle:     idle,
		Emotes:   slices.Clone(emotes),
	}
	for i, existing := range s.anchors {
		if existing.Kind == kind {
			s.anchors[i] = a
			return a
		}
	}
	s.anchors = append(s.anchors, a)
	return a
}

// Anchor returns the anchor registered for kind
func (s *Space[T]) Anchor(kind Kind) (*Anchor[T], bool) {
	for _, a := range s.anchors {
		if a.Kind == kind {
			return a, true
		}
	}
	return nil, false
}

// Anchors returns all anchors in registration order
func (s *Space[T]) Anchors() []*Anchor[T] {
	return slices.Clone(s.anchors)
}

// Penalty returns the neutral distance multiplier
func (s *Space[T]) Penalty() float64 {
	return s.penalty
}

// Query ranks anchors by distance to pos and returns the k nearest
// The neutral anchor's distance is multiplied by the penalty before ranking
// Equal distances keep registration order
// The result becomes the current result used by AvailableEmotes
func (s *Space[T]) Query(pos Vec2, k int) []Result[T] {
	ranked := make([]Result[T], 0, len(s.anchors))
	for _, a := range s.anchors {
		d := pos.Distance(a.Position)
		if a.Kind == s.neutral {
			d *= s.penalty
		}
		ranked = append(ranked, Result[T]{Anchor: a, Distance: d})
	}

	slices.SortStableFunc(ranked, func(a, b Result[T]) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})

	if k >= 0 && k < len(ranked) {
		ranked = ranked[:k]
	}

	s.current = ranked
	s.queried = true
	return slices.Clone(ranked)
}

// Current returns the last query result, nil before the first query
func (s *Space[T]) Current() []Result[T] {
	return slices.Clone(s.current)
}

// AvailableEmotes returns the union of emotes of the anchors in the last result
// When the neutral anchor is not among them its emotes are added as a fallback pool
// Empty before the first query
func (s *Space[T]) AvailableEmotes() []T {
	if !s.queried {
		return nil
	}

	var out []T
	seen := make(map[T]struct{})
	add := func(list []T) {
		for _, e := range list {
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}

	hasNeutral := false
	for _, r := range s.current {
		if r.Anchor.Kind == s.neutral {
			hasNeutral = true
		}
		add(r.Anchor.Emotes)
	}
	if !hasNeutral {
		if n, ok := s.Anchor(s.neutral); ok {
			add(n.Emotes)
		}
	}
	return out
}
