package mood

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func newTestSpace() *Space[string] {
	s := NewSpace[string]()
	s.AddAnchor(Happy, 1, 0, "idle_happy", "emote_happy_wave")
	s.AddAnchor(Sad, -1, 0, "idle_sad", "emote_sad_sigh")
	s.AddAnchor(Energetic, 0, 1, "idle_energetic", "emote_energetic_jump")
	s.AddAnchor(Lazy, 0, -1, "idle_lazy", "emote_lazy_yawn")
	s.AddAnchor(Idle, 0, 0, "idle", "emote_look", "emote_stretch")
	return s
}

// TestQueryNeutralPenalty verifies the neutral distance is exactly 3x the raw distance
func TestQueryNeutralPenalty(t *testing.T) {
	s := newTestSpace()

	pos := Vec2{X: 0.1, Y: 0.05}
	res := s.Query(pos, -1)

	for _, r := range res {
		raw := pos.Distance(r.Anchor.Position)
		want := raw
		if r.Anchor.Kind == Idle {
			want = raw * 3
		}
		if math.Abs(r.Distance-want) > epsilon {
			t.Errorf("%s: expected ranking distance %f, got %f", r.Anchor.Kind, want, r.Distance)
		}
	}
}

// TestQueryBiasAwayFromNeutral verifies a point near the origin still ranks a mood first
func TestQueryBiasAwayFromNeutral(t *testing.T) {
	s := NewSpace[string]()
	s.AddAnchor(Idle, 0, 0, "idle")
	s.AddAnchor(Happy, 1, 0, "idle_happy")

	// Raw: idle 0.4, happy 0.6 ; penalized idle 1.2
	res := s.Query(Vec2{X: 0.4}, 2)
	if len(res) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(res))
	}
	if res[0].Anchor.Kind != Happy {
		t.Errorf("Expected happy nearest, got %s", res[0].Anchor.Kind)
	}
	if res[1].Anchor.Kind != Idle {
		t.Errorf("Expected idle second, got %s", res[1].Anchor.Kind)
	}
}

func TestQueryExactNeutral(t *testing.T) {
	s := newTestSpace()

	res := s.Query(Vec2{}, 2)
	if res[0].Anchor.Kind != Idle || res[0].Distance != 0 {
		t.Errorf("Expected idle at distance 0 first, got %s at %f", res[0].Anchor.Kind, res[0].Distance)
	}
}

// TestQueryTieKeepsRegistrationOrder verifies equal distances rank by registration
func TestQueryTieKeepsRegistrationOrder(t *testing.T) {
	s := newTestSpace()

	// Equidistant from happy and energetic
	res := s.Query(Vec2{X: 0.5, Y: 0.5}, 2)
	if res[0].Anchor.Kind != Happy || res[1].Anchor.Kind != Energetic {
		t.Errorf("Expected happy then energetic, got %s then %s", res[0].Anchor.Kind, res[1].Anchor.Kind)
	}
}

func TestAddAnchorOverwrites(t *testing.T) {
	s := newTestSpace()
	s.AddAnchor(Happy, 2, 0, "idle_happy_v2")

	if n := len(s.Anchors()); n != 5 {
		t.Errorf("Expected 5 anchors after overwrite, got %d", n)
	}
	a, ok := s.Anchor(Happy)
	if !ok || a.Idle != "idle_happy_v2" || a.Position.X != 2 {
		t.Errorf("Expected overwritten happy anchor, got %+v", a)
	}
	// Overwrite keeps the original slot
	if s.Anchors()[0].Kind != Happy {
		t.Errorf("Expected happy to keep registration slot 0")
	}
}

func TestAvailableEmotes(t *testing.T) {
	s := newTestSpace()

	if got := s.AvailableEmotes(); len(got) != 0 {
		t.Errorf("Expected no emotes before first query, got %v", got)
	}

	// Happy + Energetic: neutral pool added as fallback
	s.Query(Vec2{X: 0.5, Y: 0.5}, 2)
	got := s.AvailableEmotes()
	want := []string{"emote_happy_wave", "emote_energetic_jump", "emote_look", "emote_stretch"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Emote %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	// Idle in result: no duplicate neutral pool
	s.Query(Vec2{X: 0.1}, 2)
	got = s.AvailableEmotes()
	if len(got) != 3 {
		t.Errorf("Expected happy + idle emotes (3), got %v", got)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("grumpy"); ok {
		t.Error("Expected unknown kind to fail")
	}
	if got, _ := ParseKind(" Happy "); got != Happy {
		t.Errorf("Expected case-insensitive parse, got %v", got)
	}
}
