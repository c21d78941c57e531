package expression

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/moodrig/engine"
	"github.com/lixenwraith/moodrig/event"
	"github.com/lixenwraith/moodrig/mood"
	"github.com/lixenwraith/moodrig/parameter"
	"github.com/lixenwraith/moodrig/sprite"
)

var testEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	bus    *event.Bus
	loader *MemoryLoader
	scene  *MemoryScene
	face   *sprite.MemoryMaterial
	sched  *engine.ManualScheduler
	mgr    *Manager
}

func newFixture(t *testing.T, id string) *fixture {
	t.Helper()
	f := &fixture{
		bus:    event.NewBus(),
		loader: &MemoryLoader{},
		face:   sprite.NewMemoryMaterial(parameter.FaceMaterialName, parameter.FaceMaterialParent),
		sched:  engine.NewManualScheduler(engine.NewMockTimeProvider(testEpoch)),
	}
	f.scene = NewMemoryScene(
		sprite.NewMemoryMaterial(parameter.FaceMaterialName, "Head"),
		f.face,
	)
	f.mgr = New(id, f.bus, f.loader, f.scene, f.sched)
	return f
}

func rowDef(kind mood.Kind, row int, loop bool) sprite.Def {
	return sprite.Def{
		Kind:  kind,
		Start: &sprite.Index{Row: row, Col: 0},
		End:   &sprite.Index{Row: row, Col: parameter.AtlasColumns - 1},
		FPS:   10,
		Loop:  loop,
	}
}

func TestInitFailureIsolation(t *testing.T) {
	f := newFixture(t, "a")
	f.loader.Missing = map[string]bool{parameter.AtlasPath: true}

	if err := f.mgr.Init(context.Background()); err == nil {
		t.Fatal("Expected Init to fail with a missing atlas")
	}
	if f.mgr.Initialized() {
		t.Error("Expected manager uninitialized")
	}

	if err := f.mgr.RegisterAnimation(rowDef(mood.Happy, 0, true)); err != nil {
		t.Fatalf("Expected registration to work without an atlas, got %v", err)
	}
	f.mgr.PlayAnimation(mood.Happy, nil)
	if _, ok := f.mgr.Current(); ok {
		t.Error("Expected playback skipped while uninitialized")
	}

	// Mood events are not subscribed yet
	if n := f.bus.HandlerCount(event.EventMoodChanged); n != 0 {
		t.Errorf("Expected no mood subscription, got %d", n)
	}

	f.loader.Missing = nil
	if err := f.mgr.Init(context.Background()); err != nil {
		t.Fatalf("Expected re-init to succeed, got %v", err)
	}
	f.mgr.PlayAnimation(mood.Happy, nil)
	if kind, ok := f.mgr.Current(); !ok || kind != mood.Happy {
		t.Errorf("Expected happy animation after re-init, got %v %v", kind, ok)
	}
}

func TestInitMaterialNotFound(t *testing.T) {
	f := newFixture(t, "a")
	f.mgr = New("a", f.bus, f.loader, NewMemoryScene(), f.sched)

	if err := f.mgr.Init(context.Background()); !errors.Is(err, ErrMaterialNotFound) {
		t.Errorf("Expected ErrMaterialNotFound, got %v", err)
	}
}

func TestInitBindsFaceMaterialUnderParent(t *testing.T) {
	f := newFixture(t, "a")
	if err := f.mgr.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if f.face.Map() == nil {
		t.Fatal("Expected atlas bound to the face material under Body")
	}
	if f.mgr.Atlas().Material() != sprite.Material(f.face) {
		t.Error("Expected atlas to track the bound material")
	}
}

func TestRegisterAnimationRejectsInvalid(t *testing.T) {
	f := newFixture(t, "a")

	tests := []struct {
		name string
		def  sprite.Def
	}{
		{"no frames", sprite.Def{Kind: mood.Sad, FPS: 12}},
		{"half range", sprite.Def{Kind: mood.Sad, Start: &sprite.Index{}, FPS: 12}},
		{"zero fps", sprite.Def{Kind: mood.Sad, Frames: []sprite.Frame{{}}, FPS: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := f.mgr.RegisterAnimation(tt.def); !errors.Is(err, ErrInvalidDefinition) {
				t.Errorf("Expected ErrInvalidDefinition, got %v", err)
			}
		})
	}
	if f.mgr.Registered(mood.Sad) {
		t.Error("Expected nothing registered")
	}
}

func TestMoodChangedSwitchesAnimation(t *testing.T) {
	f := newFixture(t, "a")
	f.mgr.Init(context.Background())
	f.mgr.RegisterAnimations(rowDef(mood.Happy, 0, true), rowDef(mood.Sad, 4, true))

	var changes []string
	f.bus.Subscribe(event.EventExpressionChanged, func(ev event.Event) {
		changes = append(changes, ev.Payload.(*event.ExpressionChangedPayload).Mood)
	})

	f.bus.Emit(event.Event{
		Type:       event.EventMoodChanged,
		InstanceID: "a",
		Payload:    &event.MoodChangedPayload{X: -1, Dominant: "sad"},
	})

	if kind, _ := f.mgr.Current(); kind != mood.Sad {
		t.Errorf("Expected sad animation, got %s", kind)
	}
	if frame, _ := f.mgr.Frame(); frame.Row != 4 || frame.Col != 0 {
		t.Errorf("Expected first sad frame on the atlas, got %+v", frame)
	}
	if len(changes) != 1 || changes[0] != "sad" {
		t.Errorf("Expected one ExpressionChanged for sad, got %v", changes)
	}

	// Another instance's event is filtered
	f.bus.Emit(event.Event{
		Type:       event.EventMoodChanged,
		InstanceID: "b",
		Payload:    &event.MoodChangedPayload{X: 1, Dominant: "happy"},
	})
	if kind, _ := f.mgr.Current(); kind != mood.Sad {
		t.Errorf("Expected foreign instance ignored, got %s", kind)
	}

	// Unregistered kind leaves the running animation alone
	f.bus.Emit(event.Event{
		Type:       event.EventMoodChanged,
		InstanceID: "a",
		Payload:    &event.MoodChangedPayload{Y: 1, Dominant: "energetic"},
	})
	if kind, _ := f.mgr.Current(); kind != mood.Sad {
		t.Errorf("Expected unregistered kind skipped, got %s", kind)
	}
}

func TestSpriteTimerIndependentOfCaller(t *testing.T) {
	f := newFixture(t, "a")
	f.mgr.Init(context.Background())
	f.mgr.RegisterAnimation(rowDef(mood.Happy, 0, true))
	f.mgr.PlayAnimation(mood.Happy, nil)

	f.sched.Advance(500 * time.Millisecond)

	if frame, _ := f.mgr.Frame(); frame.Col != 5 {
		t.Errorf("Expected col 5 after 5 ticks at 10fps, got %+v", frame)
	}
}

func TestNonLoopingCompletion(t *testing.T) {
	f := newFixture(t, "a")
	f.mgr.Init(context.Background())
	f.mgr.RegisterAnimation(sprite.Def{
		Kind:   mood.Lazy,
		Frames: []sprite.Frame{{Row: 5, Col: 0}, {Row: 5, Col: 1}},
		FPS:    10,
	})

	done := 0
	f.mgr.PlayAnimation(mood.Lazy, func() { done++ })
	f.sched.Advance(time.Second)

	if done != 1 {
		t.Errorf("Expected completion exactly once, got %d", done)
	}
	if frame, _ := f.mgr.Frame(); frame.Col != 1 {
		t.Errorf("Expected last frame held, got %+v", frame)
	}
}

func TestPauseCarriesIntoNewAnimation(t *testing.T) {
	f := newFixture(t, "a")
	f.mgr.Init(context.Background())
	f.mgr.RegisterAnimations(rowDef(mood.Happy, 0, true), rowDef(mood.Sad, 4, true))
	f.mgr.PlayAnimation(mood.Happy, nil)

	f.mgr.Pause()
	f.mgr.PlayAnimation(mood.Sad, nil)
	f.sched.Advance(300 * time.Millisecond)

	if !f.mgr.Controller().Paused() {
		t.Error("Expected new controller to start paused")
	}
	if frame, _ := f.mgr.Frame(); frame.Row != 0 {
		t.Errorf("Expected atlas held on the happy frame, got %+v", frame)
	}

	f.mgr.Resume()
	f.sched.Advance(100 * time.Millisecond)
	if frame, _ := f.mgr.Frame(); frame.Row != 4 {
		t.Errorf("Expected sad frames after resume, got %+v", frame)
	}
}

func TestBodyPartChangedRebindsMaterial(t *testing.T) {
	f := newFixture(t, "a")
	f.mgr.Init(context.Background())
	tex := f.face.Map()

	swapped := sprite.NewMemoryMaterial(parameter.FaceMaterialName, parameter.FaceMaterialParent)
	f.scene.Replace(swapped)

	f.bus.Emit(event.Event{
		Type:       event.EventBodyPartChanged,
		InstanceID: "a",
		Payload:    &event.BodyPartChangedPayload{PartKind: "body", PartName: "round"},
	})

	if swapped.Map() != tex {
		t.Error("Expected atlas texture rebound to the swapped material")
	}
}

func TestDisposeReleasesEverything(t *testing.T) {
	f := newFixture(t, "a")
	f.mgr.Init(context.Background())
	f.mgr.RegisterAnimation(rowDef(mood.Happy, 0, true))
	f.mgr.PlayAnimation(mood.Happy, nil)
	tex := f.face.Map().(*sprite.MemoryTexture)

	f.mgr.Dispose()

	if f.bus.HandlerCount(event.EventMoodChanged) != 0 || f.bus.HandlerCount(event.EventBodyPartChanged) != 0 {
		t.Error("Expected subscriptions dropped")
	}
	if !tex.Disposed() {
		t.Error("Expected atlas clone disposed")
	}
	if f.sched.Active() != 0 {
		t.Errorf("Expected sprite ticker stopped, %d active", f.sched.Active())
	}
	f.mgr.PlayAnimation(mood.Happy, nil)
	if _, ok := f.mgr.Current(); ok {
		t.Error("Expected disposed manager to skip playback")
	}
}
