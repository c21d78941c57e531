package host

import (
	"encoding/json"
	"net/http"
	"slices"
	"testing"
	"time"

	"github.com/lixenwraith/moodrig/config"
	"github.com/lixenwraith/moodrig/logging"
	"github.com/lixenwraith/moodrig/server"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Instances = 2
	cfg.FrameInterval = 5 * time.Millisecond
	cfg.Audio = false
	cfg.Seed = 7
	cfg.ServerAddress = ""
	return cfg
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHeadlessLifecycle(t *testing.T) {
	h, err := New(testConfig(), logging.Discard())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if h.Server != nil {
		t.Error("Expected no server with an empty address")
	}
	if err := h.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	order := h.Hub.Order()
	if !slices.Equal(order, []string{"audio", "status", "rig"}) {
		t.Errorf("Expected audio, status, rig order, got %v", order)
	}

	roster := h.Rig.Roster()
	if roster.Len() != 2 {
		t.Fatalf("Expected 2 characters, got %d", roster.Len())
	}
	waitFor(t, "frames", func() bool { return h.Rig.Frames() > 3 })

	chars := roster.List()
	if chars[0].ID() == chars[1].ID() {
		t.Error("Expected distinct instance ids")
	}
	if snap := chars[0].Snapshot(); snap.Dominant != "idle" || !snap.FaceReady {
		t.Errorf("Expected idle with face ready, got %+v", snap)
	}

	if err := h.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	for _, ch := range chars {
		if !ch.Disposed() {
			t.Errorf("Expected %s disposed after Stop", ch.ID())
		}
	}
}

func TestCommandsReachTheLoop(t *testing.T) {
	h, err := New(testConfig(), logging.Discard())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := h.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer h.Stop()

	id := h.Rig.Roster().List()[1].ID()
	cmd, err := server.CommandMessage{Op: "set_mood", X: 0, Y: -1}.Command()
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if err := h.Rig.Roster().Enqueue(id, cmd); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	ch, _ := h.Rig.Roster().Get(id)
	waitFor(t, "lazy mood", func() bool { return ch.Snapshot().Dominant == "lazy" })
	if other := h.Rig.Roster().List()[0].Snapshot(); other.Dominant != "idle" {
		t.Errorf("Expected the other instance untouched, got %s", other.Dominant)
	}
}

func TestServedHost(t *testing.T) {
	cfg := testConfig()
	cfg.Instances = 1
	cfg.ServerAddress = "127.0.0.1:0"

	h, err := New(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := h.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer h.Stop()

	if order := h.Hub.Order(); order[len(order)-1] != "server" {
		t.Errorf("Expected server started last, got %v", order)
	}

	var st server.StatusResponse
	waitFor(t, "status route", func() bool {
		resp, err := http.Get("http://" + h.Server.Addr() + "/api/status")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return json.NewDecoder(resp.Body).Decode(&st) == nil
	})
	if st.Instances != 1 {
		t.Errorf("Expected 1 instance, got %d", st.Instances)
	}
}
