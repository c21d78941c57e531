package server

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

// within fails the test when fn has not returned after a second
func within(t *testing.T, what string, fn func()) {
	t.Helper()
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		fn()
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatalf("%s blocked after hub stop", what)
	}
}

func TestHubStopReleasesClients(t *testing.T) {
	h := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	c := newClient(h, nil, nil, "")
	if !h.join(c) {
		t.Fatal("Expected join on a running hub")
	}
	deadline := time.Now().Add(time.Second)
	for h.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("Client never registered")
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("Expected Done closed after cancel")
	}
	if _, ok := <-c.send; ok {
		t.Error("Expected send closed for a dropped client")
	}
	if n := h.ClientCount(); n != 0 {
		t.Errorf("Expected 0 clients after stop, got %d", n)
	}

	// A pump exiting after the stop must not wait on the hub
	within(t, "leave", func() { h.leave(c) })

	var joined bool
	within(t, "join", func() { joined = h.join(newClient(h, nil, nil, "")) })
	if joined {
		t.Error("Expected join to fail on a stopped hub")
	}

	within(t, "second Run", func() { h.Run(context.Background()) })
}
