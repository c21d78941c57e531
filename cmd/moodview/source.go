package main

import (
	"context"
	"fmt"
	"time"

	"github.com/lixenwraith/moodrig/character"
	"github.com/lixenwraith/moodrig/engine"
	"github.com/lixenwraith/moodrig/host"
	"github.com/lixenwraith/moodrig/remote"
	"github.com/lixenwraith/moodrig/server"
)

// source is what the viewer draws and drives: an in-process host or a remote one
type source interface {
	Snapshot() character.Snapshot
	Send(msg server.CommandMessage) error
	Notices() <-chan string
	Next()
	Label() string
	Close() error
}

// localSource hosts the roster in this process
type localSource struct {
	h       *host.Host
	current int
}

func newLocalSource(h *host.Host) *localSource {
	return &localSource{h: h}
}

func (s *localSource) selected() *character.Character {
	list := s.h.Rig.Roster().List()
	if len(list) == 0 {
		return nil
	}
	return list[s.current%len(list)]
}

func (s *localSource) Snapshot() character.Snapshot {
	if ch := s.selected(); ch != nil {
		return ch.Snapshot()
	}
	return character.Snapshot{}
}

func (s *localSource) Send(msg server.CommandMessage) error {
	ch := s.selected()
	if ch == nil {
		return character.ErrUnknownInstance
	}
	cmd, err := msg.Command()
	if err != nil {
		return err
	}
	return ch.Enqueue(cmd)
}

// Notices is never written; local failures are returned by Send
func (s *localSource) Notices() <-chan string { return nil }

func (s *localSource) Next() { s.current++ }

func (s *localSource) Label() string {
	label := fmt.Sprintf("local %d/%d", s.current%max(1, s.h.Rig.Roster().Len())+1, s.h.Rig.Roster().Len())
	if s.h.Server != nil {
		label += " serving " + s.h.Server.Addr()
	}
	return label
}

func (s *localSource) Close() error { return s.h.Stop() }

// remoteSource mirrors one instance of a moodrig host over its event stream
type remoteSource struct {
	base    string
	id      string
	client  *remote.Client
	view    *remote.View
	notices chan string
}

func newRemoteSource(ctx context.Context, base, id string) (*remoteSource, error) {
	if id == "" {
		list, err := remote.FetchInstances(base, requestTimeout)
		if err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("%s hosts no instances", base)
		}
		id = list[0].ID
	}

	snap, err := remote.FetchSnapshot(base, id, requestTimeout)
	if err != nil {
		return nil, err
	}
	wsURL, err := remote.EventsURL(base, id)
	if err != nil {
		return nil, err
	}
	client, err := remote.Dial(ctx, wsURL)
	if err != nil {
		return nil, err
	}

	s := &remoteSource{
		base:    base,
		id:      id,
		client:  client,
		view:    remote.NewView(snap),
		notices: make(chan string, 16),
	}
	engine.Go(s.pump)
	return s, nil
}

func (s *remoteSource) pump() {
	events, rejections := s.client.Events(), s.client.Rejections()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				s.notify("disconnected")
				return
			}
			s.view.Apply(ev)
		case msg := <-rejections:
			s.notify("rejected: " + msg)
		}
	}
}

func (s *remoteSource) notify(msg string) {
	select {
	case s.notices <- msg:
	default:
	}
}

func (s *remoteSource) Snapshot() character.Snapshot { return s.view.Snapshot() }

func (s *remoteSource) Send(msg server.CommandMessage) error {
	msg.InstanceID = s.id
	return s.client.Send(msg)
}

func (s *remoteSource) Notices() <-chan string { return s.notices }

// Next is a no-op: a remote view is bound to one instance
func (s *remoteSource) Next() {}

func (s *remoteSource) Label() string {
	return "remote " + s.base
}

func (s *remoteSource) Close() error { return s.client.Close() }

const requestTimeout = 5 * time.Second
