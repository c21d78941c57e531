package server

import (
	"context"
	"slices"

	"github.com/gofiber/fiber/v2"

	"github.com/lixenwraith/moodrig/blend"
	"github.com/lixenwraith/moodrig/character"
	"github.com/lixenwraith/moodrig/parameter"
)

// MoodRequest is the body of POST /api/instances/:id/mood
type MoodRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AutoEmotesRequest is the body of POST /api/instances/:id/auto-emotes
type AutoEmotesRequest struct {
	Enabled bool `json:"enabled"`
}

// BodyPartRequest is the body of POST /api/instances/:id/body-parts
type BodyPartRequest struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// StatusResponse is the body of GET /api/status
type StatusResponse struct {
	Instances int            `json:"instances"`
	Clients   int            `json:"clients"`
	Metrics   map[string]any `json:"metrics"`
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{
		Instances: s.roster.Len(),
		Clients:   s.hub.ClientCount(),
		Metrics:   s.reg.Snapshot(),
	})
}

func (s *Server) handleList(c *fiber.Ctx) error {
	return c.JSON(s.roster.Snapshots())
}

func (s *Server) handleGet(c *fiber.Ctx) error {
	ch, err := s.roster.Get(c.Params("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(ch.Snapshot())
}

func (s *Server) handleMood(c *fiber.Ctx) error {
	var req MoodRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid mood body")
	}
	msg := CommandMessage{Op: character.OpSetMood.String(), X: req.X, Y: req.Y}
	cmd, err := msg.Command()
	if err != nil {
		return httpError(err)
	}
	return s.submit(c, cmd)
}

func (s *Server) handleEmote(c *fiber.Ctx) error {
	ch, err := s.roster.Get(c.Params("id"))
	if err != nil {
		return httpError(err)
	}
	name := c.Params("name")
	if !slices.Contains(ch.Emotes(), name) {
		return httpError(blend.ErrUnknownEmote)
	}
	return s.submit(c, character.PlayEmote(name))
}

func (s *Server) handlePause(c *fiber.Ctx) error {
	return s.submit(c, character.Pause())
}

func (s *Server) handleResume(c *fiber.Ctx) error {
	return s.submit(c, character.Resume())
}

func (s *Server) handleAutoEmotes(c *fiber.Ctx) error {
	var req AutoEmotesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid auto-emotes body")
	}
	return s.submit(c, character.ToggleAutoEmotes(req.Enabled))
}

func (s *Server) handleBodyPart(c *fiber.Ctx) error {
	var req BodyPartRequest
	if err := c.BodyParser(&req); err != nil || req.Kind == "" {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body-part body")
	}
	return s.submit(c, character.BodyPartChanged(req.Kind, req.Name))
}

// submit queues cmd for the instance in the path
// With ?wait=true the request blocks until the host loop applied it and reports the outcome
func (s *Server) submit(c *fiber.Ctx, cmd character.Command) error {
	ch, err := s.roster.Get(c.Params("id"))
	if err != nil {
		return httpError(err)
	}

	if !c.QueryBool("wait") {
		if err := ch.Enqueue(cmd); err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"queued": cmd.Op.String()})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), parameter.CommandWaitTimeout)
	defer cancel()
	if err := ch.Submit(ctx, cmd); err != nil {
		return httpError(err)
	}
	return c.JSON(fiber.Map{"applied": cmd.Op.String()})
}
