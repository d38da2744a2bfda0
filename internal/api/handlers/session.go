package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"route-session-service/internal/api/dto"
	"route-session-service/internal/services"
)

// SessionHandler exposes the live route session to the presentation layer.
// Handlers stay unaware of concrete adapters: edits and toggles go through
// the scheduler, reads through session snapshots.
type SessionHandler struct {
	Session   *services.Session
	Scheduler *services.Scheduler
}

// Snapshot returns the full session view: current/previous result, loading
// flag, error text, change flags and the active notification.
func (h *SessionHandler) Snapshot(c *fiber.Ctx) error {
	return c.JSON(dto.FromSnapshot(h.Session.Snapshot()))
}

// Steps returns the ordered turn-by-turn steps of the displayed route.
func (h *SessionHandler) Steps(c *fiber.Ctx) error {
	current := h.Session.CurrentResult()
	if current == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "no route is currently displayed",
		})
	}
	return c.JSON(dto.StepsResponse{Steps: dto.FromSteps(current.Steps)})
}

// UpdateEndpoints feeds an endpoint edit into the debounce trigger.
func (h *SessionHandler) UpdateEndpoints(c *fiber.Ctx) error {
	var req dto.EndpointsRequest
	if err := c.BodyParser(&req); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "invalid json body",
		})
	}

	if strings.TrimSpace(req.Source) == "" || strings.TrimSpace(req.Destination) == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "source and destination are required",
		})
	}

	h.Scheduler.EditEndpoints(req.Source, req.Destination, req.Mode)

	c.SendStatus(fiber.StatusAccepted)
	return c.JSON(fiber.Map{
		"status": "accepted",
	})
}

// SetMonitoring toggles the background live-monitoring poll.
func (h *SessionHandler) SetMonitoring(c *fiber.Ctx) error {
	var req dto.MonitoringRequest
	if err := c.BodyParser(&req); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "invalid json body",
		})
	}

	h.Scheduler.SetMonitoring(req.Enabled)
	return c.JSON(fiber.Map{
		"monitoring": req.Enabled,
	})
}

// DismissNotification clears the active route-updated banner.
func (h *SessionHandler) DismissNotification(c *fiber.Ctx) error {
	h.Session.DismissNotification()
	return c.SendStatus(fiber.StatusNoContent)
}
