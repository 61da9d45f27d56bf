package api

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"blockrank/internal/jobs"
	"blockrank/internal/models"
)

// SchedulerHandler exposes scheduler status and manual batch triggers.
type SchedulerHandler struct {
	scheduler *jobs.Scheduler
}

// NewSchedulerHandler creates a new API scheduler handler.
func NewSchedulerHandler(scheduler *jobs.Scheduler) *SchedulerHandler {
	return &SchedulerHandler{scheduler: scheduler}
}

// Status returns the running flag and registered cadence triggers.
func (h *SchedulerHandler) Status(c fiber.Ctx) error {
	return jsonSuccess(c, h.scheduler.Status())
}

// Trigger starts one cadence's batch out of band. The batch runs in the
// background; the request returns immediately.
func (h *SchedulerHandler) Trigger(c fiber.Ctx) error {
	cadence := c.Params("cadence")
	if !models.IsValidCadence(cadence) {
		return jsonError(c, fiber.StatusBadRequest, "cadence must be one of 1h, 6h, 12h, 24h")
	}

	// Detached from the request context: an operator-triggered batch should
	// survive the HTTP request that started it.
	go h.scheduler.TriggerInterval(context.Background(), cadence)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "ok",
		"data":   fiber.Map{"triggered": cadence},
	})
}
