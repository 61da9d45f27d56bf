package api

import (
	"github.com/gofiber/fiber/v3"

	"blockrank/internal/db"
)

// HealthHandler answers liveness/readiness probes.
type HealthHandler struct {
	db *db.DB
}

// NewHealthHandler creates a new API health handler.
func NewHealthHandler(database *db.DB) *HealthHandler {
	return &HealthHandler{db: database}
}

// Healthz reports process health and database reachability.
func (h *HealthHandler) Healthz(c fiber.Ctx) error {
	if err := h.db.Pool.Ping(c.Context()); err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "database unreachable")
	}
	return jsonSuccess(c, fiber.Map{"healthy": true})
}
