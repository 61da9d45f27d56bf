package api

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"blockrank/internal/db"
	"blockrank/internal/models"
)

// Runner executes one on-demand measurement. Implemented by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, kw models.TrackedKeyword) models.MeasurementOutcome
}

// MeasurementHandler serves measurement history and on-demand runs.
type MeasurementHandler struct {
	db     *db.DB
	runner Runner
}

// NewMeasurementHandler creates a new API measurement handler.
func NewMeasurementHandler(database *db.DB, runner Runner) *MeasurementHandler {
	return &MeasurementHandler{db: database, runner: runner}
}

// MeasureNow runs the pipeline synchronously for one keyword, persists the
// outcome, and returns it.
func (h *MeasurementHandler) MeasureNow(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid keyword id")
	}

	kw, err := h.db.GetKeywordByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrKeywordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "keyword not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch keyword")
	}

	outcome := h.runner.Run(c.Context(), *kw)
	if err := h.db.AppendMeasurement(c.Context(), &outcome); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to persist outcome")
	}

	return jsonSuccess(c, outcome)
}

// History returns a keyword's measurement history, newest first.
func (h *MeasurementHandler) History(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid keyword id")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}

	outcomes, err := h.db.ListMeasurements(c.Context(), id, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch measurements")
	}

	return jsonSuccess(c, outcomes)
}

// RankChange returns the latest/previous outcome pair with the rank delta.
func (h *MeasurementHandler) RankChange(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid keyword id")
	}

	latest, previous, err := h.db.LatestAndPrevious(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrMeasurementNotFound) {
			return jsonError(c, fiber.StatusNotFound, "no measurements recorded yet")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch measurements")
	}

	change := models.RankChange{Latest: latest, Previous: previous}
	change.ComputeDelta()

	return jsonSuccess(c, change)
}
