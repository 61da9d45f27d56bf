package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"blockrank/internal/db"
	"blockrank/internal/models"
	"blockrank/internal/validation"
)

// KeywordHandler handles tracked keyword operations via JSON API.
type KeywordHandler struct {
	db *db.DB
}

// NewKeywordHandler creates a new API keyword handler.
func NewKeywordHandler(database *db.DB) *KeywordHandler {
	return &KeywordHandler{db: database}
}

// Create registers a new tracked keyword.
func (h *KeywordHandler) Create(c fiber.Ctx) error {
	var body struct {
		Keyword   string `json:"keyword"`
		TargetURL string `json:"target_url"`
		Cadence   string `json:"cadence"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if valid, msg := validation.ValidateKeywordText(body.Keyword); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if valid, msg := validation.ValidateTargetURL(body.TargetURL); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if !models.IsValidCadence(body.Cadence) {
		return jsonError(c, fiber.StatusBadRequest, "cadence must be one of 1h, 6h, 12h, 24h")
	}

	kw := &models.TrackedKeyword{
		Keyword:   body.Keyword,
		TargetURL: body.TargetURL,
		Cadence:   body.Cadence,
		IsActive:  true,
	}
	if err := h.db.CreateKeyword(c.Context(), kw); err != nil {
		if errors.Is(err, db.ErrDuplicateKeyword) {
			return jsonError(c, fiber.StatusConflict, "keyword is already tracked for this target URL")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create keyword")
	}

	return jsonCreated(c, kw)
}

// List returns all tracked keywords.
func (h *KeywordHandler) List(c fiber.Ctx) error {
	keywords, err := h.db.ListKeywords(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch keywords")
	}
	return jsonSuccess(c, keywords)
}

// Get returns a single tracked keyword by ID.
func (h *KeywordHandler) Get(c fiber.Ctx) error {
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

	return jsonSuccess(c, kw)
}

// SetActive flips a keyword's activation flag.
func (h *KeywordHandler) SetActive(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid keyword id")
	}

	var body struct {
		Active *bool `json:"active"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body.Active == nil {
		return jsonError(c, fiber.StatusBadRequest, "body must carry an active flag")
	}

	if err := h.db.SetKeywordActive(c.Context(), id, *body.Active); err != nil {
		if errors.Is(err, db.ErrKeywordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "keyword not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update keyword")
	}

	return jsonSuccess(c, fiber.Map{"id": id, "active": *body.Active})
}

// Delete removes a tracked keyword and its measurement history.
func (h *KeywordHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid keyword id")
	}

	if err := h.db.DeleteKeyword(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrKeywordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "keyword not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete keyword")
	}

	return jsonSuccess(c, fiber.Map{"deleted": id})
}
