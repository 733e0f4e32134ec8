package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/pragatibook/pragatibook-backend/internal/middleware"
	"github.com/pragatibook/pragatibook-backend/internal/models"
	"github.com/pragatibook/pragatibook-backend/internal/storage"
)

// TemplateHandler serves per-user invoice template customization
type TemplateHandler struct {
	store storage.Store
}

// NewTemplateHandler creates a new template settings handler
func NewTemplateHandler(store storage.Store) *TemplateHandler {
	return &TemplateHandler{store: store}
}

// Get returns the caller's template settings, or the defaults if none
// have been saved yet
func (h *TemplateHandler) Get(c *fiber.Ctx) error {
	userID := middleware.AuthenticatedUserID(c)

	settings, err := h.store.GetTemplateSettings(userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.JSON(models.DefaultTemplateSettings(userID))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(settings)
}

// Save upserts the caller's template settings as a whole
func (h *TemplateHandler) Save(c *fiber.Ctx) error {
	userID := middleware.AuthenticatedUserID(c)

	var settings models.TemplateSettings
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Ownership comes from the token, never from the payload
	settings.UserID = userID
	settings.ID = 0

	saved, err := h.store.SaveTemplateSettings(&settings)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save template settings",
		})
	}

	return c.JSON(saved)
}
