package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pragatibook/pragatibook-backend/internal/middleware"
	"github.com/pragatibook/pragatibook-backend/internal/models"
	"github.com/pragatibook/pragatibook-backend/internal/pricing"
	"github.com/pragatibook/pragatibook-backend/internal/storage"
)

// BillHandler handles bill CRUD. Every operation is scoped to the
// authenticated owner; a bill belonging to someone else is reported
// exactly like a bill that does not exist.
type BillHandler struct {
	store storage.Store
}

// NewBillHandler creates a new bill handler
func NewBillHandler(store storage.Store) *BillHandler {
	return &BillHandler{store: store}
}

// List returns the caller's bills, most recently updated first
func (h *BillHandler) List(c *fiber.Ctx) error {
	userID := middleware.AuthenticatedUserID(c)

	bills, err := h.store.GetBillsByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	responses := make([]models.BillResponse, 0, len(bills))
	for _, bill := range bills {
		responses = append(responses, bill.ToResponse())
	}
	return c.JSON(responses)
}

// parseBillRequest validates the payload and rederives every amount and the
// total; client-sent derived values are never persisted.
func parseBillRequest(c *fiber.Ctx) (*models.BillRequest, error) {
	var req models.BillRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errors.New("Invalid request body")
	}

	req.CustomerName = strings.TrimSpace(req.CustomerName)
	if err := validate.Struct(req); err != nil {
		return nil, errors.New("Customer name, date, and items are required")
	}

	if err := pricing.ValidateItems(req.Items); err != nil {
		return nil, err
	}

	items, total := pricing.Recalculate(req.Items)
	req.Items = items
	req.Total = total
	return &req, nil
}

// Create saves a new bill for the caller
func (h *BillHandler) Create(c *fiber.Ctx) error {
	userID := middleware.AuthenticatedUserID(c)

	req, err := parseBillRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	bill, err := h.store.CreateBill(&models.Bill{
		UserID:       userID,
		CustomerName: req.CustomerName,
		Description:  req.Description,
		Date:         req.Date,
		Items:        req.Items,
		Total:        req.Total,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create bill",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(bill.ToResponse())
}

// Get returns one bill by id, owner-scoped
func (h *BillHandler) Get(c *fiber.Ctx) error {
	userID := middleware.AuthenticatedUserID(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Bill not found",
		})
	}

	bill, err := h.store.GetBill(uint(id), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Bill not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(bill.ToResponse())
}

// Update replaces a bill's content, including the full item set
func (h *BillHandler) Update(c *fiber.Ctx) error {
	userID := middleware.AuthenticatedUserID(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Bill not found",
		})
	}

	req, err := parseBillRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	bill := &models.Bill{
		UserID:       userID,
		CustomerName: req.CustomerName,
		Description:  req.Description,
		Date:         req.Date,
		Items:        req.Items,
		Total:        req.Total,
	}
	bill.ID = uint(id)

	if err := h.store.UpdateBill(bill); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Bill not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	updated, err := h.store.GetBill(uint(id), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	return c.JSON(updated.ToResponse())
}

// Delete removes a bill permanently
func (h *BillHandler) Delete(c *fiber.Ctx) error {
	userID := middleware.AuthenticatedUserID(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Bill not found",
		})
	}

	if err := h.store.DeleteBill(uint(id), userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Bill not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Bill deleted successfully",
	})
}
