package handler

import (
	"github.com/gofiber/fiber/v2"

	"backend-dispatch/internal/models"
)

// RequestNextRequest - a counter asking for its next person.
type RequestNextRequest struct {
	SectorCode  string `json:"sector_code"`
	Room        string `json:"room"`
	SectorLabel string `json:"sector_label"`
}

// RequestNext - claims the next waiting ticket of the sector and announces
// it at the counter's room.
func RequestNext(c *fiber.Ctx) error {
	var req RequestNextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	call, err := Core.RequestNext(c.Context(), req.SectorCode, req.Room, req.SectorLabel)
	if err != nil {
		return reject(c, err, "No one is waiting for your sector")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    call,
	})
}

// RecallCall - re-announces the current call without consuming a ticket.
func RecallCall(c *fiber.Ctx) error {
	call, ok := Core.Recall()
	if !ok {
		// Nothing has been called yet, nothing to repeat.
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    call,
	})
}

// RestoreQueueRequest - bulk replacement of the waiting line.
type RestoreQueueRequest struct {
	Tickets []models.Ticket `json:"tickets"`
}

// RestoreQueue - replaces the in-memory waiting line wholesale. Only
// meaningful without a database; with one the store is the source of truth.
func RestoreQueue(c *fiber.Ctx) error {
	if Core.Persistent() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "Queue is database-backed, restore not available",
		})
	}

	var req RestoreQueueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if err := Core.Restore(c.Context(), req.Tickets); err != nil {
		return reject(c, err, "Malformed ticket sequence")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Queue restored",
	})
}
