package handler

import (
	"github.com/gofiber/fiber/v2"
)

// GetDisplay - public one-shot snapshot for displays that cannot hold a
// websocket open: waiting line, current call and the last calls.
func GetDisplay(c *fiber.Ctx) error {
	queue, current, history, err := Core.State(c.Context())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "Queue state unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"queue":        queue,
			"current_call": current,
			"history":      history,
		},
	})
}
