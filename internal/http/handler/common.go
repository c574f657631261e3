package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"backend-dispatch/internal/dispatch"
)

// Core - the dispatch engine shared by every handler, set once in main.
var Core *dispatch.Dispatcher

// rejectStatus maps the operation error taxonomy onto HTTP statuses. The
// body goes back to the requesting counter only; displays see nothing
// until the next successful mutation.
func rejectStatus(err error) int {
	switch {
	case errors.Is(err, dispatch.ErrInvalidRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, dispatch.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, dispatch.ErrNoWaitingTicket):
		return fiber.StatusNotFound
	case errors.Is(err, dispatch.ErrStoreUnavailable), errors.Is(err, dispatch.ErrDispatchFailed):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func reject(c *fiber.Ctx, err error, msg string) error {
	return c.Status(rejectStatus(err)).JSON(fiber.Map{
		"success": false,
		"error":   msg,
		"reason":  err.Error(),
	})
}
