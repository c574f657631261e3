package handler

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"backend-dispatch/internal/config"
)

// AdmitTicketRequest - request body for putting a person in the line.
type AdmitTicketRequest struct {
	Name        string `json:"name"`
	SectorCode  string `json:"sector_code"`
	SectorLabel string `json:"sector_label"`
	Priority    bool   `json:"priority"`
}

// AdmitTicket - reception desk adds a person to the waiting line.
func AdmitTicket(c *fiber.Ctx) error {
	var req AdmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	ticket, err := Core.Admit(c.Context(), req.Name, req.SectorCode, req.SectorLabel, req.Priority)
	if err != nil {
		return reject(c, err, "Could not admit ticket")
	}

	bumpAdmissionCounters(req.SectorCode)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    ticket,
	})
}

// CancelTicket - removes a waiting ticket from the line.
func CancelTicket(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := Core.Cancel(c.Context(), id); err != nil {
		return reject(c, err, "Could not cancel ticket")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Ticket cancelled",
	})
}

// bumpAdmissionCounters keeps the daily per-sector and global admission
// counts in Redis. Counting must never fail an admission: a missing or
// down Redis only costs the statistics.
func bumpAdmissionCounters(sectorCode string) {
	if config.Redis == nil {
		return
	}

	day := time.Now().Format("2006-01-02")
	sectorKey := fmt.Sprintf("dispatch:count:%s:%s", sectorCode, day)
	globalKey := fmt.Sprintf("dispatch:count:global:%s", day)

	if err := config.Redis.Incr(config.Ctx, sectorKey).Err(); err != nil {
		log.Printf("[stats] incr %s: %v", sectorKey, err)
		return
	}
	if err := config.Redis.Incr(config.Ctx, globalKey).Err(); err != nil {
		log.Printf("[stats] incr %s: %v", globalKey, err)
	}
}
