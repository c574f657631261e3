package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"backend-dispatch/internal/config"
)

// GetSectorStats - how many tickets a sector admitted today.
func GetSectorStats(c *fiber.Ctx) error {
	sectorCode := c.Params("code")

	key := fmt.Sprintf("dispatch:count:%s:%s", sectorCode, time.Now().Format("2006-01-02"))
	val, _ := config.Redis.Get(config.Ctx, key).Int64()

	return c.JSON(fiber.Map{
		"sector_code":    sectorCode,
		"admitted_today": val,
	})
}

// GetGlobalStats - total admissions today across all sectors.
func GetGlobalStats(c *fiber.Ctx) error {
	key := fmt.Sprintf("dispatch:count:global:%s", time.Now().Format("2006-01-02"))
	val, _ := config.Redis.Get(config.Ctx, key).Int64()

	return c.JSON(fiber.Map{
		"admitted_today": val,
	})
}
