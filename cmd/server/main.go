package main

import (
	"log"
	"os"
	"runtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"backend-dispatch/internal/config"
	"backend-dispatch/internal/dispatch"
	"backend-dispatch/internal/http/handler"
	"backend-dispatch/internal/store/mysql"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	app := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		StrictRouting: true,
	})

	config.LoadEnv()
	config.InitRedis()

	hub := handler.NewHub()

	// QUEUE_MODE=mysql keeps the waiting line in the database so multiple
	// dispatcher processes can claim safely; memory keeps everything in
	// process like the old display server did.
	mode := config.GetEnv("QUEUE_MODE", "memory")
	switch mode {
	case "mysql":
		config.InitDB()
		defer config.CloseDB()
		handler.Core = dispatch.NewPersistent(mysql.New(config.DB), hub)
	case "memory":
		handler.Core = dispatch.NewMemory(hub)
	default:
		log.Fatal("Unknown QUEUE_MODE:", mode)
	}
	log.Println("Queue mode:", mode)

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Dispatch API running",
		})
	})

	// Tickets
	app.Post("/api/tickets", handler.AdmitTicket)
	app.Delete("/api/tickets/:id", handler.CancelTicket)

	// Counter operations
	app.Post("/api/dispatch/next", handler.RequestNext)
	app.Post("/api/dispatch/recall", handler.RecallCall)
	app.Put("/api/queue", handler.RestoreQueue)

	// Displays
	app.Get("/api/display", handler.GetDisplay)
	app.Get("/api/stats/sector/:code", handler.GetSectorStats)
	app.Get("/api/stats/global", handler.GetGlobalStats)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/display", websocket.New(handler.DisplayWebSocket))

	addr := os.Getenv("APP_HOST") + ":" + config.GetEnv("APP_PORT", "3000")
	log.Println("Server running at", addr)
	log.Fatal(app.Listen(addr))
}
