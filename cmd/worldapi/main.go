package main

import (
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"wilderness-editor/internal/version"
	"wilderness-editor/internal/worldapi"
)

func main() {
	dbPath := getenv("WORLD_DB_PATH", "data/world.db")
	port := getenv("WORLD_PORT", "8390")

	repo, err := worldapi.Open(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer repo.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		AppName:      "Wilderness World Server",
	})

	app.Use(recover.New())
	app.Use(worldapi.Logger())
	app.Use(worldapi.CORS())

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready"})
	})

	worldapi.NewHandler(repo, worldapi.NewSessionManager()).Register(app)

	addr := fmt.Sprintf(":%s", port)
	log.Printf("world server %s listening on %s (db %s)", version.String(), addr, dbPath)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("start server: %v", err)
	}
}

func getenv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
