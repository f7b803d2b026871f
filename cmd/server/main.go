package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/config"
	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/database"
	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/routes"
)

func main() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	cfg, err := config.LoadConfig()
	if err != nil {
		zap.S().Fatalw("Failed to load config", "error", err)
	}

	if cfg.DBUrl == "" {
		zap.S().Fatal("DB_URL is required")
	}
	if err := database.ConnectDB(cfg.DBUrl); err != nil {
		zap.S().Fatalw("Failed to connect to database", "error", err)
	}
	defer database.CloseDB()

	app := fiber.New()

	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	routes.RegisterRoutes(app, cfg, database.DB)

	zap.S().Infow("Server starting", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		zap.S().Fatalw("Server failed to start", "error", err)
	}
}
