package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"retronova/config"
	"retronova/database"
	"retronova/helpers"
	"retronova/middlewares"
	"retronova/routes"
	"retronova/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	logger, err := utils.InitLogger()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load()

	if err := database.Connect(cfg, logger); err != nil {
		logger.Fatal("Failed to connect to database")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return helpers.Fail(c, err)
		},
	})
	app.Use(middlewares.RequestLogger(logger))
	routes.Setup(app, cfg)

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	logger.Info("Server running at " + addr)

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Panicf("Failed to start server: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logger.Info("Gracefully shutting down...")
	if err := app.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	logger.Info("Server exited cleanly")
}
