package main

import (
	"log"

	"daemon/internal/app"
	"daemon/pkg/config"
)

// @title           Daemon Personal API
// @version         1.0
// @description     Personal data API with privacy filtering, multi-user resolution and an MCP tool surface.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	a, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	if err := a.Run(); err != nil {
		log.Fatalf("Failed to run app: %v", err)
	}

	a.Wait()

	if err := a.Shutdown(); err != nil {
		log.Fatalf("Failed to shutdown gracefully: %v", err)
	}
}
