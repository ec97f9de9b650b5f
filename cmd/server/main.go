package main

import (
	"log"

	"github.com/civihub/backend/internal/repositories"
	"github.com/civihub/backend/internal/router"
	"github.com/civihub/backend/pkg/config"
	"github.com/civihub/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	if cfg.PostgresURL == "" {
		log.Println("POSTGRES_CONN_STR not set, serving from in-memory store.")
		store := repositories.NewMemoryStore()
		router.SetupRoutesWithStores(e, store, store, store, cfg)
	} else {
		db, err := config.InitDB(cfg.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.CloseDB() // Ensure database connection is closed when main exits
		router.SetupRoutes(e, db.Postgres, cfg)
	}

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
