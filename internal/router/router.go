package router

import (
	"log"
	"log/slog"

	"github.com/civihub/backend/internal/feed"
	"github.com/civihub/backend/internal/handlers"
	"github.com/civihub/backend/internal/middleware"
	"github.com/civihub/backend/internal/models"
	"github.com/civihub/backend/internal/repositories"
	"github.com/civihub/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes migrates the schema and wires routes against PostgreSQL.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, cfg *config.Config) {
	err := pgdb.AutoMigrate(
		&models.Organization{},
		&models.FeedItem{},
		&models.Follow{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	SetupRoutesWithStores(e,
		repositories.NewPostgresFeedItemRepository(pgdb),
		repositories.NewPostgresFollowRepository(pgdb),
		repositories.NewPostgresOrganizationRepository(pgdb),
		cfg,
	)
}

// SetupRoutesWithStores wires routes against the given repositories.
// Tests and the databaseless dev mode pass an in-memory store here.
func SetupRoutesWithStores(
	e *echo.Echo,
	items repositories.FeedItemRepository,
	follows repositories.FollowRepository,
	orgs repositories.OrganizationRepository,
	cfg *config.Config,
) {
	// Health check and metrics - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	resolver := feed.NewResolver(follows)
	engine := feed.NewQueryEngine(items, slog.Default())
	aggregator := feed.NewAggregator(resolver, engine, orgs, cfg.GridCells, cfg.ListIncludesUnlocated)

	api := e.Group("/api/v1")
	api.Use(middleware.UserIdentity())

	feedHandler := handlers.NewFeedHandler(aggregator)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")
}
