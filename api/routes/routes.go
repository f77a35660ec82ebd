package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bancalot/pool-admin-backend/internal/config"
	"github.com/bancalot/pool-admin-backend/internal/handlers"
	"github.com/bancalot/pool-admin-backend/internal/middleware"
)

// HandlerDependencies groups the handlers the router wires up
type HandlerDependencies struct {
	CatalogHandler    *handlers.CatalogHandler
	PoolConfigHandler *handlers.PoolConfigHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	// Add middleware
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		// Health check
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})

		// Catalog reads are safe without auth; the catalog is public data
		// within the console.
		public.GET("/catalog/bet-types", deps.CatalogHandler.GetBetTypes)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		protected.DELETE("/catalog/cache", deps.CatalogHandler.ClearCache)

		// Betting pool override configuration
		pools := protected.Group("/betting-pools/:id")
		{
			pools.GET("/overrides", deps.PoolConfigHandler.GetOverrides)
			pools.PUT("/overrides", deps.PoolConfigHandler.ReplaceOverrides)
			pools.GET("/overrides/resolve", deps.PoolConfigHandler.ResolveOverride)
			pools.POST("/overrides/save", deps.PoolConfigHandler.SaveOverrides)
			pools.POST("/overrides/import", deps.PoolConfigHandler.ImportTemplate)
			pools.GET("/draws/:drawId/overrides", deps.PoolConfigHandler.GetDrawValues)
			pools.POST("/draws/:drawId/activate", deps.PoolConfigHandler.ActivateDraw)
		}
	}

	return router
}
