package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/bancalot/pool-admin-backend/api/routes"
	"github.com/bancalot/pool-admin-backend/internal/catalog"
	"github.com/bancalot/pool-admin-backend/internal/config"
	"github.com/bancalot/pool-admin-backend/internal/handlers"
	"github.com/bancalot/pool-admin-backend/internal/services"
	"github.com/bancalot/pool-admin-backend/pkg/lotoapi"
)

func main() {
	// Load .env first so viper's AutomaticEnv picks the values up
	envFile := config.GetEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("No %s file loaded: %v", envFile, err)
	}

	if config.GetEnvAsBool("GIN_RELEASE", false) {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Upstream platform client
	platformClient := lotoapi.NewClient(cfg.Platform.BaseURL, cfg.Platform.APIToken, cfg.Platform.MockAPI)
	if cfg.Platform.MockAPI {
		log.Println("Platform API running in mock mode")
	}

	// Catalog cache
	catalogCache := catalog.NewWithTTL(platformClient, cfg.Catalog.TTL)

	// Services
	configService := services.NewPoolConfigService(platformClient, catalogCache)

	// Handlers
	catalogHandler := handlers.NewCatalogHandler(catalogCache)
	poolConfigHandler := handlers.NewPoolConfigHandler(configService)

	handlerDeps := routes.HandlerDependencies{
		CatalogHandler:    catalogHandler,
		PoolConfigHandler: poolConfigHandler,
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)

	// Run server in a goroutine so that it doesn't block
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}
