package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/princeprakhar/eyewear-backend/internal/api/routes"
	"github.com/princeprakhar/eyewear-backend/internal/cache"
	"github.com/princeprakhar/eyewear-backend/internal/config"
	"github.com/princeprakhar/eyewear-backend/internal/database"
	"github.com/princeprakhar/eyewear-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Initialize logger
	logger.Init()
	if envErr != nil {
		logger.Info("No .env file found")
	}

	// Load configuration
	cfg := config.Load()
	production := cfg.Environment == "production"

	// Initialize database
	db, err := database.Init(cfg.DatabaseURL, production)
	if err != nil {
		logger.Fatal("Failed to initialize database: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis is optional; without it content reads go straight to the database.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		rdb, err = cache.NewClient(pingCtx, cfg.RedisURL)
		cancel()
		if err != nil {
			logger.Warn("Redis unavailable, running without cache: ", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	// Set Gin mode
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.New()

	// Setup routes
	routes.SetupRoutes(router, db, rdb, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting on port " + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: ", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: ", err)
	}
}
