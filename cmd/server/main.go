// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"maw-backend/internal/config"
	"maw-backend/internal/database"
	"maw-backend/internal/handlers"
	"maw-backend/internal/repository"
	"maw-backend/internal/routes"
	"maw-backend/internal/services"
)

func initLogger(env string) *zap.Logger {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	// Customize time format
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger
}

func main() {
	// Initialize logger first
	logger := initLogger(os.Getenv("ENV"))
	defer logger.Sync() // Flush any buffered log entries

	// Replace global logger
	zap.ReplaceGlobals(logger)

	logger.Info("Starting maw-backend server")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port))

	// Initialize database
	db, err := database.NewMongoDB(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			logger.Error("Error closing database connection", zap.Error(err))
		}
	}()

	logger.Info("Successfully connected to MongoDB")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetCollection("users"))
	eventRepo := repository.NewEventRepository(db.GetCollection("ai_usage_events"))

	// Initialize services
	userService := services.NewUserService(userRepo)
	eventService := services.NewEventService(eventRepo)
	analyticsService := services.NewAnalyticsService(userRepo, eventRepo, cfg.Analytics)

	logger.Info("All services initialized successfully")

	// Initialize handlers
	h := &routes.Handlers{
		Health:    handlers.NewHealthHandler(),
		User:      handlers.NewUserHandler(userService),
		Events:    handlers.NewEventsHandler(eventService),
		Analytics: handlers.NewAnalyticsHandler(analyticsService),
	}

	// Setup routes
	router := routes.SetupRoutes(h, userRepo)

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("address", serverAddr))

		// Log available endpoints
		endpoints := []struct {
			method      string
			path        string
			description string
			auth        string
		}{
			{"GET", "/", "Health check", "None"},
			{"GET", "/health", "Health check", "None"},
			{"POST", "/api/v1/register", "Register new user", "None"},
			{"POST", "/api/v1/events", "Record AI usage event", "Bearer token"},
			{"GET", "/api/v1/admin/analytics", "Admin analytics report", "Admin only"},
		}

		logger.Info("Available endpoints", zap.Int("count", len(endpoints)))
		for _, endpoint := range endpoints {
			logger.Debug("Endpoint registered",
				zap.String("method", endpoint.method),
				zap.String("path", endpoint.path),
				zap.String("description", endpoint.description),
				zap.String("auth", endpoint.auth))
		}

		logger.Info("CORS enabled for all origins")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Received shutdown signal, shutting down server gracefully")

	// Gracefully shutdown the server with a timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}
