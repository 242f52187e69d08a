package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/shelf/internal/config"
	"github.com/joshua-takyi/shelf/internal/connect"
	"github.com/joshua-takyi/shelf/internal/container"
	"github.com/joshua-takyi/shelf/internal/helpers"
	"github.com/joshua-takyi/shelf/internal/models"
	"github.com/joshua-takyi/shelf/internal/routes"
	"github.com/joshua-takyi/shelf/internal/services"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	logger.Info("Starting shelf server", "environment", cfg.Environment, "storage", cfg.StorageBackend)

	store, err := openStore(cfg)
	if err != nil {
		logger.Error("Failed to open storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	logger.Info("Storage ready", "backend", cfg.StorageBackend)

	var avatars services.AvatarUploader
	if cfg.CloudinaryEnabled() {
		cld, err := connect.CloudinaryCredentials(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logger.Error("Failed to connect to Cloudinary", "error", err)
			os.Exit(1)
		}
		avatars = helpers.NewCloudinaryUploader(cld)
		logger.Info("Avatar uploads go to Cloudinary")
	}

	appContainer := container.NewContainer(cfg, logger, store, avatars)
	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := connect.MongoDBDisconnect(); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}
	if err := connect.RedisDisconnect(); err != nil {
		logger.Error("Error disconnecting from Redis", "error", err)
	}

	logger.Info("Server exited")
}

func openStore(cfg *config.Config) (models.KVStore, error) {
	switch cfg.StorageBackend {
	case config.BackendMongo:
		client, err := connect.MongoDBConnect(cfg.MongoDBURI, cfg.MongoDBPassword)
		if err != nil {
			return nil, err
		}
		return models.MongodbNewRepo(client, cfg.MongoDBDatabase), nil
	case config.BackendRedis:
		client, err := connect.RedisConnect(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		return models.RedisNewRepo(client, cfg.RedisNamespace), nil
	}
	return models.NewMemoryStore(), nil
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.SlogLevel(),
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     cfg.SlogLevel(),
			AddSource: cfg.IsDevelopment(),
		})
	}

	return slog.New(handler)
}
