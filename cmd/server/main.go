package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"

	"github.com/pinspire/backend/internal/logger"
	"github.com/pinspire/backend/internal/router"
	"github.com/pinspire/backend/internal/storage"
	"github.com/pinspire/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connection
	db, err := config.InitDB(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	// Build the storage backend; missing credentials degrade uploads
	// instead of failing startup.
	backend, staticRoot := buildStorageBackend(cfg)
	if !backend.Configured() {
		logger.Log.Warn("storage backend not configured, file uploads will be disabled")
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, backend, router.Options{
		SessionSecret:  cfg.SessionSecret,
		SessionTTL:     cfg.SessionTTL,
		StorageTimeout: cfg.StorageTimeout,
		StaticRoot:     staticRoot,
	})

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

// buildStorageBackend constructs the configured backend. The second
// return value is the local directory to serve under /static, non-empty
// only for the filesystem variant.
func buildStorageBackend(cfg *config.Config) (storage.Backend, string) {
	switch cfg.StorageBackend {
	case "s3":
		ctx, cancel := context.WithTimeout(context.Background(), cfg.StorageTimeout)
		defer cancel()
		backend, err := storage.NewS3(ctx, storage.S3Options{
			Endpoint:   cfg.StorageEndpoint,
			AccessKey:  cfg.StorageAccessKey,
			SecretKey:  cfg.StorageSecretKey,
			Bucket:     cfg.StorageBucket,
			Folder:     "pinspire",
			UseSSL:     cfg.StorageUseSSL,
			PublicBase: cfg.StoragePublicBase,
		})
		if err != nil {
			logger.Log.Warnw("s3 storage unavailable", "error", err)
			return storage.Unconfigured{}, ""
		}
		return backend, ""
	case "cloudinary":
		backend, err := storage.NewCloudinary(cfg.CloudinaryURL, cfg.CloudinaryFolder)
		if err != nil {
			logger.Log.Warnw("cloudinary storage unavailable", "error", err)
			return storage.Unconfigured{}, ""
		}
		return backend, ""
	default:
		backend, err := storage.NewFilesystem(cfg.UploadRoot, cfg.PublicPrefix)
		if err != nil {
			logger.Log.Warnw("filesystem storage unavailable", "error", err)
			return storage.Unconfigured{}, ""
		}
		return backend, cfg.UploadRoot
	}
}
