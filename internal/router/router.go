package router

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/pinspire/backend/internal/handlers"
	"github.com/pinspire/backend/internal/logger"
	"github.com/pinspire/backend/internal/middleware"
	"github.com/pinspire/backend/internal/models"
	"github.com/pinspire/backend/internal/repositories"
	"github.com/pinspire/backend/internal/storage"
)

// Options carries the session and storage settings the routes need.
type Options struct {
	SessionSecret  string
	SessionTTL     time.Duration
	StorageTimeout time.Duration
	// StaticRoot, when non-empty, is served under /static for the
	// filesystem storage backend's references.
	StaticRoot string
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			logger.Log.Infow("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	}))
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, backend storage.Backend, opts Options) {
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Collection{},
		&models.Save{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	if opts.StaticRoot != "" {
		e.Static("/static/uploads", opts.StaticRoot)
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewPostgresPostRepository(pgdb)
	collectionRepo := repositories.NewPostgresCollectionRepository(pgdb)
	saveRepo := repositories.NewPostgresSaveRepository(pgdb)

	// --- Session routes ---
	authHandler := handlers.NewAuthHandler(userRepo, opts.SessionSecret, opts.SessionTTL)
	authHandler.RegisterAuthRoutes(e)

	// Read endpoints parse the session when present so responses can be
	// personalized; mutating endpoints require it.
	api := e.Group("/api")
	api.Use(middleware.OptionalSessionAuth(opts.SessionSecret))
	authedAPI := e.Group("/api")
	authedAPI.Use(middleware.SessionAuth(opts.SessionSecret))
	authedRoot := e.Group("")
	authedRoot.Use(middleware.SessionAuth(opts.SessionSecret))

	postHandler := handlers.NewPostHandler(postRepo, userRepo, saveRepo, backend, opts.StorageTimeout)
	postHandler.RegisterPostRoutes(api, authedAPI)
	postHandler.RegisterUploadRoute(authedRoot)

	saveHandler := handlers.NewSaveHandler(saveRepo, postRepo)
	saveHandler.RegisterSaveRoutes(authedAPI)

	collectionHandler := handlers.NewCollectionHandler(collectionRepo, postRepo)
	collectionHandler.RegisterCollectionRoutes(api, authedAPI)

	userHandler := handlers.NewUserHandler(userRepo, postRepo, collectionRepo)
	userHandler.RegisterUserRoutes(api)

	logger.Log.Info("All routes configured.")
}
