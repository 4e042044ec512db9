// Package config loads application configuration from a .env file (if
// present) and environment variables.
package config

import (
	"fmt"
	"log"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the service.
//
// Storage credentials are deliberately not required: a backend constructed
// without its credentials reports itself unconfigured and the upload
// feature degrades instead of failing startup.
type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	Env           string        `env:"ENV" envDefault:"development"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	PostgresDSN   string        `env:"DATABASE_URL"`
	SessionSecret string        `env:"SESSION_SECRET" envDefault:"dev-secret-key"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"72h"`

	// StorageBackend selects the blob backend: filesystem, s3 or cloudinary.
	StorageBackend string        `env:"STORAGE_BACKEND" envDefault:"filesystem" validate:"oneof=filesystem s3 cloudinary"`
	StorageTimeout time.Duration `env:"STORAGE_TIMEOUT" envDefault:"30s"`

	// Filesystem backend
	UploadRoot   string `env:"UPLOAD_ROOT" envDefault:"static/uploads"`
	PublicPrefix string `env:"UPLOAD_PUBLIC_PREFIX" envDefault:"/static/uploads"`

	// S3-compatible backend (MinIO, Supabase Storage, AWS S3)
	StorageEndpoint   string `env:"STORAGE_ENDPOINT"`
	StorageAccessKey  string `env:"STORAGE_ACCESS_KEY"`
	StorageSecretKey  string `env:"STORAGE_SECRET_KEY"`
	StorageBucket     string `env:"STORAGE_BUCKET" envDefault:"pinspire"`
	StorageUseSSL     bool   `env:"STORAGE_USE_SSL" envDefault:"false"`
	StoragePublicBase string `env:"STORAGE_PUBLIC_BASE"`

	// Cloudinary backend
	CloudinaryURL    string `env:"CLOUDINARY_URL"`
	CloudinaryFolder string `env:"CLOUDINARY_FOLDER" envDefault:"pinspire"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
