package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"jobportal_backend/internal/logger"
)

var ErrFileNotFound = errors.New("file not found")

// Storage defines the interface for file storage operations
type Storage interface {
	// Save stores a file at the given key
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Open retrieves a file by key; ErrFileNotFound if missing
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file; missing files are not an error
	Delete(ctx context.Context, key string) error

	// Exists checks if a file exists
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns a public URL for the file
	URL(key string) string

	// SignedURL returns a temporary URL for private files.
	// Backends without signing return "" and callers stream via Open.
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Config holds storage configuration
type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // For local storage
	BaseURL    string // Public URL base
	Bucket     string // For S3/R2
	Region     string // For S3
	AccessKey  string // For S3/R2
	SecretKey  string // For S3/R2
	Endpoint   string // For R2 or custom S3
	PublicRead bool   // Make files public by default
}

func (c Config) remoteConfigured() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// NewStorage creates a storage backend. Object storage without bucket or
// credentials falls back to the local filesystem with a warning.
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "s3", "cloudflare_r2":
		if !cfg.remoteConfigured() {
			logger.Warn("Object storage is not configured, falling back to local storage",
				"type", cfg.Type, "base_path", cfg.BasePath)
			return NewLocalStorage(cfg)
		}
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
