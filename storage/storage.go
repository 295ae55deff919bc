// Package storage keeps rendered plaint documents on disk or in S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no document exists at a storage path
var ErrNotFound = errors.New("document not found in storage")

// Storage stores rendered documents by id
type Storage interface {
	// Save writes data and returns the storage path to persist alongside the file record
	Save(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error)

	// Open returns a reader for a stored document. The caller closes it.
	Open(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Remove deletes a stored document. Removing a missing document is not an error.
	Remove(ctx context.Context, storagePath string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	S3Endpoint   string // S3 compatible endpoint such as MinIO; empty uses AWS
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(ctx context.Context, cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// documentPath builds "plaints/<shard>/<id>_<name><ext>" for a document
func documentPath(fileID uuid.UUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':':
			return '_'
		}
		return r
	}, base)

	id := fileID.String()
	return path.Join("plaints", id[:2], id+"_"+base+ext)
}

// contentType determines content type from filename
func contentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
