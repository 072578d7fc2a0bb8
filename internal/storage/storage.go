// Package storage archives generated export workbooks to a local directory or
// an object store.
package storage

import (
	"context"
	"fmt"
	"strings"

	"repairorder/internal/config"
)

const (
	TypeLocal = "local"
	TypeS3    = "s3"
	TypeOSS   = "oss"
	TypeCOS   = "cos"
	TypeR2    = "r2"
)

// CategoryExports groups archived export workbooks.
const CategoryExports = "exports"

// SaveOptions describes one archived object. FileName is the name offered to
// the user; the stored key is derived from it and is always unique.
type SaveOptions struct {
	Category    string
	FileName    string
	ContentType string
}

// Storage persists a payload and returns the key it was stored under.
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
}

// NewStorage instantiates the backend selected by STORAGE_TYPE.
func NewStorage(cfg config.Config) (Storage, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	case TypeR2:
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}
