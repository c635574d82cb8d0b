package interfaces

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrStorageKeyNotFound = errors.New("storage key not found")
	ErrStorageInvalidKey  = errors.New("invalid storage key")
)

// StorageAdapter is a flat key/value object store holding upload receipts.
// Keys use "/" as separator regardless of backend.
type StorageAdapter interface {
	// Put creates or replaces the object at key
	Put(ctx context.Context, key string, data []byte) error

	// Get returns ErrStorageKeyNotFound when key does not exist
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns keys that start with prefix, sorted in ascending order
	List(ctx context.Context, prefix string) ([]string, error)
}

// ContentType is the MIME type object stores should record for key
func ContentType(key string) string {
	switch {
	case strings.HasSuffix(key, ".gz"):
		return "application/gzip"
	case strings.HasSuffix(key, ".json"):
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
