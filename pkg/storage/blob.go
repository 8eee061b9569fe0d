package storage

import (
	"context"
	"errors"
)

// ErrNotExist is returned when a key has no stored object.
var ErrNotExist = errors.New("blob does not exist")

// BlobStore holds signed document bytes under opaque keys.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}
