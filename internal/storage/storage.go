// Package storage abstracts the external blob store that holds item images.
// Callers enforce size and content-type constraints before reaching it.
package storage

import (
	"context"
	"errors"
)

// ErrUpload wraps any blob-store failure so callers can treat all transport
// and provider errors uniformly.
var ErrUpload = errors.New("blob upload failed")

// BlobStore stores raw bytes and returns a publicly resolvable URL.
type BlobStore interface {
	Store(ctx context.Context, data []byte, contentType, folder string) (string, error)
}
