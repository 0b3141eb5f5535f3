// Package storage defines the blob backends holding uploaded media:
// certificate scans, product documentation, submission attachments.
// Objects are addressed by key; the database stores only keys and URLs.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound indicates the key does not exist in the backend.
var ErrObjectNotFound = errors.New("object not found")

// Backend is a keyed blob store. Implementations are stateless so the
// server can scale horizontally.
type Backend interface {
	// Store writes the object under key, overwriting any previous
	// object with the same key.
	Store(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Retrieve opens the object for reading. The caller closes it.
	Retrieve(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object. Deleting a missing key returns
	// ErrObjectNotFound.
	Delete(ctx context.Context, key string) error

	// Exists reports whether the key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public URL serving the object.
	URL(key string) string
}
