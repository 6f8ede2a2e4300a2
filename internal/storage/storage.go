// Package storage abstracts the external media host that holds photo files.
package storage

import (
	"context"
	"io"
)

// MediaStore is the contract the application has with the media host.
// Implementations must be safe for concurrent use.
type MediaStore interface {
	// Store uploads the file and returns its public URL and the
	// host-side object key needed to delete it later.
	Store(ctx context.Context, reader io.Reader, size int64, contentType string) (url string, storageID string, err error)

	// Delete removes the object identified by storageID.
	Delete(ctx context.Context, storageID string) error

	// Health reports whether the media host is reachable.
	Health(ctx context.Context) error
}
