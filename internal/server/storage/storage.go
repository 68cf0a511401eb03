// Package storage adapts a remote S3-compatible object store to the small
// set of primitives the file handlers need.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// ObjectInfo describes one stored object as reported by the backend.
type ObjectInfo struct {
	Name         string
	LastModified time.Time
}

// ObjectIterator enumerates container contents lazily: pages are fetched from
// the backend on demand. The iterator is forward-only and not restartable;
// ordering is whatever the store returns.
type ObjectIterator interface {
	// Next returns the next object. ok is false once the enumeration is
	// exhausted or after an error has been returned.
	Next(ctx context.Context) (info ObjectInfo, ok bool, err error)
}

// BlobStore is the set of operations the handlers perform against the remote
// store. Implementations must be safe for concurrent use; the client handle
// is built once at startup and shared by all requests.
type BlobStore interface {
	// EnsureContainer creates the container if it does not exist. Idempotent.
	EnsureContainer(ctx context.Context, container string) error

	// PutObject streams content into the container under the given name and
	// returns the object's locator.
	PutObject(ctx context.Context, container, name string, content io.Reader) (string, error)

	// ListObjects starts a lazy enumeration of the container's contents.
	ListObjects(ctx context.Context, container string) ObjectIterator

	// Exists reports whether a named object is present.
	Exists(ctx context.Context, container, name string) (bool, error)

	// GetLocator returns the object's access locator. Callers are expected
	// to have checked Exists first; the locator is constructed either way.
	GetLocator(container, name string) string

	// DeleteObject removes a named object. Callers check Exists first;
	// deletion of a missing object is not reported by the backend.
	DeleteObject(ctx context.Context, container, name string) error
}

// NewObjectName builds a collision-resistant storage key for an uploaded
// file. The fresh uuid prefix means concurrent uploads of the same filename
// never overwrite each other.
func NewObjectName(originalName string) string {
	return fmt.Sprintf("%v_%s", uuid.New(), originalName)
}
