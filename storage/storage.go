// Package storage abstracts the physical object store holding file bytes.
// The rest of the system only ever exchanges opaque locators with it.
package storage

import (
	"context"
	"io"
)

type ObjectStorage interface {
	Put(ctx context.Context, locator string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, locator string) (io.ReadCloser, error)
	Remove(ctx context.Context, locator string) error
}
