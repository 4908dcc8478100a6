package disk

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrNotFound indicates that no object exists at the requested path.
var ErrNotFound = errors.New("object not found")

// Disk is the storage backend the uploader writes to. Paths are slash
// separated and relative to the disk root; a leading slash is ignored.
type Disk interface {
	Exists(ctx context.Context, p string) (bool, error)
	MakeDirectory(ctx context.Context, p string) error
	Put(ctx context.Context, p string, data []byte) error
	PutFileAs(ctx context.Context, dir string, r io.Reader, name string) error
	Get(ctx context.Context, p string) ([]byte, error)
	// Delete removes a single object. Deleting a missing object is not an error.
	Delete(ctx context.Context, p string) error
	// DeleteDirectory removes the directory and everything beneath it.
	DeleteDirectory(ctx context.Context, p string) error
	URL(p string) string
}

// Key normalizes p into a root-relative key. Parent references can never
// climb above the disk root.
func Key(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}
