package airdrive

import (
	"context"
	"io"
	"io/fs"
)

// ErrNotExist is returned by a Store (usually wrapped in a *fs.PathError) when
// the requested key does not exist.
//
//nolint:gochecknoglobals
var ErrNotExist = fs.ErrNotExist

// Store is a flat key/value blob store, scoped to a single drive. Keys are
// relative to the drive root.
type Store interface {
	// Put writes data under key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte) error

	// Get opens the object at key for reading. The caller must close the
	// returned reader. A missing key is reported with ErrNotExist.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// List returns every key in the store, in no particular order.
	List(ctx context.Context) ([]string, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteMany removes all of keys, in as few requests as the store allows.
	DeleteMany(ctx context.Context, keys []string) error

	// Close releases the resources held by the store.
	Close() error
}

// Opener opens the Store holding the named drive, using the given credential.
type Opener interface {
	Open(ctx context.Context, credential, drive string) (Store, error)
}

// OpenerFunc adapts a function to an Opener.
type OpenerFunc func(ctx context.Context, credential, drive string) (Store, error)

var _ Opener = (OpenerFunc)(nil)

// Open - implements Opener
func (f OpenerFunc) Open(ctx context.Context, credential, drive string) (Store, error) {
	return f(ctx, credential, drive)
}
