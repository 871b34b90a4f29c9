package storage

import "context"

// ArtifactStore stores opaque model artifact blobs by key. Writes are
// atomic: a key never resolves to a partially written blob.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete is idempotent; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
