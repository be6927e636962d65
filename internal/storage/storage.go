package storage

import (
	"context"
	"io"
)

// ObjectStore is the durable blob storage the create and delete workflows
// talk to. Implementations are stateless client handles safe for concurrent use.
type ObjectStore interface {
	// Put stores body under bucket/key with the given content type and
	// returns the public locator for the stored object.
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error)
	// Delete removes bucket/key. Callers treat failures as non-fatal.
	Delete(ctx context.Context, bucket, key string) error
}
