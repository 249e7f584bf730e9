package objectstore

import "context"

// Store abstracts the durable object store holding uploaded import files.
// The engine only ever reads; retention and cleanup belong to the uploader.
type Store interface {
	Download(ctx context.Context, path string) ([]byte, error)
}
