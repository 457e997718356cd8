package export

import "context"

// Store is the remote index store.
type Store interface {
	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
	IndexExists(ctx context.Context, name string) (bool, error)
	// CreateIndex creates name with body as the index definition. A nil
	// body creates the index with server defaults.
	CreateIndex(ctx context.Context, name string, body []byte) error
	Index(ctx context.Context, name string, id string, doc []byte) error
	Close() error
}
