package memory

import (
	"context"
	"sync"
)

// Backend keeps collections in process memory. It is the default when no database is
// configured and the backend used by tests.
type Backend struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func New() *Backend {
	return &Backend{docs: make(map[string][]byte)}
}

func (b *Backend) Load(ctx context.Context, collection string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	doc, ok := b.docs[collection]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, nil
}

func (b *Backend) StoreAll(ctx context.Context, collection string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := make([]byte, len(payload))
	copy(doc, payload)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.docs[collection] = doc
	return nil
}
