package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process BlobStore used by tests and local runs
// without object storage. FailNext makes the next Store call fail, for
// exercising the all-or-nothing upload path.
type MemoryStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	seq      int
	FailNext bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (m *MemoryStore) Store(_ context.Context, data []byte, contentType, folder string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNext {
		m.FailNext = false
		return "", fmt.Errorf("%w: simulated failure", ErrUpload)
	}

	m.seq++
	key := fmt.Sprintf("%s/%d%s", folder, m.seq, extensionFor(contentType))
	m.objects[key] = data
	return "memory://" + key, nil
}

// Len reports how many objects have been stored.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
