// internal/store/jobstore/backend_memory.go
package jobstore

import (
	"context"
	"sync"
)

// MemoryBackend holds the snapshot in process memory. Used by tests and by
// the mock deployment mode.
type MemoryBackend struct {
	mu       sync.RWMutex
	snapshot []byte
	exists   bool
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Load(ctx context.Context) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.exists {
		return nil, false, nil
	}
	out := make([]byte, len(m.snapshot))
	copy(out, m.snapshot)
	return out, true, nil
}

func (m *MemoryBackend) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot = make([]byte, len(data))
	copy(m.snapshot, data)
	m.exists = true
	return nil
}
