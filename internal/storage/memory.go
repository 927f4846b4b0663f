package storage

import "sync"

// MemorySlot is a process-local slot for tests and throwaway sessions.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
}

func NewMemorySlot(initial []byte) *MemorySlot {
	return &MemorySlot{data: clone(initial)}
}

func (m *MemorySlot) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.data), nil
}

func (m *MemorySlot) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = clone(data)
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
