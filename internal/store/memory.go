// Package store keeps process-lifetime registries keyed by generated ids.
package store

import (
	"sync"

	"github.com/google/uuid"
)

// Memory is a concurrency-safe in-memory registry. Snapshot order follows
// insertion order; Set on an existing id keeps its position.
type Memory[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{items: make(map[string]T)}
}

// Put stores v under a fresh id and returns it.
func (m *Memory[T]) Put(v T) string {
	id := uuid.NewString()
	m.Set(id, v)
	return id
}

func (m *Memory[T]) Set(id string, v T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		m.order = append(m.order, id)
	}
	m.items[id] = v
}

func (m *Memory[T]) Get(id string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[id]
	return v, ok
}

// Evict removes id and reports whether it was present.
func (m *Memory[T]) Evict(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return false
	}
	delete(m.items, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

func (m *Memory[T]) Snapshot() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.items[id])
	}
	return out
}

func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
