package repository

import "sync"

// MemoryCache is a bounded in-process cache. When full, the oldest inserted
// key is evicted first.
type MemoryCache struct {
	mu       sync.RWMutex
	capacity int
	data     map[string]string
	order    []string
}

func NewMemoryCache(capacity int) *MemoryCache {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryCache{
		capacity: capacity,
		data:     make(map[string]string, capacity),
		order:    make([]string, 0, capacity),
	}
}

func (m *MemoryCache) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.data[key]
	return val, ok
}

func (m *MemoryCache) Set(key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; exists {
		m.data[key] = value
		return nil
	}

	for len(m.order) >= m.capacity {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.data, oldest)
	}

	m.data[key] = value
	m.order = append(m.order, key)
	return nil
}

func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *MemoryCache) Capacity() int {
	return m.capacity
}
