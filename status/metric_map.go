package status

import (
	"sort"
	"strings"
	"sync"
)

// MetricMap is a registry of metrics of type T keyed by name
// Registration takes the lock; cached pointers are used lock-free
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

// NewMetricMap creates an empty MetricMap
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{
		items: make(map[string]*T),
	}
}

// Get returns the metric for key, allocating it on first use
func (m *MetricMap[T]) Get(key string) *T {
	m.mu.RLock()
	if ptr, ok := m.items[key]; ok {
		m.mu.RUnlock()
		return ptr
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if ptr, ok := m.items[key]; ok {
		return ptr
	}
	ptr := new(T)
	m.items[key] = ptr
	return ptr
}

// Has reports whether key is registered
func (m *MetricMap[T]) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[key]
	return ok
}

// Delete drops every key with the given prefix, used when an instance is disposed
func (m *MetricMap[T]) Delete(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			delete(m.items, k)
			n++
		}
	}
	return n
}

// Range visits every metric in sorted key order
func (m *MetricMap[T]) Range(fn func(key string, ptr *T)) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.items) == 0 {
		return
	}

	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fn(k, m.items[k])
	}
}

// Count returns the number of registered metrics
func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
