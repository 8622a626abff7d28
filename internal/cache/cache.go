// Package cache provides the optional last-value cache for form fields.
//
// The backing store is an external collaborator that may be absent. Every
// operation on a Local without a store is a silent no-op, so callers never
// branch on whether persistence is configured.
package cache

import (
	"sync"

	"brewratio/internal/metrics"
)

// Store is a string key-value store. Keys are form field names.
type Store interface {
	// Get returns the stored value for key and whether one exists.
	Get(key string) (string, bool)
	// Set stores value under key, replacing any previous value.
	Set(key, value string)
}

// Provider hands out a Store scoped to one visitor, the way a browser scopes
// local storage to one origin.
type Provider interface {
	LocalStorage(visitor string) Store
}

// Local is a possibly absent Store.
type Local struct {
	store Store
}

// NewLocal wraps store. A nil store yields a Local whose operations do nothing.
func NewLocal(store Store) Local {
	return Local{store: store}
}

// ForVisitor returns the Local for visitor, or an unavailable Local when
// there is no provider or no visitor.
func ForVisitor(p Provider, visitor string) Local {
	if p == nil || visitor == "" {
		return Local{}
	}
	return NewLocal(p.LocalStorage(visitor))
}

// Available reports whether a store is present.
func (l Local) Available() bool {
	return l.store != nil
}

// Get returns the stored value for key. It reports false when no store is
// available.
func (l Local) Get(key string) (string, bool) {
	if l.store == nil {
		return "", false
	}
	v, ok := l.store.Get(key)
	if ok {
		metrics.CacheOperationsTotal.WithLabelValues("get", "hit").Inc()
	} else {
		metrics.CacheOperationsTotal.WithLabelValues("get", "miss").Inc()
	}
	return v, ok
}

// Set stores value under key. It does nothing when no store is available.
func (l Local) Set(key, value string) {
	if l.store == nil {
		return
	}
	l.store.Set(key, value)
	metrics.CacheOperationsTotal.WithLabelValues("set", "ok").Inc()
}

// Memory is an in-process Store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// MemoryProvider keeps one Memory store per visitor. Values are lost when
// the process exits.
type MemoryProvider struct {
	mu       sync.Mutex
	visitors map[string]*Memory
}

// NewMemoryProvider returns an empty MemoryProvider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{visitors: make(map[string]*Memory)}
}

func (p *MemoryProvider) LocalStorage(visitor string) Store {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.visitors[visitor]
	if !ok {
		m = NewMemory()
		p.visitors[visitor] = m
	}
	return m
}

// VisitorCount returns the number of visitors with a store.
func (p *MemoryProvider) VisitorCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.visitors)
}
