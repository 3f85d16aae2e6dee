// Package memory provides a process-local key-value backend.
// It is used for ephemeral sessions and as a test double.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/notes/pkg/core"
)

// ErrWriteFailed is returned by Set while write failures are injected.
var ErrWriteFailed = errors.New("memory: write failed")

// KeyValue implements core.KeyValue on a map.
type KeyValue struct {
	mu         sync.RWMutex
	data       map[string][]byte
	writes     int
	failWrites bool
}

// New creates an empty backend.
func New() *KeyValue {
	return &KeyValue{data: make(map[string][]byte)}
}

// NewWith creates a backend pre-seeded with key=value.
func NewWith(key string, value []byte) *KeyValue {
	kv := New()
	kv.data[key] = append([]byte(nil), value...)
	return kv
}

// Get returns a copy of the value at key.
func (m *KeyValue) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of value, or fails with ErrWriteFailed while FailWrites is on.
func (m *KeyValue) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWrites {
		return ErrWriteFailed
	}
	m.data[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}

// FailWrites makes every subsequent Set fail (quota exceeded, storage disabled).
func (m *KeyValue) FailWrites(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites = fail
}

// Writes returns the number of successful Set calls.
func (m *KeyValue) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Raw returns the stored value as a string, or "" when absent.
func (m *KeyValue) Raw(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return string(m.data[key])
}

// State implements introspection.Introspectable.
func (m *KeyValue) State() any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return map[string]any{
		"keys":        len(m.data),
		"writes":      m.writes,
		"fail_writes": m.failWrites,
	}
}

// ComponentType implements introspection.Component.
func (m *KeyValue) ComponentType() string {
	return "memory"
}

var _ core.KeyValue = (*KeyValue)(nil)
var _ introspection.Introspectable = (*KeyValue)(nil)
var _ introspection.Component = (*KeyValue)(nil)
