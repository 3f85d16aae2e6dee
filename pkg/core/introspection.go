package core

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	NoteCount       int    `json:"note_count"`
	StorageKey      string `json:"storage_key"`
	BackendType     string `json:"backend_type"`
	ReadOnly        bool   `json:"read_only"`
	EventBufferSize int    `json:"event_buffer_size"`
	Observers       int    `json:"observers"`
	Watchers        int    `json:"watchers"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	count := len(s.notes)
	s.mu.RUnlock()

	backendType := "unknown"
	if s.persistence.Backend() != nil {
		backendType = "keyvalue"
		if comp, ok := s.persistence.Backend().(introspection.Component); ok {
			backendType = comp.ComponentType()
		}
	}

	s.obsMu.Lock()
	observers := len(s.observers)
	s.obsMu.Unlock()

	s.watchMu.Lock()
	watchers := len(s.watchers)
	s.watchMu.Unlock()

	return StoreState{
		NoteCount:       count,
		StorageKey:      s.persistence.Key(),
		BackendType:     backendType,
		ReadOnly:        s.readOnly,
		EventBufferSize: s.eventBufferSize,
		Observers:       observers,
		Watchers:        watchers,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
