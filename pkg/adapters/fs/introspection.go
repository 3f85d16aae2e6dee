package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// KeyValueState exposes internal state for observability.
type KeyValueState struct {
	Path          string     `json:"path"`
	SystemDir     string     `json:"system_dir"`
	WrittenKeys   int        `json:"written_keys"`
	WatcherActive bool       `json:"watcher_active"`
	LastExternal  *time.Time `json:"last_external,omitempty"`
}

// State implements introspection.Introspectable.
func (r *KeyValue) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return KeyValueState{
		Path:          r.Path,
		SystemDir:     r.config.SystemDir,
		WrittenKeys:   len(r.lastWritten),
		WatcherActive: r.watcherActive,
		LastExternal:  r.lastExternal,
	}
}

// ComponentType implements introspection.Component.
func (r *KeyValue) ComponentType() string {
	return "fs"
}

var _ introspection.Introspectable = (*KeyValue)(nil)
var _ introspection.Component = (*KeyValue)(nil)

func (r *KeyValue) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}

func (r *KeyValue) recordExternal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.lastExternal = &now
}
