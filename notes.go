package notes

import (
	"log/slog"

	"github.com/aretw0/notes/internal/platform"
	"github.com/aretw0/notes/pkg/core"
)

// Version exposes the version of the library.
const Version = "0.3.0"

// --- Types ---

// Note is a public alias for the core note entity.
type Note = core.Note

// Todo is a public alias for the core todo item.
type Todo = core.Todo

// Store is a public alias for the notes store.
type Store = core.Store

// Event is a public alias for store and backend change events.
type Event = core.Event

// ErrReadOnly is returned by mutations on a read-only store.
var ErrReadOnly = core.ErrReadOnly

// --- Configuration ---

// Option defines a functional option for configuring the store.
type Option = platform.Option

// Adapter names.
const (
	AdapterFS     = platform.AdapterFS
	AdapterSQLite = platform.AdapterSQLite
	AdapterMemory = platform.AdapterMemory
)

// WithLogger sets the logger for the store and its backend.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithAdapter selects the backend by name ("fs", "sqlite", "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithKeyValue allows injecting a custom backend.
func WithKeyValue(kv core.KeyValue) Option {
	return platform.WithKeyValue(kv)
}

// WithSystemDir sets the hidden directory name used by the fs backend (e.g. ".notes").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithMustExist ensures the target directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly rejects every mutation with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithEventBuffer sets the buffer size of Store.Watch channels.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatcherErrorHandler registers a callback for fs watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New opens the backend at uri and returns a hydrated Store.
func New(uri string, opts ...Option) (*core.Store, error) {
	return platform.New(uri, opts...)
}

// Open builds and initializes a backend without creating a Store.
func Open(uri string, opts ...Option) (core.KeyValue, error) {
	return platform.Open(uri, opts...)
}

// FindRoot looks upwards from dir for the directory holding the notes system dir.
func FindRoot(dir, systemDir string) (string, error) {
	return platform.FindRoot(dir, systemDir)
}
