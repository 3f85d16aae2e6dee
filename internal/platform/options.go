package platform

import (
	"log/slog"

	"github.com/aretw0/notes/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
	AdapterMemory = "memory"
)

// options holds the internal configuration for the notes store.
type options struct {
	keyValue core.KeyValue
	logger   *slog.Logger
	adapter  string
	config   map[string]interface{}
}

// Option defines a functional option for configuring the notes store.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: AdapterFS,
		config:  make(map[string]interface{}),
	}
}

// WithKeyValue injects a custom backend. The adapter setting is ignored.
func WithKeyValue(kv core.KeyValue) Option {
	return func(o *options) {
		o.keyValue = kv
	}
}

// WithLogger sets the logger for the store and its backend.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAdapter selects the backend by name ("fs", "sqlite", "memory").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithSystemDir sets the hidden directory used by the fs adapter.
// Defaults to ".notes".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithMustExist requires the target path to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithReadOnly rejects every mutation with core.ErrReadOnly.
// Initialization side effects (mkdir) are skipped for the fs adapter.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithEventBuffer sets the size of the buffer behind Store.Watch.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithWatcherErrorHandler registers a callback for runtime failures of the
// fs adapter's watcher, which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
