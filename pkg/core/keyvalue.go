package core

import "context"

// StorageKey is the fixed slot under which the whole note collection is persisted.
const StorageKey = "notes"

// KeyValue defines the contract for the durable key-value slot the notes live in.
// Adhering to this interface keeps the store independent of the underlying
// medium (files, SQLite, memory).
type KeyValue interface {
	// Get returns the raw value stored at key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set overwrites the value at key unconditionally.
	Set(ctx context.Context, key string, value []byte) error
}

// Initializer is implemented by backends that need setup before first use
// (create directories, apply schema).
type Initializer interface {
	Initialize(ctx context.Context) error
}

// Watchable is implemented by backends that can report writes made by other
// processes to the same slot.
type Watchable interface {
	Watch(ctx context.Context, key string) (<-chan Event, error)
}
