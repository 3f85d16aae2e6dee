package platform

import (
	"context"
	"errors"
	"io"

	"github.com/aretw0/notes/pkg/core"
)

// New opens the backend, hydrates a store from it and returns the store.
//
//	store, err := notes.New("./notes", notes.WithAdapter("sqlite"))
func New(uri string, opts ...Option) (*core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	kv, err := open(uri, o)
	if err != nil {
		return nil, err
	}

	readOnly, _ := o.config["read_only"].(bool)
	eventBuffer, _ := o.config["event_buffer"].(int)

	store, err := core.NewStore(context.Background(), core.NewPersistence(kv),
		core.WithStoreLogger(o.logger),
		core.WithStoreReadOnly(readOnly),
		core.WithStoreEventBuffer(eventBuffer),
	)
	if err != nil {
		// The store owns the backend only once hydrated.
		if c, ok := kv.(io.Closer); ok {
			err = errors.Join(err, c.Close())
		}
		return nil, err
	}
	return store, nil
}
