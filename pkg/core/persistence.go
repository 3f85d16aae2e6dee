package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Persistence reads and writes the full note collection to a single key of a
// KeyValue backend. It never writes deltas: every Save replaces the slot.
type Persistence struct {
	kv  KeyValue
	key string
}

// NewPersistence creates a persistence adapter bound to StorageKey.
func NewPersistence(kv KeyValue) *Persistence {
	return &Persistence{kv: kv, key: StorageKey}
}

// Key returns the slot name used by the adapter.
func (p *Persistence) Key() string {
	return p.key
}

// Backend returns the underlying key-value backend.
func (p *Persistence) Backend() KeyValue {
	return p.kv
}

// Load reads the stored collection. An absent key yields an empty collection.
// The payload is not validated beyond JSON syntax: missing fields take their
// zero value and unknown ones are kept in Note.Extra and Todo.Extra.
func (p *Persistence) Load(ctx context.Context) ([]Note, error) {
	data, found, err := p.kv.Get(ctx, p.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", p.key, err)
	}
	if !found {
		return []Note{}, nil
	}

	var notes []Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode %q: %w", p.key, err)
	}
	if notes == nil {
		notes = []Note{}
	}
	return notes, nil
}

// Save serializes the whole collection and overwrites the slot.
func (p *Persistence) Save(ctx context.Context, notes []Note) error {
	data, err := Encode(notes)
	if err != nil {
		return err
	}
	if err := p.kv.Set(ctx, p.key, data); err != nil {
		return fmt.Errorf("failed to write %q: %w", p.key, err)
	}
	return nil
}

// Encode renders notes in the persisted layout: compact JSON, no HTML escaping,
// empty todo lists as [].
func Encode(notes []Note) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(cloneNotes(notes)); err != nil {
		return nil, fmt.Errorf("failed to encode notes: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
