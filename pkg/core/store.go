package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"
)

const defaultEventBuffer = 100

// Store is the single source of truth for the note collection during a session.
// It is hydrated once at construction and flushes the full collection to its
// Persistence after every mutation.
type Store struct {
	mu          sync.RWMutex
	notes       []Note
	persistence *Persistence

	logger          *slog.Logger
	readOnly        bool
	eventBufferSize int

	// Events carry a ticket taken under mu and are published in ticket order.
	nextTicket uint64
	pubMu      sync.Mutex
	pubCond    *sync.Cond
	pubTurn    uint64

	obsMu     sync.Mutex
	nextObsID int
	observers []observerEntry

	watchMu  sync.Mutex
	watchers map[chan Event]struct{}
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used for flush and event diagnostics.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStoreReadOnly rejects every mutation with ErrReadOnly.
func WithStoreReadOnly(enabled bool) StoreOption {
	return func(s *Store) {
		s.readOnly = enabled
	}
}

// WithStoreEventBuffer sets the buffer size of channels returned by Watch.
// Zero or negative means default (100).
func WithStoreEventBuffer(size int) StoreOption {
	return func(s *Store) {
		if size > 0 {
			s.eventBufferSize = size
		}
	}
}

// NewStore creates a Store and hydrates it from p.
// A load failure (e.g. malformed payload) fails construction.
func NewStore(ctx context.Context, p *Persistence, opts ...StoreOption) (*Store, error) {
	s := &Store{
		persistence:     p,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		eventBufferSize: defaultEventBuffer,
		watchers:        make(map[chan Event]struct{}),
	}
	s.pubCond = sync.NewCond(&s.pubMu)
	for _, opt := range opts {
		opt(s)
	}

	notes, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate store: %w", err)
	}
	s.notes = notes
	s.logger.Debug("store hydrated", "key", p.Key(), "notes", len(notes))

	return s, nil
}

// Notes returns a snapshot of the collection in insertion order.
// Mutating the snapshot does not affect the store.
func (s *Store) Notes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneNotes(s.notes)
}

// Len returns the number of notes in the collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// GetNoteByID returns the first note whose ID matches.
// The boolean is false when no note has that ID.
func (s *Store) GetNoteByID(id string) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Note{}, false
	}
	return s.notes[i].Clone(), true
}

// AddNote appends the note and flushes. IDs are not checked for uniqueness:
// a duplicate is stored and GetNoteByID keeps returning the first one.
func (s *Store) AddNote(ctx context.Context, note Note) error {
	return s.commit(ctx, EventCreate, note.ID, func() bool {
		s.notes = append(s.notes, note.Clone())
		return true
	})
}

// UpdateNote replaces the first note with the same ID, keeping its position.
// An unknown ID is a silent no-op.
func (s *Store) UpdateNote(ctx context.Context, note Note) error {
	return s.commit(ctx, EventModify, note.ID, func() bool {
		i := s.indexOf(note.ID)
		if i < 0 {
			return false
		}
		s.notes[i] = note.Clone()
		return true
	})
}

// RemoveNote deletes the first note with the given ID; the remaining notes keep
// their order. An unknown ID is a silent no-op.
func (s *Store) RemoveNote(ctx context.Context, id string) error {
	return s.commit(ctx, EventDelete, id, func() bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		s.notes = slices.Delete(s.notes, i, i+1)
		return true
	})
}

// commit applies a mutation and flushes under the write lock.
// The in-memory change is kept even when the flush fails.
func (s *Store) commit(ctx context.Context, t EventType, id string, apply func() bool) error {
	if s.readOnly {
		return ErrReadOnly
	}

	s.mu.Lock()
	if !apply() {
		s.mu.Unlock()
		s.logger.Debug("no matching note, skipping flush", "op", t, "id", id)
		return nil
	}
	err := s.persistence.Save(ctx, s.notes)
	count := len(s.notes)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("flush failed", "op", t, "id", id, "error", err)
		return err
	}
	ticket := s.takeTicket()
	s.mu.Unlock()

	s.logger.Debug("flushed", "op", t, "id", id, "notes", count)
	s.publishInOrder(ticket, Event{Type: t, ID: id, Timestamp: time.Now().Unix()})
	return nil
}

// Backend returns the key-value backend the store flushes to.
func (s *Store) Backend() KeyValue {
	return s.persistence.Backend()
}

// Close releases the backend if it holds resources (e.g. a database handle).
func (s *Store) Close() error {
	if c, ok := s.persistence.Backend().(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.notes, func(n Note) bool { return n.ID == id })
}
