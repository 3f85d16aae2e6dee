package core

import (
	"context"
	"slices"
)

type observerEntry struct {
	id int
	fn Observer
}

// Subscribe registers fn to be called after every successful mutation, in
// flush order. fn runs on the mutating goroutine and must not mutate the store
// or call Notify.
// The returned function removes the observer; calling it twice is harmless.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers = append(s.observers, observerEntry{id: id, fn: fn})
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(o observerEntry) bool { return o.id == id })
	}
}

// Watch returns a buffered stream of store events that is closed when ctx is done.
// A consumer that falls behind loses events instead of blocking mutations.
func (s *Store) Watch(ctx context.Context) <-chan Event {
	ch := make(chan Event, s.eventBufferSize)

	s.watchMu.Lock()
	s.watchers[ch] = struct{}{}
	s.watchMu.Unlock()

	go func() {
		<-ctx.Done()
		s.watchMu.Lock()
		delete(s.watchers, ch)
		close(ch)
		s.watchMu.Unlock()
	}()

	return ch
}

// Notify forwards an event produced outside the store (e.g. a backend
// reporting an external write) to observers and watchers.
func (s *Store) Notify(e Event) {
	s.mu.Lock()
	ticket := s.takeTicket()
	s.mu.Unlock()
	s.publishInOrder(ticket, e)
}

// Follow relays the backend's reports of external writes to the slot through
// Notify until ctx is done. The store is not re-hydrated: last writer wins.
// It returns ErrNotWatchable when the backend cannot watch.
func (s *Store) Follow(ctx context.Context) error {
	w, ok := s.Backend().(Watchable)
	if !ok {
		return ErrNotWatchable
	}
	events, err := w.Watch(ctx, s.persistence.Key())
	if err != nil {
		return err
	}

	go func() {
		for e := range events {
			s.logger.Debug("external write", "key", e.ID)
			s.Notify(e)
		}
	}()
	return nil
}

// takeTicket must be called with mu held.
func (s *Store) takeTicket() uint64 {
	t := s.nextTicket
	s.nextTicket++
	return t
}

// publishInOrder waits until every event with a lower ticket has been
// delivered, then delivers e.
func (s *Store) publishInOrder(ticket uint64, e Event) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	for s.pubTurn != ticket {
		s.pubCond.Wait()
	}
	defer s.pubCond.Broadcast()
	defer func() { s.pubTurn++ }()

	s.publish(e)
}

func (s *Store) publish(e Event) {
	s.obsMu.Lock()
	observers := slices.Clone(s.observers)
	s.obsMu.Unlock()

	for _, o := range observers {
		o.fn(e)
	}

	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for ch := range s.watchers {
		select {
		case ch <- e:
		default:
			s.logger.Debug("watcher buffer full, dropping event", "event", e.String())
		}
	}
}
