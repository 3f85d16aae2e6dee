// Package lifecycle bridges store events into the aretw0/lifecycle event model.
package lifecycle

import (
	"context"
	"slices"
	"sync/atomic"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notes/pkg/core"
)

// Source re-emits note events as lifecycle events.
type Source struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	types  []core.EventType

	forwarded atomic.Int64
	skipped   atomic.Int64
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithTypes restricts the source to the given event types.
// Without it every event is forwarded.
func WithTypes(types ...core.EventType) SourceOption {
	return func(s *Source) {
		s.types = append(s.types, types...)
	}
}

// NewSource creates a lifecycle.Source over events, typically the channel of
// Store.Watch.
func NewSource(events <-chan core.Event, opts ...SourceOption) *Source {
	s := &Source{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events returns the lifecycle stream. It is closed when forwarding stops.
func (s *Source) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx is done or the upstream channel closes.
func (s *Source) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			var e core.Event
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-s.events:
				if !ok {
					return nil
				}
				e = ev
			}

			if !s.accepts(e.Type) {
				s.skipped.Add(1)
				continue
			}
			select {
			case s.out <- e:
				s.forwarded.Add(1)
			case <-ctx.Done():
				return nil
			}
		}
	})
	return nil
}

func (s *Source) accepts(t core.EventType) bool {
	return len(s.types) == 0 || slices.Contains(s.types, t)
}

// SourceState reports forwarding counters.
type SourceState struct {
	Types     []core.EventType `json:"types,omitempty"`
	Forwarded int64            `json:"forwarded"`
	Skipped   int64            `json:"skipped"`
}

// State implements introspection.Introspectable.
func (s *Source) State() any {
	return SourceState{
		Types:     slices.Clone(s.types),
		Forwarded: s.forwarded.Load(),
		Skipped:   s.skipped.Load(),
	}
}

// ComponentType implements introspection.Component.
func (s *Source) ComponentType() string {
	return "note-source"
}

var _ lifecycle.Source = (*Source)(nil)
var _ introspection.Introspectable = (*Source)(nil)
var _ introspection.Component = (*Source)(nil)
