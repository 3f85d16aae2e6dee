package core_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/notes/pkg/adapters/memory"
	"github.com/aretw0/notes/pkg/core"
)

func TestStore_ConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := newStore(t, kv)

	const workers, perWorker = 8, 25

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < perWorker; i++ {
				id := fmt.Sprintf("w%d-%d", w, i)
				if err := s.AddNote(ctx, core.Note{ID: id, Title: id}); err != nil {
					return err
				}
				if i%2 == 1 {
					if err := s.RemoveNote(ctx, id); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, workers*(perWorker-perWorker/2), s.Len())

	// The last flush always reflects the final in-memory state.
	var persisted []core.Note
	require.NoError(t, json.Unmarshal([]byte(kv.Raw(core.StorageKey)), &persisted))
	assert.Equal(t, s.Notes(), persisted)
}

func TestStore_EventsFollowFlushOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, memory.New())

	var (
		mu  sync.Mutex
		got []string
	)
	s.Subscribe(func(e core.Event) {
		// Reading the store here must not block writers that are flushing.
		_ = s.Len()
		mu.Lock()
		got = append(got, e.ID)
		mu.Unlock()
	})

	const workers, perWorker = 8, 25

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < perWorker; i++ {
				id := fmt.Sprintf("w%d-%d", w, i)
				if err := s.AddNote(ctx, core.Note{ID: id}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// Every add appends, so the collection order is the flush order.
	var flushed []string
	for _, n := range s.Notes() {
		flushed = append(flushed, n.ID)
	}
	assert.Equal(t, flushed, got)
}
