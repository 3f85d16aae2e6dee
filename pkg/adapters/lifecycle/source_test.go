package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notes/pkg/adapters/lifecycle"
	"github.com/aretw0/notes/pkg/adapters/memory"
	"github.com/aretw0/notes/pkg/core"
)

func TestSource_ForwardsStoreEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := core.NewStore(ctx, core.NewPersistence(memory.New()))
	require.NoError(t, err)

	src := lifecycle.NewSource(store.Watch(ctx))
	require.NoError(t, src.Start(ctx))

	require.NoError(t, store.AddNote(ctx, core.Note{ID: "a", Title: "A"}))

	select {
	case e := <-src.Events():
		ev, ok := e.(core.Event)
		require.True(t, ok)
		assert.Equal(t, core.EventCreate, ev.Type)
		assert.Equal(t, "CREATE a", e.String())
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for lifecycle event")
	}
}

func TestSource_ClosesWithUpstream(t *testing.T) {
	ctx := context.Background()
	upstream := make(chan core.Event)

	src := lifecycle.NewSource(upstream)
	require.NoError(t, src.Start(ctx))
	close(upstream)

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for close")
	}
}

func TestSource_FiltersByType(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	upstream := make(chan core.Event, 3)
	upstream <- core.Event{Type: core.EventCreate, ID: "a"}
	upstream <- core.Event{Type: core.EventExternal, ID: core.StorageKey}
	upstream <- core.Event{Type: core.EventDelete, ID: "a"}
	close(upstream)

	src := lifecycle.NewSource(upstream, lifecycle.WithTypes(core.EventExternal))
	require.NoError(t, src.Start(ctx))

	var got []string
	for e := range src.Events() {
		got = append(got, e.String())
	}
	assert.Equal(t, []string{"EXTERNAL notes"}, got)

	state := src.State().(lifecycle.SourceState)
	assert.Equal(t, int64(1), state.Forwarded)
	assert.Equal(t, int64(2), state.Skipped)
	assert.Equal(t, "note-source", src.ComponentType())
}
