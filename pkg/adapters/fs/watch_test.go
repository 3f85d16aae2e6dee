package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notes/pkg/adapters/fs"
	"github.com/aretw0/notes/pkg/core"
)

func TestWatch_ExternalWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	kv, dir := setupKV(t)

	events, err := kv.Watch(ctx, core.StorageKey)
	require.NoError(t, err)

	// Another process rewrites the slot.
	slot := filepath.Join(dir, fs.DefaultSystemDir, "notes.json")
	require.NoError(t, os.WriteFile(slot, []byte(`[{"id":"x","title":"from elsewhere","todoList":[]}]`), 0644))

	select {
	case e := <-events:
		assert.Equal(t, core.EventExternal, e.Type)
		assert.Equal(t, core.StorageKey, e.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for external event")
	}
}

func TestWatch_IgnoresOwnWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	kv, _ := setupKV(t)

	events, err := kv.Watch(ctx, core.StorageKey)
	require.NoError(t, err)

	require.NoError(t, kv.Set(ctx, core.StorageKey, []byte(`[]`)))

	select {
	case e := <-events:
		t.Fatalf("unexpected event for own write: %v", e)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	kv, _ := setupKV(t)

	events, err := kv.Watch(ctx, core.StorageKey)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	state := kv.State().(fs.KeyValueState)
	assert.False(t, state.WatcherActive)
}

func TestWatch_InvalidKey(t *testing.T) {
	kv, _ := setupKV(t)
	_, err := kv.Watch(context.Background(), "../x")
	assert.Error(t, err)
}
