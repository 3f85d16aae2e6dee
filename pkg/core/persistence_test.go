package core_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notes/pkg/adapters/memory"
	"github.com/aretw0/notes/pkg/core"
)

func TestPersistence_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("Absent Key", func(t *testing.T) {
		notes, err := core.NewPersistence(memory.New()).Load(ctx)
		require.NoError(t, err)
		assert.NotNil(t, notes)
		assert.Empty(t, notes)
	})

	t.Run("JSON Null", func(t *testing.T) {
		kv := memory.NewWith(core.StorageKey, []byte(`null`))
		notes, err := core.NewPersistence(kv).Load(ctx)
		require.NoError(t, err)
		assert.NotNil(t, notes)
		assert.Empty(t, notes)
	})

	t.Run("Loose Shape Is Accepted", func(t *testing.T) {
		kv := memory.NewWith(core.StorageKey, []byte(`[{"id":"1","extra":true},{"title":"no id"}]`))
		notes, err := core.NewPersistence(kv).Load(ctx)
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, "1", notes[0].ID)
		assert.Empty(t, notes[0].Title)
		assert.JSONEq(t, `true`, string(notes[0].Extra["extra"]))
		assert.Nil(t, notes[1].Extra)
		assert.Equal(t, "no id", notes[1].Title)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		kv := memory.NewWith(core.StorageKey, []byte(`not json`))
		_, err := core.NewPersistence(kv).Load(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `failed to decode "notes"`)
	})

	t.Run("Wrong Top-Level Type", func(t *testing.T) {
		kv := memory.NewWith(core.StorageKey, []byte(`{"id":"1"}`))
		_, err := core.NewPersistence(kv).Load(ctx)
		require.Error(t, err)
	})
}

func TestPersistence_Save(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewWith(core.StorageKey, []byte(`[{"id":"old","title":"gone","todoList":[]}]`))
	p := core.NewPersistence(kv)

	require.NoError(t, p.Save(ctx, nil))
	assert.Equal(t, `[]`, kv.Raw(core.StorageKey), "save replaces the previous value")

	kv.FailWrites(true)
	err := p.Save(ctx, []core.Note{{ID: "1"}})
	require.ErrorIs(t, err, memory.ErrWriteFailed)
}

func TestEncode_Golden(t *testing.T) {
	notes := []core.Note{
		{ID: "1", Title: "Groceries", TodoList: []core.Todo{
			{ID: "t1", Text: "milk", Completed: true},
			{ID: "t2", Text: "bread & <butter>"},
		}},
		{ID: "2", Title: "Empty", Extra: map[string]json.RawMessage{
			"pinned": json.RawMessage(`true`),
			"color":  json.RawMessage(`"<red>"`),
		}},
		{ID: "3", Title: "Заметка", TodoList: []core.Todo{{ID: "t3", Text: "ünïcode"}}},
	}

	data, err := core.Encode(notes)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "notes_collection", data)
}
