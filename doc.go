// Package notes is the composition root for the notes store.
//
// It connects the core store (Domain Layer) with a key-value backend
// (Persistence Layer) using the Hexagonal Architecture pattern.
//
// Model:
//
// A session owns exactly one Store. The Store holds an ordered collection of
// notes, each a titled list of todo items, and rewrites the whole collection
// to a single key ("notes") of its backend after every mutation. The backend
// is read once, when the Store is created.
//
// Backends:
//
//   - **fs** (default): a JSON file under a hidden ".notes" directory, written atomically.
//     Reports writes made by other processes via fsnotify.
//   - **sqlite**: a one-table SQLite database.
//   - **memory**: process memory, for tests and throwaway sessions.
//
// Usage:
//
//	store, err := notes.New("./my-notes", notes.WithLogger(logger))
//
//	err = store.AddNote(ctx, core.Note{ID: "1", Title: "Groceries"})
//	n, ok := store.GetNoteByID("1")
package notes
