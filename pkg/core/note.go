package core

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// Todo is a single checklist item belonging to a Note.
type Todo struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`

	// Extra holds members of the stored object this type does not model.
	// They are written back unchanged on the next flush.
	Extra map[string]json.RawMessage `json:"-"`
}

// Note is the central entity of the domain.
// It is a titled container of todo items identified by a caller-assigned ID.
type Note struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	TodoList []Todo `json:"todoList"`

	// Extra holds members of the stored object this type does not model.
	// They are written back unchanged on the next flush.
	Extra map[string]json.RawMessage `json:"-"`
}

type (
	todoFields Todo
	noteFields Note
)

var (
	todoKeys = []string{"id", "text", "completed"}
	noteKeys = []string{"id", "title", "todoList"}
)

// Clone returns a deep copy of the todo.
func (t Todo) Clone() Todo {
	t.Extra = cloneExtra(t.Extra)
	return t
}

// Clone returns a deep copy of the note. A nil todo list becomes an empty one
// so the persisted form is always "todoList": [].
func (n Note) Clone() Note {
	todos := make([]Todo, len(n.TodoList))
	for i, t := range n.TodoList {
		todos[i] = t.Clone()
	}
	n.TodoList = todos
	n.Extra = cloneExtra(n.Extra)
	return n
}

// MarshalJSON writes the modeled fields followed by Extra in key order.
func (t Todo) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(todoFields(t), t.Extra)
}

// UnmarshalJSON decodes the modeled fields and keeps every other member in Extra.
func (t *Todo) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var fields todoFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	extra, err := splitExtra(data, todoKeys)
	if err != nil {
		return err
	}
	*t = Todo(fields)
	t.Extra = extra
	return nil
}

// MarshalJSON writes the modeled fields followed by Extra in key order.
func (n Note) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(noteFields(n), n.Extra)
}

// UnmarshalJSON decodes the modeled fields and keeps every other member in Extra.
func (n *Note) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var fields noteFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	extra, err := splitExtra(data, noteKeys)
	if err != nil {
		return err
	}
	*n = Note(fields)
	n.Extra = extra
	return nil
}

func cloneNotes(notes []Note) []Note {
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}

func cloneExtra(extra map[string]json.RawMessage) map[string]json.RawMessage {
	if extra == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(extra))
	for k, v := range extra {
		out[k] = bytes.Clone(v)
	}
	return out
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// splitExtra returns the members of the object in data that are not in known.
// Matching is case-insensitive, like encoding/json's field matching.
func splitExtra(data []byte, known []string) (map[string]json.RawMessage, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	maps.DeleteFunc(members, func(k string, _ json.RawMessage) bool {
		return slices.ContainsFunc(known, func(name string) bool { return strings.EqualFold(k, name) })
	})
	if len(members) == 0 {
		return nil, nil
	}
	return members, nil
}

// marshalWithExtra encodes v (a struct) and appends extra to the resulting object.
func marshalWithExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	obj, err := marshalNoEscape(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return obj, nil
	}

	buf := bytes.NewBuffer(obj[:len(obj)-1])
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		key, err := marshalNoEscape(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
