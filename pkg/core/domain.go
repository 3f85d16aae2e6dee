package core

import "fmt"

// EventType represents the kind of change applied to the note collection.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
	// EventExternal reports that the persisted slot was rewritten by another writer.
	EventExternal EventType = "EXTERNAL"
)

// Event represents a change in the note collection.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer (and lifecycle.Event).
func (e Event) String() string {
	if e.ID == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}

// Observer is called synchronously after every successful flush.
type Observer func(Event)
