// Package core holds the domain of shelf: records, namespaces, the medium port
// and the Store that performs namespaced CRUD on top of it.
package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// IDField is the record key that carries the record identifier.
const IDField = "id"

// Record is one serializable entity. Every stored record carries a string "id";
// all other fields are opaque to the store.
type Record map[string]any

// ID returns the record identifier, or "" when absent or not a string.
func (r Record) ID() string {
	id, _ := r[IDField].(string)
	return id
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = cloneValue(inner)
		}
		return m
	case Record:
		return t.Clone()
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = cloneValue(inner)
		}
		return s
	case []string:
		return append([]string(nil), t...)
	case json.RawMessage:
		return append(json.RawMessage(nil), t...)
	default:
		return v
	}
}

// Merge returns a copy of r with every field of patch laid over it.
// Nested objects are replaced, not merged.
func (r Record) Merge(patch Record) Record {
	out := r.Clone()
	if out == nil {
		out = make(Record, len(patch))
	}
	for k, v := range patch {
		out[k] = cloneValue(v)
	}
	return out
}

// EventType represents the kind of change applied to a namespace.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event describes a change in a namespace. ID is empty when the change
// affected the namespace as a whole (import, clear, external edit).
type Event struct {
	Type      EventType
	Namespace string
	ID        string
	Timestamp int64 // Unix timestamp
	External  bool  // change observed on the medium, not made through this Store
}

func (e Event) String() string {
	if e.ID == "" {
		return fmt.Sprintf("%s %s", e.Type, e.Namespace)
	}
	return fmt.Sprintf("%s %s/%s", e.Type, e.Namespace, e.ID)
}

// FavoriteMarker links an arbitrary entity to the favorites relation.
// No referential integrity is kept: the entity may have been deleted since.
type FavoriteMarker struct {
	EntityID    string    `json:"entityId"`
	EntityType  string    `json:"entityType"`
	FavoritedAt time.Time `json:"favoritedAt"`
	Snapshot    Record    `json:"snapshot,omitempty"`
}

// Key returns the composite key the marker is stored under.
func (m FavoriteMarker) Key() string {
	return FavoriteKey(m.EntityType, m.EntityID)
}

// FavoriteKey builds the composite favorites key "type:id".
func FavoriteKey(entityType, id string) string {
	return entityType + ":" + id
}
