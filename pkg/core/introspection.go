package core

import (
	"sort"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	MediumType       string   `json:"medium_type"`
	SaveMode         string   `json:"save_mode"`
	Timestamps       bool     `json:"timestamps"`
	SerializedWrites bool     `json:"serialized_writes"`
	EventBufferSize  int      `json:"event_buffer_size"`
	Subscribers      int      `json:"subscribers"`
	Namespaces       []string `json:"namespaces"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	namespaces := make([]string, 0, len(s.touched))
	for ns := range s.touched {
		namespaces = append(namespaces, ns)
	}
	s.mu.RUnlock()
	sort.Strings(namespaces)

	mediumType := "unknown"
	if s.medium != nil {
		mediumType = "medium"
		if comp, ok := s.medium.(introspection.Component); ok {
			mediumType = comp.ComponentType()
		}
	}

	return StoreState{
		MediumType:       mediumType,
		SaveMode:         s.mode.String(),
		Timestamps:       s.timestamps,
		SerializedWrites: s.serialize,
		EventBufferSize:  s.eventBuffer,
		Subscribers:      s.broker.len(),
		Namespaces:       namespaces,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
