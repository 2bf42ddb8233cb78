package core

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator issues identifiers for records saved without one.
// The Store retries when an issued id already exists in the namespace.
type IDGenerator interface {
	NewID() string
}

// TimestampIDs issues millisecond Unix timestamps as decimal strings.
// Issued values are strictly increasing within one generator.
type TimestampIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewTimestampIDs creates a timestamp generator. A nil clock means time.Now.
func NewTimestampIDs(clock func() time.Time) *TimestampIDs {
	if clock == nil {
		clock = time.Now
	}
	return &TimestampIDs{now: clock}
}

func (g *TimestampIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}

// UUIDIDs issues random version 4 UUIDs.
type UUIDIDs struct{}

func (UUIDIDs) NewID() string {
	return uuid.NewString()
}
