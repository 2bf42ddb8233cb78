package core

import "context"

// Medium is the persistent key-value storage the Store is built on.
// Adhering to this interface keeps the core independent of the underlying
// storage mechanism (memory, files, SQLite, a remote store).
type Medium interface {
	// Get returns the raw value stored at key. found is false when the key was never written.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set replaces the value stored at key.
	Set(ctx context.Context, key, value string) error
}

// Remover is implemented by media that can delete keys.
type Remover interface {
	Remove(ctx context.Context, keys ...string) error
}

// KeyLister is implemented by media that can enumerate their keys.
type KeyLister interface {
	Keys(ctx context.Context) ([]string, error)
}

// Initializer is implemented by media that need setup before use
// (create directories, open schema).
type Initializer interface {
	Initialize(ctx context.Context) error
}

// KeyWatcher is implemented by media that can observe changes made to them by
// other processes. The channel yields the changed keys and is closed when ctx ends.
type KeyWatcher interface {
	WatchKeys(ctx context.Context) (<-chan string, error)
}

type contextKey string

// ChangeReasonKey is the context key for passing a change reason (commit
// message) to media that keep history.
const ChangeReasonKey contextKey = "change_reason"
