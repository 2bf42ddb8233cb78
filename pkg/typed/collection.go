// Package typed offers type-safe views over store namespaces.
// Values are converted to and from core.Record by a JSON round trip, so T
// carries its identifier in a field tagged `json:"id"`.
package typed

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/aretw0/shelf/pkg/core"
)

// Collection is a namespace whose records decode into T.
type Collection[T any] struct {
	store *core.Store
	ns    string
}

// New creates a typed collection over namespace ns.
func New[T any](store *core.Store, ns string) *Collection[T] {
	return &Collection[T]{store: store, ns: ns}
}

// Namespace returns the namespace backing the collection.
func (c *Collection[T]) Namespace() string { return c.ns }

// Store returns the underlying store.
func (c *Collection[T]) Store() *core.Store { return c.store }

// List returns every value in insertion order.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	records, err := c.store.List(ctx, c.ns)
	if err != nil {
		return nil, err
	}
	return fromRecords[T](c.ns, records)
}

// Get returns the value with the given id.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	rec, found, err := c.store.Get(ctx, c.ns, id)
	if err != nil || !found {
		return zero, found, err
	}
	v, err := FromRecord[T](rec)
	if err != nil {
		return zero, false, fmt.Errorf("failed to decode %s/%s: %w", c.ns, id, err)
	}
	return v, true, nil
}

// Save inserts or replaces v and returns it as stored (with its id).
func (c *Collection[T]) Save(ctx context.Context, v T) (T, error) {
	var zero T
	rec, err := ToRecord(v)
	if err != nil {
		return zero, err
	}
	saved, err := c.store.Save(ctx, c.ns, rec)
	if err != nil {
		return zero, err
	}
	return FromRecord[T](saved)
}

// Update merges patch into the value with the given id.
func (c *Collection[T]) Update(ctx context.Context, id string, patch core.Record) (T, bool, error) {
	var zero T
	updated, ok, err := c.store.Update(ctx, c.ns, id, patch)
	if err != nil || !ok {
		return zero, ok, err
	}
	v, err := FromRecord[T](updated)
	return v, err == nil, err
}

// Delete removes the value with the given id.
func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	return c.store.Delete(ctx, c.ns, id)
}

// Find returns the values matching pred, in insertion order.
func (c *Collection[T]) Find(ctx context.Context, pred func(T) bool) ([]T, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(all))
	for _, v := range all {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Sorted returns every value ordered by cmp. Equal values keep insertion order.
func (c *Collection[T]) Sorted(ctx context.Context, cmp func(a, b T) int) ([]T, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(all, cmp)
	return all, nil
}

// Watch streams changes to this collection's namespace.
func (c *Collection[T]) Watch(ctx context.Context) (<-chan core.Event, error) {
	return c.store.Watch(ctx, c.ns)
}

// ToggleFavorite flips the favorite marker of v under entityType.
func (c *Collection[T]) ToggleFavorite(ctx context.Context, v T, entityType string) (bool, error) {
	rec, err := ToRecord(v)
	if err != nil {
		return false, err
	}
	return c.store.ToggleFavorite(ctx, rec, entityType)
}

// ToRecord converts v into a record.
func ToRecord(v any) (core.Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal typed data: %w", err)
	}
	var rec core.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to convert typed data to record: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("typed data must encode as a JSON object")
	}
	return rec, nil
}

// FromRecord converts a record into T.
func FromRecord[T any](rec core.Record) (T, error) {
	var out T
	data, err := json.Marshal(rec)
	if err != nil {
		return out, fmt.Errorf("record marshal failed: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("unmarshal to target type failed: %w", err)
	}
	return out, nil
}

func fromRecords[T any](ns string, records []core.Record) ([]T, error) {
	out := make([]T, 0, len(records))
	for _, r := range records {
		v, err := FromRecord[T](r)
		if err != nil {
			return nil, fmt.Errorf("failed to process %s/%s: %w", ns, r.ID(), err)
		}
		out = append(out, v)
	}
	return out, nil
}
