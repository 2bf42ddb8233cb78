package typed

import (
	"context"

	"github.com/aretw0/shelf/pkg/core"
)

// Document is a typed view of a single-object namespace.
type Document[T any] struct {
	doc *core.Document
}

// NewDocument creates a typed document. Fields missing from the stored
// object take their value from defaults.
func NewDocument[T any](store *core.Store, ns string, defaults T) (*Document[T], error) {
	rec, err := ToRecord(defaults)
	if err != nil {
		return nil, err
	}
	return &Document[T]{doc: store.Document(ns, rec)}, nil
}

// Load returns the stored object laid over the defaults.
func (d *Document[T]) Load(ctx context.Context) (T, error) {
	var zero T
	rec, err := d.doc.Load(ctx)
	if err != nil {
		return zero, err
	}
	return FromRecord[T](rec)
}

// Merge applies patch and returns the resulting object.
func (d *Document[T]) Merge(ctx context.Context, patch core.Record) (T, error) {
	var zero T
	rec, err := d.doc.Merge(ctx, patch)
	if err != nil {
		return zero, err
	}
	return FromRecord[T](rec)
}

// Replace overwrites the stored object with v.
func (d *Document[T]) Replace(ctx context.Context, v T) error {
	rec, err := ToRecord(v)
	if err != nil {
		return err
	}
	return d.doc.Replace(ctx, rec)
}

// Exists reports whether the object was ever written.
func (d *Document[T]) Exists(ctx context.Context) (bool, error) {
	return d.doc.Exists(ctx)
}
