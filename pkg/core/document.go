package core

import (
	"context"
	"encoding/json"
	"errors"
)

// Document is a namespace that holds a single JSON object, such as user
// settings or a profile, instead of a sequence of records.
type Document struct {
	store    *Store
	ns       string
	defaults Record
}

// Document returns a handle on a single-object namespace.
// Values missing from the stored object fall back to defaults.
func (s *Store) Document(ns string, defaults Record) *Document {
	return &Document{store: s, ns: ns, defaults: defaults.Clone()}
}

// Namespace returns the namespace backing the document.
func (d *Document) Namespace() string {
	return d.ns
}

// Load returns the stored object laid over the defaults.
func (d *Document) Load(ctx context.Context) (Record, error) {
	if d.ns == "" {
		return nil, ErrInvalidNamespace
	}
	stored, _, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	return d.defaults.Merge(stored), nil
}

// Exists reports whether the document was ever written.
func (d *Document) Exists(ctx context.Context) (bool, error) {
	if d.ns == "" {
		return false, ErrInvalidNamespace
	}
	_, found, err := d.load(ctx)
	return found, err
}

// Merge lays patch over the current object and writes the result.
func (d *Document) Merge(ctx context.Context, patch Record) (Record, error) {
	if d.ns == "" {
		return nil, ErrInvalidNamespace
	}
	s := d.store
	unlock := s.lock(d.ns)
	defer unlock()

	stored, found, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	merged := d.defaults.Merge(stored).Merge(patch)
	if s.timestamps {
		merged["updatedAt"] = s.now().Format(timeLayout)
	}
	if err := s.write(ctx, d.ns, merged); err != nil {
		return nil, err
	}
	if found {
		s.publish(EventModify, d.ns, "")
	} else {
		s.publish(EventCreate, d.ns, "")
	}
	return merged.Clone(), nil
}

// Replace overwrites the stored object.
func (d *Document) Replace(ctx context.Context, obj Record) error {
	if d.ns == "" {
		return ErrInvalidNamespace
	}
	if obj == nil {
		return errors.New("document cannot be nil")
	}
	s := d.store
	unlock := s.lock(d.ns)
	defer unlock()

	if err := s.write(ctx, d.ns, obj); err != nil {
		return err
	}
	s.publish(EventModify, d.ns, "")
	return nil
}

func (d *Document) load(ctx context.Context) (Record, bool, error) {
	raw, found, err := d.store.read(ctx, d.ns)
	if err != nil || !found {
		return nil, false, err
	}
	var obj Record
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, false, corrupt(d.ns, err)
	}
	// A stored JSON null counts as never written.
	return obj, obj != nil, nil
}
