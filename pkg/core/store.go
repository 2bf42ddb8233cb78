package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

const (
	// maxIDAttempts bounds the retries when a generated id collides.
	maxIDAttempts = 1000
	timeLayout    = time.RFC3339Nano
)

// Store provides namespaced CRUD over ordered sequences of records.
// Each namespace is one JSON array stored under its own key in the medium.
type Store struct {
	medium      Medium
	logger      *slog.Logger
	ids         IDGenerator
	clock       func() time.Time
	mode        SaveMode
	timestamps  bool
	serialize   bool
	favoritesNS string
	eventBuffer int

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	broker *broker

	mu      sync.RWMutex
	touched map[string]struct{}
}

// NewStore creates a Store on top of the given medium.
func NewStore(medium Medium, opts ...StoreOption) *Store {
	s := &Store{
		medium:      medium,
		logger:      slog.Default().With("component", "store"),
		clock:       time.Now,
		serialize:   true,
		favoritesNS: DefaultFavoritesNamespace,
		eventBuffer: DefaultEventBuffer,
		locks:       make(map[string]*sync.Mutex),
		touched:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = NewTimestampIDs(s.clock)
	}
	s.broker = newBroker(s.eventBuffer, s.logger)
	return s
}

// Medium returns the medium the store writes to.
func (s *Store) Medium() Medium {
	return s.medium
}

// Close releases the medium when it holds resources (database handles).
func (s *Store) Close() error {
	if c, ok := s.medium.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Initialize prepares the medium if it needs setup.
func (s *Store) Initialize(ctx context.Context) error {
	if init, ok := s.medium.(Initializer); ok {
		if err := init.Initialize(ctx); err != nil {
			return Unavailable("initialize", "", err)
		}
	}
	return nil
}

// List returns the records of a namespace in insertion order.
// A namespace never written to yields an empty slice.
func (s *Store) List(ctx context.Context, ns string) ([]Record, error) {
	if ns == "" {
		return nil, ErrInvalidNamespace
	}
	return s.load(ctx, ns)
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, ns, id string) (Record, bool, error) {
	records, err := s.List(ctx, ns)
	if err != nil {
		return nil, false, err
	}
	if i := indexOf(records, id); i >= 0 {
		return records[i], true, nil
	}
	return nil, false, nil
}

// Save inserts or replaces a record.
//
// Workflow:
//  1. Load the namespace.
//  2. No id: generate one and append.
//  3. Known id: replace in place (or merge in patch mode), keeping the position.
//  4. Unknown id: append with that exact id.
//  5. Write the whole sequence back with a single Set.
func (s *Store) Save(ctx context.Context, ns string, rec Record) (Record, error) {
	if ns == "" {
		return nil, ErrInvalidNamespace
	}
	id, err := recordID(rec)
	if err != nil {
		return nil, err
	}

	unlock := s.lock(ns)
	defer unlock()

	records, err := s.load(ctx, ns)
	if err != nil {
		return nil, err
	}

	stored := rec.Clone()
	if stored == nil {
		stored = make(Record)
	}
	now := s.now()
	evType := EventCreate

	switch i := indexOf(records, id); {
	case id == "":
		id, err = s.newID(records)
		if err != nil {
			return nil, err
		}
		stored[IDField] = id
		s.stampCreate(stored, records, -1, now)
		records = append(records, stored)
	case i >= 0:
		if s.mode == SavePatch {
			stored = records[i].Merge(stored)
		}
		s.stampCreate(stored, records, i, now)
		records[i] = stored
		evType = EventModify
	default:
		s.stampCreate(stored, records, -1, now)
		records = append(records, stored)
	}

	if err := s.write(ctx, ns, records); err != nil {
		return nil, err
	}
	s.logger.Debug("record saved", "namespace", ns, "id", id, "op", evType)
	s.publish(evType, ns, id)
	return stored.Clone(), nil
}

// Update merges patch into the record with the given id.
// It reports false, without writing, when the id is unknown.
func (s *Store) Update(ctx context.Context, ns, id string, patch Record) (Record, bool, error) {
	if ns == "" {
		return nil, false, ErrInvalidNamespace
	}
	if id == "" {
		return nil, false, ErrMissingID
	}

	unlock := s.lock(ns)
	defer unlock()

	records, err := s.load(ctx, ns)
	if err != nil {
		return nil, false, err
	}
	i := indexOf(records, id)
	if i < 0 {
		return nil, false, nil
	}

	merged := records[i].Merge(patch)
	merged[IDField] = id
	s.stampCreate(merged, records, i, s.now())
	records[i] = merged

	if err := s.write(ctx, ns, records); err != nil {
		return nil, false, err
	}
	s.publish(EventModify, ns, id)
	return merged.Clone(), true, nil
}

// Delete removes the record with the given id.
// It reports false, without writing, when nothing matched.
func (s *Store) Delete(ctx context.Context, ns, id string) (bool, error) {
	if ns == "" {
		return false, ErrInvalidNamespace
	}

	unlock := s.lock(ns)
	defer unlock()

	records, err := s.load(ctx, ns)
	if err != nil {
		return false, err
	}

	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if r.ID() != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		s.logger.Debug("delete matched nothing", "namespace", ns, "id", id)
		return false, nil
	}

	if err := s.write(ctx, ns, kept); err != nil {
		return false, err
	}
	s.publish(EventDelete, ns, id)
	return true, nil
}

// --- internals ---

func (s *Store) now() time.Time {
	return s.clock().UTC()
}

// lock serializes read-modify-write cycles on one namespace.
func (s *Store) lock(ns string) func() {
	if !s.serialize {
		return func() {}
	}
	s.locksMu.Lock()
	m, ok := s.locks[ns]
	if !ok {
		m = &sync.Mutex{}
		s.locks[ns] = m
	}
	s.locksMu.Unlock()

	m.Lock()
	return m.Unlock
}

// read fetches the raw blob of a key.
func (s *Store) read(ctx context.Context, key string) (string, bool, error) {
	raw, found, err := s.medium.Get(ctx, key)
	if err != nil {
		return "", false, Unavailable("get", key, err)
	}
	return raw, found, nil
}

func (s *Store) load(ctx context.Context, ns string) ([]Record, error) {
	raw, found, err := s.read(ctx, ns)
	if err != nil {
		return nil, err
	}
	if !found {
		return []Record{}, nil
	}
	return decodeRecords(ns, raw)
}

func decodeRecords(ns, raw string) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, corrupt(ns, err)
	}
	if records == nil {
		return []Record{}, nil
	}
	for i, r := range records {
		if r == nil {
			return nil, corrupt(ns, fmt.Errorf("entry %d is not an object", i))
		}
		if _, err := recordID(r); err != nil {
			return nil, corrupt(ns, fmt.Errorf("entry %d: %w", i, err))
		}
	}
	return records, nil
}

func (s *Store) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode namespace %q: %w", key, err)
	}
	if err := s.medium.Set(ctx, key, string(data)); err != nil {
		s.logger.Error("write failed", "namespace", key, "error", err)
		return Unavailable("set", key, err)
	}
	s.touch(key)
	return nil
}

func (s *Store) touch(ns string) {
	s.mu.Lock()
	s.touched[ns] = struct{}{}
	s.mu.Unlock()
}

func (s *Store) newID(records []Record) (string, error) {
	for range maxIDAttempts {
		id := s.ids.NewID()
		if id != "" && indexOf(records, id) < 0 {
			return id, nil
		}
	}
	return "", errors.New("failed to generate a unique id")
}

// stampCreate sets createdAt/updatedAt when timestamps are enabled.
// A replaced record keeps the createdAt of the one it replaces.
func (s *Store) stampCreate(rec Record, records []Record, replaced int, now time.Time) {
	if !s.timestamps {
		return
	}
	ts := now.Format(timeLayout)
	if _, ok := rec["createdAt"]; !ok {
		if replaced >= 0 {
			if prev, ok := records[replaced]["createdAt"]; ok {
				rec["createdAt"] = prev
			}
		}
		if _, ok := rec["createdAt"]; !ok {
			rec["createdAt"] = ts
		}
	}
	rec["updatedAt"] = ts
}

func recordID(rec Record) (string, error) {
	v, ok := rec[IDField]
	if !ok || v == nil {
		return "", nil
	}
	id, ok := v.(string)
	if !ok {
		return "", ErrInvalidID
	}
	return id, nil
}

func indexOf(records []Record, id string) int {
	if id == "" {
		return -1
	}
	for i, r := range records {
		if r.ID() == id {
			return i
		}
	}
	return -1
}
