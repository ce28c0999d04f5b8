// Package store holds the in-memory document store and persists it through
// a pluggable Backend after every mutation.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"mock_backend/internal/model"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrRecordNotFound     = errors.New("record not found")
	ErrDuplicateID        = errors.New("record with this id already exists")
)

// Backend loads and saves whole snapshots.
type Backend interface {
	Load(ctx context.Context) (model.Snapshot, error)
	Save(ctx context.Context, snap model.Snapshot) error
	Ping(ctx context.Context) error
	Close() error
}

// Store is the process-wide document store handle. The mutex only keeps map
// access memory-safe; concurrent updates to one record are last-write-wins.
type Store struct {
	mu      sync.RWMutex
	data    model.Snapshot
	backend Backend
}

// Open loads the snapshot from backend.
func Open(ctx context.Context, backend Backend) (*Store, error) {
	snap, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document store: %w", err)
	}
	if snap == nil {
		snap = model.Snapshot{}
	}
	return &Store{data: snap, backend: backend}, nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// Collections returns the collection names in sorted order.
func (s *Store) Collections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasCollection reports whether name is a top-level collection.
func (s *Store) HasCollection(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[name]
	return ok
}

// Snapshot returns a deep copy of the whole store.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// List returns copies of every record in the collection, in stored order.
func (s *Store) List(name string) ([]model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.data[name]
	if !ok {
		return nil, ErrCollectionNotFound
	}
	out := make([]model.Record, len(records))
	for i, rec := range records {
		out[i] = rec.Clone()
	}
	return out, nil
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(name, id string) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.data[name]
	if !ok {
		return nil, ErrCollectionNotFound
	}
	idx := indexOf(records, id)
	if idx < 0 {
		return nil, ErrRecordNotFound
	}
	return records[idx].Clone(), nil
}

// Insert appends rec to the collection, assigning an id when it has none.
func (s *Store) Insert(ctx context.Context, name string, rec model.Record) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.data[name]
	if !ok {
		return nil, ErrCollectionNotFound
	}

	rec = rec.Clone()
	if rec.ID() == "" {
		rec[model.IDField] = nextID(records)
	} else if indexOf(records, rec.ID()) >= 0 {
		return nil, ErrDuplicateID
	}

	s.data[name] = append(records, rec)
	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

// Replace overwrites the record with the given id. The stored id is kept.
func (s *Store) Replace(ctx context.Context, name, id string, rec model.Record) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, idx, err := s.locate(name, id)
	if err != nil {
		return nil, err
	}

	rec = rec.Clone()
	rec[model.IDField] = records[idx][model.IDField]
	records[idx] = rec

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

// Patch merges fields into the record with the given id. The id cannot change.
func (s *Store) Patch(ctx context.Context, name, id string, fields model.Record) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, idx, err := s.locate(name, id)
	if err != nil {
		return nil, err
	}

	rec := records[idx].Clone()
	for k, v := range fields {
		if k == model.IDField {
			continue
		}
		rec[k] = v
	}
	records[idx] = rec

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

// Delete removes the record with the given id.
func (s *Store) Delete(ctx context.Context, name, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, idx, err := s.locate(name, id)
	if err != nil {
		return err
	}

	s.data[name] = append(records[:idx:idx], records[idx+1:]...)
	return s.persist(ctx)
}

func (s *Store) locate(name, id string) ([]model.Record, int, error) {
	records, ok := s.data[name]
	if !ok {
		return nil, -1, ErrCollectionNotFound
	}
	idx := indexOf(records, id)
	if idx < 0 {
		return nil, -1, ErrRecordNotFound
	}
	return records, idx, nil
}

// persist must be called with the write lock held.
func (s *Store) persist(ctx context.Context) error {
	if err := s.backend.Save(ctx, s.data); err != nil {
		return fmt.Errorf("failed to persist document store: %w", err)
	}
	return nil
}

func indexOf(records []model.Record, id string) int {
	for i, rec := range records {
		if rec.ID() == id {
			return i
		}
	}
	return -1
}
