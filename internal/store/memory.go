package store

import (
	"context"
	"sync"

	"mock_backend/internal/model"
)

// MemoryBackend keeps the snapshot in process memory. Used by tests and by
// STORAGE_DRIVER=memory.
type MemoryBackend struct {
	mu   sync.Mutex
	snap model.Snapshot
}

// NewMemoryBackend returns a backend seeded with snap, or with the default
// empty collections when snap is nil.
func NewMemoryBackend(snap model.Snapshot) *MemoryBackend {
	if snap == nil {
		snap = model.Snapshot{}
		snap.EnsureCollections(model.DefaultCollections...)
	}
	return &MemoryBackend{snap: snap.Clone()}
}

func (b *MemoryBackend) Load(_ context.Context) (model.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap.Clone(), nil
}

func (b *MemoryBackend) Save(_ context.Context, snap model.Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snap = snap.Clone()
	return nil
}

// Saved returns a copy of the last saved snapshot.
func (b *MemoryBackend) Saved() model.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap.Clone()
}

func (b *MemoryBackend) Ping(_ context.Context) error { return nil }

func (b *MemoryBackend) Close() error { return nil }
