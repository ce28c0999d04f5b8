package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"mock_backend/internal/model"
)

// FileBackend persists the snapshot as one indented JSON document.
type FileBackend struct {
	path   string
	logger *zap.Logger
}

// NewFileBackend creates a backend for the JSON file at path.
func NewFileBackend(path string, logger *zap.Logger) *FileBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileBackend{path: path, logger: logger}
}

// Load reads the file. A missing file is created with the default collections.
func (b *FileBackend) Load(ctx context.Context) (model.Snapshot, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		snap := model.Snapshot{}
		snap.EnsureCollections(model.DefaultCollections...)
		if err := b.Save(ctx, snap); err != nil {
			return nil, err
		}
		b.logger.Info("created document store file", zap.String("path", b.path))
		return snap, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", b.path, err)
	}

	snap, err := model.DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", b.path, err)
	}
	b.logger.Info("loaded document store file", zap.String("path", b.path), zap.Int("collections", len(snap)))
	return snap, nil
}

// Save writes the snapshot to a temp file in the same directory and renames
// it over the target.
func (b *FileBackend) Save(_ context.Context, snap model.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", b.path, err)
	}
	return nil
}

// Ping checks that the file's directory is still there.
func (b *FileBackend) Ping(_ context.Context) error {
	_, err := os.Stat(filepath.Dir(b.path))
	return err
}

func (b *FileBackend) Close() error { return nil }
