package repository

import (
	"context"
	"fmt"

	"mock_backend/internal/model"
	"mock_backend/internal/store"
)

// ResourceRepository defines collection-level operations on the document store
type ResourceRepository interface {
	Collections() []string
	Exists(collection string) bool
	Dump(ctx context.Context) (model.Snapshot, error)
	FindAll(ctx context.Context, collection string) ([]model.Record, error)
	FindByID(ctx context.Context, collection, id string) (model.Record, error)
	Create(ctx context.Context, collection string, rec model.Record) (model.Record, error)
	Replace(ctx context.Context, collection, id string, rec model.Record) (model.Record, error)
	Patch(ctx context.Context, collection, id string, fields model.Record) (model.Record, error)
	Delete(ctx context.Context, collection, id string) error
}

type resourceRepository struct {
	db *store.Store
}

// NewResourceRepository creates a new ResourceRepository
func NewResourceRepository(db *store.Store) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) Collections() []string {
	return r.db.Collections()
}

func (r *resourceRepository) Exists(collection string) bool {
	return r.db.HasCollection(collection)
}

// Dump returns the whole store
func (r *resourceRepository) Dump(_ context.Context) (model.Snapshot, error) {
	return r.db.Snapshot(), nil
}

// FindAll returns every record of a collection in stored order
func (r *resourceRepository) FindAll(_ context.Context, collection string) ([]model.Record, error) {
	records, err := r.db.List(collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	return records, nil
}

// FindByID retrieves a record by its id
func (r *resourceRepository) FindByID(_ context.Context, collection, id string) (model.Record, error) {
	rec, err := r.db.Get(collection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s/%s: %w", collection, id, err)
	}
	return rec, nil
}

// Create inserts a new record, the store assigns the id when missing
func (r *resourceRepository) Create(ctx context.Context, collection string, rec model.Record) (model.Record, error) {
	created, err := r.db.Insert(ctx, collection, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to create record in %s: %w", collection, err)
	}
	return created, nil
}

func (r *resourceRepository) Replace(ctx context.Context, collection, id string, rec model.Record) (model.Record, error) {
	updated, err := r.db.Replace(ctx, collection, id, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to replace %s/%s: %w", collection, id, err)
	}
	return updated, nil
}

func (r *resourceRepository) Patch(ctx context.Context, collection, id string, fields model.Record) (model.Record, error) {
	updated, err := r.db.Patch(ctx, collection, id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to patch %s/%s: %w", collection, id, err)
	}
	return updated, nil
}

func (r *resourceRepository) Delete(ctx context.Context, collection, id string) error {
	if err := r.db.Delete(ctx, collection, id); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}
