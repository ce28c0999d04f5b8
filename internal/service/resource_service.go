package service

import (
	"context"
	"errors"
	"fmt"

	"mock_backend/internal/model"
	"mock_backend/internal/repository"
	"mock_backend/internal/store"
)

var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrDuplicateID      = errors.New("resource with this id already exists")
)

// ResourceService defines the generic collection operations
type ResourceService interface {
	Dump(ctx context.Context) (model.Snapshot, error)
	List(ctx context.Context, collection string, filters model.ListFilters) ([]model.Record, error)
	Get(ctx context.Context, collection, id string) (model.Record, error)
	Create(ctx context.Context, collection string, rec model.Record) (model.Record, error)
	Replace(ctx context.Context, collection, id string, rec model.Record) (model.Record, error)
	Patch(ctx context.Context, collection, id string, fields model.Record) (model.Record, error)
	Delete(ctx context.Context, collection, id string) error

	// Nested routes: /:parent/:parentID/:child
	ListNested(ctx context.Context, parent, parentID, child string, filters model.ListFilters) ([]model.Record, error)
	CreateNested(ctx context.Context, parent, parentID, child string, rec model.Record) (model.Record, error)
}

type resourceService struct {
	repo repository.ResourceRepository
}

// NewResourceService creates a new ResourceService
func NewResourceService(repo repository.ResourceRepository) ResourceService {
	return &resourceService{repo: repo}
}

func (s *resourceService) Dump(ctx context.Context) (model.Snapshot, error) {
	return s.repo.Dump(ctx)
}

func (s *resourceService) List(ctx context.Context, collection string, filters model.ListFilters) ([]model.Record, error) {
	records, err := s.repo.FindAll(ctx, collection)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return applyFilters(records, filters), nil
}

func (s *resourceService) Get(ctx context.Context, collection, id string) (model.Record, error) {
	rec, err := s.repo.FindByID(ctx, collection, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return rec, nil
}

func (s *resourceService) Create(ctx context.Context, collection string, rec model.Record) (model.Record, error) {
	created, err := s.repo.Create(ctx, collection, rec)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return created, nil
}

func (s *resourceService) Replace(ctx context.Context, collection, id string, rec model.Record) (model.Record, error) {
	updated, err := s.repo.Replace(ctx, collection, id, rec)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return updated, nil
}

func (s *resourceService) Patch(ctx context.Context, collection, id string, fields model.Record) (model.Record, error) {
	updated, err := s.repo.Patch(ctx, collection, id, fields)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return updated, nil
}

func (s *resourceService) Delete(ctx context.Context, collection, id string) error {
	if err := s.repo.Delete(ctx, collection, id); err != nil {
		return mapStoreError(err)
	}
	return nil
}

// ListNested lists child records whose <singular(parent)>Id equals parentID.
// The parent record itself is not required to exist.
func (s *resourceService) ListNested(ctx context.Context, parent, parentID, child string, filters model.ListFilters) ([]model.Record, error) {
	filters.Filters = append(filters.Filters, model.FieldFilter{
		Field:    foreignKey(parent),
		Operator: model.OpEq,
		Values:   []string{parentID},
	})
	return s.List(ctx, child, filters)
}

// CreateNested inserts into child with the foreign key set. When the parent
// record exists its id value is copied so numeric ids stay numeric.
func (s *resourceService) CreateNested(ctx context.Context, parent, parentID, child string, rec model.Record) (model.Record, error) {
	var fk any = parentID
	if parentRec, err := s.repo.FindByID(ctx, parent, parentID); err == nil {
		fk = parentRec[model.IDField]
	}

	rec = rec.Clone()
	rec[foreignKey(parent)] = fk
	return s.Create(ctx, child, rec)
}

// mapStoreError translates store errors into service errors and leaves
// anything else (persistence failures) wrapped as is.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrCollectionNotFound), errors.Is(err, store.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrResourceNotFound, err)
	case errors.Is(err, store.ErrDuplicateID):
		return fmt.Errorf("%w: %w", ErrDuplicateID, err)
	default:
		return err
	}
}
