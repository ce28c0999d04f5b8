package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mock_backend/internal/model"
	"mock_backend/internal/store"
)

// UserRepository defines operations for user data
type UserRepository interface {
	FindByCredentials(ctx context.Context, creds model.Credentials) (model.Record, error)
}

type userRepository struct {
	db *store.Store
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *store.Store) UserRepository {
	return &userRepository{db: db}
}

// FindByCredentials scans the users collection for the first record whose
// phone and password both equal the given values. Returns nil, nil when no
// user matches.
func (r *userRepository) FindByCredentials(_ context.Context, creds model.Credentials) (model.Record, error) {
	if creds.Phone == nil || creds.Password == nil {
		return nil, nil
	}

	users, err := r.db.List(model.UsersCollection)
	if err != nil {
		if errors.Is(err, store.ErrCollectionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	for _, u := range users {
		if jsonEqual(u[model.PhoneField], creds.Phone) && jsonEqual(u[model.PasswordField], creds.Password) {
			return u, nil
		}
	}
	return nil, nil
}

// jsonEqual is strict equality on scalar JSON values: same type, same value.
func jsonEqual(stored, given any) bool {
	switch g := given.(type) {
	case string:
		s, ok := stored.(string)
		return ok && s == g
	case json.Number:
		s, ok := stored.(json.Number)
		return ok && numbersEqual(s, g)
	case bool:
		s, ok := stored.(bool)
		return ok && s == g
	default:
		return false
	}
}

func numbersEqual(a, b json.Number) bool {
	if a == b {
		return true
	}
	fa, errA := a.Float64()
	fb, errB := b.Float64()
	return errA == nil && errB == nil && fa == fb
}
