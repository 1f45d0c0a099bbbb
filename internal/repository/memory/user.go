// Package memory provides an in-process UserStore for development and tests.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/miniapp-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository keeps users in maps guarded by a mutex. The external id
// index enforces the same uniqueness as the postgres constraint.
type UserRepository struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]model.User
	byExternal map[int64]uuid.UUID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[uuid.UUID]model.User),
		byExternal: make(map[int64]uuid.UUID),
	}
}

func (r *UserRepository) FindByExternalID(_ context.Context, externalID int64) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byExternal[externalID]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return clone(user), nil
}

func (r *UserRepository) Insert(_ context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byExternal[user.ExternalID]; ok {
		return model.User{}, model.ErrConflict
	}
	if _, ok := r.byID[user.ID]; ok {
		return model.User{}, model.ErrConflict
	}

	user = clone(user)
	r.byID[user.ID] = user
	r.byExternal[user.ExternalID] = user.ID

	return clone(user), nil
}

func (r *UserRepository) UpdateProfile(_ context.Context, id uuid.UUID, profile model.Profile) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	user = user.ApplyProfile(profile)
	r.byID[id] = user

	return clone(user), nil
}

func (r *UserRepository) UpdateSettings(_ context.Context, id uuid.UUID, settings map[string]any, updatedAt time.Time) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	user.Settings = maps.Clone(settings)
	if user.Settings == nil {
		user.Settings = map[string]any{}
	}
	user.UpdatedAt = updatedAt
	r.byID[id] = user

	return clone(user), nil
}

func (r *UserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return model.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byExternal, user.ExternalID)

	return nil
}

// Ready always succeeds; there is no schema to report.
func (r *UserRepository) Ready(_ context.Context) (int64, error) {
	return 0, nil
}

// Count returns the number of stored users.
func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func clone(user model.User) model.User {
	user.Settings = maps.Clone(user.Settings)
	if user.Settings == nil {
		user.Settings = map[string]any{}
	}
	return user
}
