package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/miniapp-server/internal/model"
)

func TestUserRepository_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	u := model.User{ID: uuid.New(), ExternalID: 42, FirstName: "Nina"}

	saved, err := r.Insert(ctx, u)
	require.NoError(t, err)
	assert.NotNil(t, saved.Settings)

	got, err := r.FindByExternalID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nina", got.FirstName)

	_, err = r.FindByExternalID(ctx, 43)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_InsertConflict(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	_, err := r.Insert(ctx, model.User{ID: uuid.New(), ExternalID: 42})
	require.NoError(t, err)

	_, err = r.Insert(ctx, model.User{ID: uuid.New(), ExternalID: 42})
	assert.ErrorIs(t, err, model.ErrConflict)
	assert.Equal(t, 1, r.Count())
}

func TestUserRepository_UpdateProfileKeepsExternalID(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	u, err := r.Insert(ctx, model.User{ID: uuid.New(), ExternalID: 42, FirstName: "Nina"})
	require.NoError(t, err)

	now := time.Now()
	updated, err := r.UpdateProfile(ctx, u.ID, model.Profile{FirstName: "Nora", IsPremium: true, UpdatedAt: now})
	require.NoError(t, err)
	assert.Equal(t, "Nora", updated.FirstName)
	assert.Equal(t, int64(42), updated.ExternalID)
	assert.True(t, updated.IsPremium)
	assert.Equal(t, now, updated.UpdatedAt)

	_, err = r.UpdateProfile(ctx, uuid.New(), model.Profile{})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_SettingsAreCopied(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	u, err := r.Insert(ctx, model.User{ID: uuid.New(), ExternalID: 1})
	require.NoError(t, err)

	settings := map[string]any{"theme": "dark"}
	_, err = r.UpdateSettings(ctx, u.ID, settings, time.Now())
	require.NoError(t, err)
	settings["theme"] = "light"

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Settings["theme"])
}

func TestUserRepository_Delete(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	u, err := r.Insert(ctx, model.User{ID: uuid.New(), ExternalID: 42})
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, u.ID))
	assert.ErrorIs(t, r.Delete(ctx, u.ID), model.ErrNotFound)

	_, err = r.FindByExternalID(ctx, 42)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = r.Insert(ctx, model.User{ID: uuid.New(), ExternalID: 42})
	assert.NoError(t, err)
}
