package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/miniapp-server/internal/logger"
	"github.com/dtroode/miniapp-server/internal/model"
)

// DefaultProfileTTL is used when the profile cache TTL is not configured.
const DefaultProfileTTL = 5 * time.Minute

// ProfileCacheKey is the cache key of a user's profile.
func ProfileCacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

// User serves the authenticated user's own account.
type User struct {
	store   model.UserStore
	cache   model.Cache
	avatars model.AvatarMirror
	events  model.EventPublisher
	logger  *logger.Logger
	ttl     time.Duration
	now     func() time.Time
}

func NewUser(
	store model.UserStore,
	cache model.Cache,
	avatars model.AvatarMirror,
	events model.EventPublisher,
	logger *logger.Logger,
	ttl time.Duration,
) *User {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	return &User{
		store:   store,
		cache:   cache,
		avatars: avatars,
		events:  events,
		logger:  logger,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Profile returns the user, reading through the profile cache.
func (s *User) Profile(ctx context.Context, id uuid.UUID) (model.User, error) {
	key := ProfileCacheKey(id)

	data, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var user model.User
		if err := json.Unmarshal(data, &user); err == nil {
			return user, nil
		}
		s.logger.Warn("User service: dropping undecodable cached profile", "user_id", id)
	case !errors.Is(err, model.ErrCacheMiss):
		s.logger.Warn("User service: failed to read cached profile",
			"user_id", id,
			"error", err.Error())
	}

	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, err
		}
		s.logger.Error("User service: failed to get user",
			"user_id", id,
			"error", err.Error())
		return model.User{}, fmt.Errorf("%w: failed to get user: %w", model.ErrStorage, err)
	}

	data, err = json.Marshal(user)
	if err != nil {
		return user, nil
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("User service: failed to cache profile",
			"user_id", id,
			"error", err.Error())
	}

	return user, nil
}

// UpdateSettings replaces the user's settings map.
func (s *User) UpdateSettings(ctx context.Context, id uuid.UUID, settings map[string]any) (model.User, error) {
	if settings == nil {
		settings = map[string]any{}
	}

	user, err := s.store.UpdateSettings(ctx, id, settings, s.now().UTC())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, err
		}
		s.logger.Error("User service: failed to update settings",
			"user_id", id,
			"error", err.Error())
		return model.User{}, fmt.Errorf("%w: failed to update settings: %w", model.ErrStorage, err)
	}

	s.invalidate(ctx, id)
	return user, nil
}

// Delete removes the account together with its cached profile and mirrored
// avatar. Session tokens already issued stay valid until they expire.
func (s *User) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: failed to get user: %w", model.ErrStorage, err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		s.logger.Error("User service: failed to delete user",
			"user_id", id,
			"error", err.Error())
		return fmt.Errorf("%w: failed to delete user: %w", model.ErrStorage, err)
	}

	s.invalidate(ctx, id)

	if err := s.avatars.Remove(ctx, id); err != nil {
		s.logger.Warn("User service: failed to remove avatar",
			"user_id", id,
			"error", err.Error())
	}

	err = s.events.Publish(ctx, model.UserEvent{
		Type:       model.UserDeleted,
		UserID:     id,
		ExternalID: user.ExternalID,
		Timestamp:  s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("User service: failed to publish event",
			"type", model.UserDeleted,
			"user_id", id,
			"error", err.Error())
	}

	s.logger.Info("User service: account deleted", "user_id", id)
	return nil
}

// Avatar opens the mirrored avatar of the user.
func (s *User) Avatar(ctx context.Context, id uuid.UUID) (model.Object, error) {
	return s.avatars.Open(ctx, id)
}

func (s *User) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, ProfileCacheKey(id)); err != nil {
		s.logger.Warn("User service: failed to invalidate cached profile",
			"user_id", id,
			"error", err.Error())
	}
}
