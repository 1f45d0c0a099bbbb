package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/miniapp-server/internal/logger"
	"github.com/dtroode/miniapp-server/internal/model"
)

// IdentityUpsert finds or creates the user bound to a Telegram identity.
type IdentityUpsert struct {
	store  model.UserStore
	logger *logger.Logger
	now    func() time.Time
}

func NewIdentityUpsert(store model.UserStore, logger *logger.Logger) *IdentityUpsert {
	return &IdentityUpsert{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Upsert returns the user for claim.ExternalID with its profile overwritten
// from the claim. created reports whether the row was inserted by this call.
//
// Concurrent first logins race on the unique external id. The loser of the
// insert gets model.ErrConflict and retries once as an update.
func (u *IdentityUpsert) Upsert(ctx context.Context, claim model.IdentityClaim) (model.User, bool, error) {
	now := u.now().UTC()

	user, err := u.update(ctx, claim, now)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, false, err
	}

	user, err = u.store.Insert(ctx, newUser(claim, now))
	if err == nil {
		u.logger.Info("Identity upsert: user created",
			"user_id", user.ID,
			"external_id", claim.ExternalID)
		return user, true, nil
	}
	if !errors.Is(err, model.ErrConflict) {
		u.logger.Error("Identity upsert: failed to insert user",
			"external_id", claim.ExternalID,
			"error", err.Error())
		return model.User{}, false, fmt.Errorf("%w: failed to insert user: %w", model.ErrStorage, err)
	}

	u.logger.Debug("Identity upsert: insert lost race, retrying as update",
		"external_id", claim.ExternalID)

	user, err = u.update(ctx, claim, now)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, false, fmt.Errorf("%w: user removed during upsert: %w", model.ErrStorage, err)
	}
	if err != nil {
		return model.User{}, false, err
	}
	return user, false, nil
}

// update returns model.ErrNotFound unwrapped when no row exists, any other
// failure is wrapped with model.ErrStorage.
func (u *IdentityUpsert) update(ctx context.Context, claim model.IdentityClaim, now time.Time) (model.User, error) {
	existing, err := u.store.FindByExternalID(ctx, claim.ExternalID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrNotFound
	}
	if err != nil {
		u.logger.Error("Identity upsert: failed to find user",
			"external_id", claim.ExternalID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("%w: failed to find user: %w", model.ErrStorage, err)
	}

	user, err := u.store.UpdateProfile(ctx, existing.ID, model.ProfileFromClaim(claim, now))
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrNotFound
	}
	if err != nil {
		u.logger.Error("Identity upsert: failed to update user profile",
			"user_id", existing.ID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("%w: failed to update user profile: %w", model.ErrStorage, err)
	}

	return user, nil
}

func newUser(claim model.IdentityClaim, now time.Time) model.User {
	return model.User{
		ID:         uuid.New(),
		ExternalID: claim.ExternalID,
		Settings:   map[string]any{},
		CreatedAt:  now,
	}.ApplyProfile(model.ProfileFromClaim(claim, now))
}
