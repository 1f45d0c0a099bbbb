package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dtroode/miniapp-server/internal/logger"
	"github.com/dtroode/miniapp-server/internal/metrics"
	"github.com/dtroode/miniapp-server/internal/model"
)

// Auth exchanges Telegram launch data for a session token.
type Auth struct {
	parser  model.LaunchDataParser
	upsert  *IdentityUpsert
	tokens  model.TokenManager
	cache   model.Cache
	avatars model.AvatarMirror
	events  model.EventPublisher
	metrics *metrics.Metrics
	logger  *logger.Logger
	ttl     time.Duration
	now     func() time.Time
}

func NewAuth(
	parser model.LaunchDataParser,
	userStore model.UserStore,
	tokenManager model.TokenManager,
	cache model.Cache,
	avatars model.AvatarMirror,
	events model.EventPublisher,
	metrics *metrics.Metrics,
	logger *logger.Logger,
	ttl time.Duration,
) *Auth {
	return &Auth{
		parser:  parser,
		upsert:  NewIdentityUpsert(userStore, logger),
		tokens:  tokenManager,
		cache:   cache,
		avatars: avatars,
		events:  events,
		metrics: metrics,
		logger:  logger,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Authenticate verifies initData, upserts the user and issues a session.
//
// Every launch data failure is returned wrapping model.ErrInvalidInitData.
// The specific cause is only logged. Storage failures wrap model.ErrStorage.
func (a *Auth) Authenticate(ctx context.Context, initData string) (model.AuthResult, error) {
	claim, err := a.parser.Parse(initData)
	if err != nil {
		outcome := metrics.OutcomeInvalid
		if errors.Is(err, model.ErrExpired) {
			outcome = metrics.OutcomeExpired
		}
		a.metrics.ObserveAuth(outcome)
		a.logger.Warn("Auth service: launch data rejected",
			"reason", err.Error())
		return model.AuthResult{}, fmt.Errorf("%w: %w", model.ErrInvalidInitData, err)
	}

	user, created, err := a.upsert.Upsert(ctx, claim)
	if err != nil {
		a.metrics.ObserveAuth(metrics.OutcomeStorageError)
		return model.AuthResult{}, fmt.Errorf("failed to upsert user: %w", err)
	}

	if err := a.cache.Delete(ctx, ProfileCacheKey(user.ID)); err != nil {
		a.logger.Warn("Auth service: failed to invalidate cached profile",
			"user_id", user.ID,
			"error", err.Error())
	}

	token, err := a.tokens.Issue(user, claim, a.ttl)
	if err != nil {
		a.metrics.ObserveAuth(metrics.OutcomeIssueError)
		a.logger.Error("Auth service: failed to issue session token",
			"user_id", user.ID,
			"error", err.Error())
		return model.AuthResult{}, fmt.Errorf("failed to issue session token: %w", err)
	}

	if claim.AvatarURL != "" {
		a.avatars.Enqueue(user.ID, claim.AvatarURL)
	}

	if created {
		a.publish(ctx, model.UserCreated, user)
	}
	a.publish(ctx, model.UserAuthenticated, user)

	a.metrics.ObserveAuth(metrics.OutcomeOK)
	a.logger.Info("Auth service: user authenticated",
		"user_id", user.ID,
		"external_id", strconv.FormatInt(user.ExternalID, 10),
		"created", created)

	return model.AuthResult{
		Token:   token,
		User:    user,
		Created: created,
	}, nil
}

func (a *Auth) publish(ctx context.Context, eventType model.UserEventType, user model.User) {
	err := a.events.Publish(ctx, model.UserEvent{
		Type:       eventType,
		UserID:     user.ID,
		ExternalID: user.ExternalID,
		Timestamp:  a.now().UTC(),
	})
	if err != nil {
		a.logger.Warn("Auth service: failed to publish event",
			"type", eventType,
			"user_id", user.ID,
			"error", err.Error())
	}
}
