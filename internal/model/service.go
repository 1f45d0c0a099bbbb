package model

import (
	"context"

	"github.com/google/uuid"
)

// AuthService authenticates Telegram launch data.
type AuthService interface {
	Authenticate(ctx context.Context, initData string) (AuthResult, error)
}

// UserService manages the authenticated user's account.
type UserService interface {
	Profile(ctx context.Context, id uuid.UUID) (User, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, settings map[string]any) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Avatar(ctx context.Context, id uuid.UUID) (Object, error)
}
