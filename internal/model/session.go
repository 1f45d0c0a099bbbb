package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL is the lifetime of issued session tokens.
const DefaultSessionTTL = 7 * 24 * time.Hour

// MinSigningSecretLength is the minimal session signing secret size in bytes.
const MinSigningSecretLength = 32

// Session is the identity asserted by a verified bearer token.
type Session struct {
	UserID     uuid.UUID
	ExternalID string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// TokenManager issues and validates session tokens.
type TokenManager interface {
	Issue(user User, claim IdentityClaim, ttl time.Duration) (string, error)
	Parse(token string) (Session, error)
}

// ContextManager attaches the authenticated session to request contexts.
type ContextManager interface {
	SetSession(ctx context.Context, session Session) context.Context
	GetSession(ctx context.Context) (Session, bool)
	RequireSession(ctx context.Context) (Session, error)
}
