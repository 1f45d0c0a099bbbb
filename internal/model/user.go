package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	FindByExternalID(ctx context.Context, externalID int64) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Insert(ctx context.Context, user User) (User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, profile Profile) (User, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, settings map[string]any, updatedAt time.Time) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// User represents a stored user linked to a Telegram identity.
type User struct {
	ID           uuid.UUID      `json:"id"`
	ExternalID   int64          `json:"external_id"`
	Username     string         `json:"username,omitempty"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name,omitempty"`
	LanguageCode string         `json:"language_code,omitempty"`
	IsPremium    bool           `json:"is_premium"`
	AvatarURL    string         `json:"avatar_url,omitempty"`
	Settings     map[string]any `json:"settings"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Profile holds the mutable profile fields overwritten on every login.
type Profile struct {
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string
	IsPremium    bool
	AvatarURL    string
	UpdatedAt    time.Time
}

// ProfileFromClaim copies the claim's profile fields.
func ProfileFromClaim(claim IdentityClaim, now time.Time) Profile {
	return Profile{
		Username:     claim.Username,
		FirstName:    claim.FirstName,
		LastName:     claim.LastName,
		LanguageCode: claim.LanguageCode,
		IsPremium:    claim.IsPremium,
		AvatarURL:    claim.AvatarURL,
		UpdatedAt:    now,
	}
}

// ApplyProfile overwrites the user's mutable profile fields.
func (u User) ApplyProfile(p Profile) User {
	u.Username = p.Username
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.LanguageCode = p.LanguageCode
	u.IsPremium = p.IsPremium
	u.AvatarURL = p.AvatarURL
	u.UpdatedAt = p.UpdatedAt
	return u
}
