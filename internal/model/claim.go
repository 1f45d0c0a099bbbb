package model

import "time"

// IdentityClaim is the identity extracted from verified launch data.
type IdentityClaim struct {
	ExternalID   int64
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string
	IsPremium    bool
	AvatarURL    string
	IssuedAt     time.Time

	// Carried through from the payload, never interpreted.
	QueryID      string
	ChatInstance string
	StartParam   string
}

// AuthResult is returned by a successful launch-data authentication.
type AuthResult struct {
	Token   string
	User    User
	Created bool
}

// LaunchDataParser verifies raw launch data and extracts its claim.
type LaunchDataParser interface {
	Parse(payload string) (IdentityClaim, error)
}
