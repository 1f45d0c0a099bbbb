package initdata

import (
	"time"

	"github.com/dtroode/miniapp-server/internal/model"
)

// Validator runs the full launch data pipeline with fixed settings.
type Validator struct {
	botToken string
	maxAge   time.Duration
	now      func() time.Time
}

// NewValidator creates a Validator for the given bot token.
func NewValidator(botToken string, maxAge time.Duration) *Validator {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Validator{
		botToken: botToken,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// Parse verifies payload and returns its identity claim.
func (v *Validator) Parse(payload string) (model.IdentityClaim, error) {
	if err := Validate(payload, v.botToken); err != nil {
		return model.IdentityClaim{}, err
	}

	claim, err := Extract(payload)
	if err != nil {
		return model.IdentityClaim{}, err
	}

	if err := CheckFreshness(claim.IssuedAt, v.now(), v.maxAge); err != nil {
		return model.IdentityClaim{}, err
	}

	return claim, nil
}
