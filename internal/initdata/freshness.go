package initdata

import (
	"fmt"
	"time"

	"github.com/dtroode/miniapp-server/internal/model"
)

// DefaultMaxAge is the default launch data lifetime.
const DefaultMaxAge = 24 * time.Hour

// CheckFreshness returns ErrExpired when issuedAt is older than maxAge.
// Timestamps ahead of now are accepted.
func CheckFreshness(issuedAt, now time.Time, maxAge time.Duration) error {
	age := now.Unix() - issuedAt.Unix()
	if age > int64(maxAge/time.Second) {
		return fmt.Errorf("%w: issued %ds ago, max age %ds", model.ErrExpired, age, int64(maxAge/time.Second))
	}
	return nil
}
