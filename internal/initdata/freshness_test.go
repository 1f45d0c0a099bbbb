package initdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/miniapp-server/internal/model"
)

func TestCheckFreshness(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	maxAge := 24 * time.Hour

	tests := []struct {
		name     string
		issuedAt time.Time
		wantErr  bool
	}{
		{name: "issued now", issuedAt: now},
		{name: "one second old", issuedAt: now.Add(-time.Second)},
		{name: "exactly max age", issuedAt: now.Add(-maxAge)},
		{name: "one second past max age", issuedAt: now.Add(-maxAge - time.Second), wantErr: true},
		{name: "25 hours old", issuedAt: now.Add(-25 * time.Hour), wantErr: true},
		{name: "issued in the future", issuedAt: now.Add(time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFreshness(tt.issuedAt, now, maxAge)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrExpired)
				return
			}
			assert.NoError(t, err)
		})
	}
}
