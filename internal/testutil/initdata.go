package testutil

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dtroode/miniapp-server/internal/initdata"
)

// TestBotToken is the bot token used to sign launch data in tests.
const TestBotToken = "BOTSECRET"

// SignedInitData returns launch data for the given Telegram user, signed with
// TestBotToken and issued at issuedAt.
func SignedInitData(t *testing.T, user map[string]any, issuedAt time.Time) string {
	t.Helper()

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	return initdata.Sign(map[string]string{
		"auth_date": strconv.FormatInt(issuedAt.Unix(), 10),
		"query_id":  "AAHdF6IQAAAAAN0XohDhrOrc",
		"user":      string(raw),
	}, TestBotToken)
}
