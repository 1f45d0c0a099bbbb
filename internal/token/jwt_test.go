package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/miniapp-server/internal/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestJWT(t *testing.T, now time.Time) *JWT {
	t.Helper()
	j, err := NewJWT(testSecret, "miniapp-server")
	require.NoError(t, err)
	j.now = func() time.Time { return now }
	return j
}

func TestNewJWT_SecretTooShort(t *testing.T) {
	_, err := NewJWT(strings.Repeat("x", model.MinSigningSecretLength-1), "iss")
	assert.ErrorIs(t, err, ErrSecretTooShort)

	_, err = NewJWT(strings.Repeat("x", model.MinSigningSecretLength), "iss")
	assert.NoError(t, err)
}

func TestJWT_Roundtrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	j := newTestJWT(t, now)
	user := model.User{ID: uuid.New(), ExternalID: 42}

	tok, err := j.Issue(user, model.IdentityClaim{ExternalID: 42}, time.Hour)
	require.NoError(t, err)

	session, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, "42", session.ExternalID)
	assert.True(t, session.IssuedAt.Equal(now))
	assert.True(t, session.ExpiresAt.Equal(now.Add(time.Hour)))
}

func TestJWT_Issue_DefaultTTL(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	j := newTestJWT(t, now)
	user := model.User{ID: uuid.New(), ExternalID: 7}

	tok, err := j.Issue(user, model.IdentityClaim{ExternalID: 7}, 0)
	require.NoError(t, err)

	session, err := j.Parse(tok)
	require.NoError(t, err)
	assert.True(t, session.ExpiresAt.Equal(now.Add(model.DefaultSessionTTL)))
}

func TestJWT_Issue_BindingMismatch(t *testing.T) {
	j := newTestJWT(t, time.Now())

	_, err := j.Issue(model.User{ID: uuid.New(), ExternalID: 1}, model.IdentityClaim{ExternalID: 2}, time.Hour)
	assert.Error(t, err)
}

func TestJWT_Parse_Expired(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	issuer := newTestJWT(t, issuedAt)
	user := model.User{ID: uuid.New(), ExternalID: 42}

	tok, err := issuer.Issue(user, model.IdentityClaim{ExternalID: 42}, time.Hour)
	require.NoError(t, err)

	_, err = newTestJWT(t, time.Now()).Parse(tok)
	require.Error(t, err)
	assert.True(t, model.IsAuthenticationError(err))
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWT_Parse_Rejects(t *testing.T) {
	now := time.Now()
	j := newTestJWT(t, now)
	user := model.User{ID: uuid.New(), ExternalID: 42}
	valid, err := j.Issue(user, model.IdentityClaim{ExternalID: 42}, time.Hour)
	require.NoError(t, err)

	other, err := NewJWT(strings.Repeat("y", 32), "miniapp-server")
	require.NoError(t, err)
	foreign, err := other.Issue(user, model.IdentityClaim{ExternalID: 42}, time.Hour)
	require.NoError(t, err)

	wrongIssuer, err := NewJWT(testSecret, "someone-else")
	require.NoError(t, err)
	foreignIssuer, err := wrongIssuer.Issue(user, model.IdentityClaim{ExternalID: 42}, time.Hour)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "miniapp-server"},
		UserID:           user.ID,
		ExternalID:       "42",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "miniapp-server",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		ExternalID: "42",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "miniapp-server",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UserID:     user.ID,
		ExternalID: "42",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "tampered payload", token: tamper(valid)},
		{name: "foreign secret", token: foreign},
		{name: "foreign issuer", token: foreignIssuer},
		{name: "no expiry", token: noExpiry},
		{name: "no user id", token: noUser},
		{name: "other algorithm", token: hs512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.Parse(tt.token)
			require.Error(t, err)
			assert.True(t, model.IsAuthenticationError(err))
		})
	}
}

func tamper(token string) string {
	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)
	return strings.Join(parts, ".")
}
