package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/miniapp-server/internal/model"
)

// Claims represents session JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID     uuid.UUID `json:"user_id"`
	ExternalID string    `json:"external_id"`
}

// ErrSecretTooShort is returned for signing secrets below the minimum length.
var ErrSecretTooShort = fmt.Errorf("signing secret must be at least %d bytes", model.MinSigningSecretLength)

var _ model.TokenManager = (*JWT)(nil)

// JWT implements TokenManager backed by HS256.
type JWT struct {
	secretKey []byte
	issuer    string
	now       func() time.Time
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey, issuer string) (*JWT, error) {
	if len(secretKey) < model.MinSigningSecretLength {
		return nil, ErrSecretTooShort
	}
	return &JWT{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		now:       time.Now,
	}, nil
}

// Issue signs a session token binding user to the claim's external identity.
func (j *JWT) Issue(user model.User, claim model.IdentityClaim, ttl time.Duration) (string, error) {
	if user.ExternalID != claim.ExternalID {
		return "", fmt.Errorf("user %s is bound to external id %d, claim has %d", user.ID, user.ExternalID, claim.ExternalID)
	}
	if ttl <= 0 {
		ttl = model.DefaultSessionTTL
	}

	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:     user.ID,
		ExternalID: strconv.FormatInt(claim.ExternalID, 10),
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// Parse validates a session token and returns the session it asserts.
func (j *JWT) Parse(tokenString string) (model.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(j.issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Session{}, model.NewAuthenticationError("token expired", err)
		}
		return model.Session{}, model.NewAuthenticationError("invalid token", err)
	}
	if !token.Valid {
		return model.Session{}, model.NewAuthenticationError("invalid token", nil)
	}
	if claims.UserID == uuid.Nil || claims.ExternalID == "" {
		return model.Session{}, model.NewAuthenticationError("incomplete token claims", nil)
	}

	session := model.Session{
		UserID:     claims.UserID,
		ExternalID: claims.ExternalID,
		ExpiresAt:  claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	return session, nil
}
