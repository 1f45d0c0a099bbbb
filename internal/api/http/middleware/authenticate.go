package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dtroode/miniapp-server/internal/logger"
	"github.com/dtroode/miniapp-server/internal/model"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (model.Session, error)
}

// Authenticate validates bearer tokens and injects the session into the
// request context.
type Authenticate struct {
	tokens         TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenParser, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// Required rejects requests without a valid token with 401. The wrapped
// handler never runs for them.
func (m *Authenticate) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.authenticate(r)
		if err != nil {
			m.logger.Debug("HTTP auth: request rejected",
				"path", r.URL.Path,
				"error", err.Error())
			w.Header().Set("WWW-Authenticate", "Bearer")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(m.contextManager.SetSession(r.Context(), session)))
	})
}

// Optional attaches the session when the token is valid and otherwise
// passes the request on anonymously.
func (m *Authenticate) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.authenticate(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(m.contextManager.SetSession(r.Context(), session)))
	})
}

func (m *Authenticate) authenticate(r *http.Request) (model.Session, error) {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return model.Session{}, model.NewAuthenticationError("missing bearer token", nil)
	}
	return m.tokens.Parse(token)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
