package context

import (
	"context"

	"github.com/dtroode/miniapp-server/internal/model"
)

type sessionKey struct{}

var _ model.ContextManager = (*Manager)(nil)

// Manager attaches authenticated sessions to request contexts.
// It is shared by the HTTP and gRPC transports.
type Manager struct{}

// NewManager creates a new context manager instance.
//
// Returns a pointer to the newly created Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetSession stores the session in the context.
//
// Parameters:
//   - ctx: The request context
//   - session: The verified session
//
// Returns a new context carrying the session.
func (m *Manager) SetSession(ctx context.Context, session model.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSession retrieves the session from the context.
//
// Returns the session and a boolean indicating if one was attached.
func (m *Manager) GetSession(ctx context.Context) (model.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(model.Session)
	return session, ok
}

// RequireSession is GetSession for code paths that must be authenticated.
// It returns a *model.AuthenticationError when no session is attached.
func (m *Manager) RequireSession(ctx context.Context) (model.Session, error) {
	session, ok := m.GetSession(ctx)
	if !ok {
		return model.Session{}, model.NewAuthenticationError("no authenticated session", nil)
	}
	return session, nil
}
