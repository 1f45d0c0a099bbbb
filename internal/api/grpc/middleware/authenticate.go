package middleware

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/miniapp-server/internal/logger"
	"github.com/dtroode/miniapp-server/internal/model"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (model.Session, error)
}

// Authenticate validates bearer tokens and injects the session into context.
type Authenticate struct {
	tokens         TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenParser, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// AuthFunc reads the "authorization: bearer <token>" metadata, validates the
// token and returns a context carrying the session.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	tokenString, err := auth.AuthFromMD(ctx, "bearer")
	if err != nil {
		return nil, err
	}

	session, err := m.tokens.Parse(tokenString)
	if err != nil {
		m.logger.Debug("gRPC auth: token rejected", "error", err.Error())
		return nil, status.Error(codes.Unauthenticated, "invalid authorization token")
	}

	return m.contextManager.SetSession(ctx, session), nil
}
