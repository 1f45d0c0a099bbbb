package handler

import (
	"net/http"

	"github.com/dtroode/miniapp-server/internal/model"
)

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"userId,omitempty"`
	ExternalID    string `json:"externalId,omitempty"`
}

// Session handles GET /api/session. It is mounted behind optional
// authentication and reports whether the caller presented a valid token.
func Session(contextManager model.ContextManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := contextManager.GetSession(r.Context())
		if !ok {
			writeJSON(w, http.StatusOK, sessionResponse{})
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{
			Authenticated: true,
			UserID:        session.UserID.String(),
			ExternalID:    session.ExternalID,
		})
	}
}
