package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/dtroode/miniapp-server/internal/logger"
	"github.com/dtroode/miniapp-server/internal/model"
)

type updateSettingsRequest struct {
	Settings map[string]any `json:"settings"`
}

// User serves the authenticated user's own account. Routes are mounted
// behind required authentication.
type User struct {
	service        model.UserService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewUser(service model.UserService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{service: service, contextManager: contextManager, logger: logger}
}

// Me handles GET /api/me.
func (h *User) Me(w http.ResponseWriter, r *http.Request) {
	session, err := h.contextManager.RequireSession(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	user, err := h.service.Profile(r.Context(), session.UserID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}

// UpdateSettings handles PATCH /api/me/settings.
func (h *User) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	session, err := h.contextManager.RequireSession(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	var req updateSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Settings == nil {
		writeError(w, http.StatusBadRequest, "settings object is required")
		return
	}

	user, err := h.service.UpdateSettings(r.Context(), session.UserID, req.Settings)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}

// Delete handles DELETE /api/me.
func (h *User) Delete(w http.ResponseWriter, r *http.Request) {
	session, err := h.contextManager.RequireSession(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), session.UserID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Avatar handles GET /api/me/avatar.
func (h *User) Avatar(w http.ResponseWriter, r *http.Request) {
	session, err := h.contextManager.RequireSession(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	obj, err := h.service.Avatar(r.Context(), session.UserID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj.Body); err != nil {
		h.logger.Warn("User handler: failed to stream avatar",
			"user_id", session.UserID,
			"error", err.Error())
	}
}
