package handler

import (
	"net/http"

	"github.com/dtroode/miniapp-server/internal/logger"
	"github.com/dtroode/miniapp-server/internal/model"
)

type telegramAuthRequest struct {
	InitData string `json:"initData"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Auth serves the launch data exchange.
type Auth struct {
	service model.AuthService
	logger  *logger.Logger
}

func NewAuth(service model.AuthService, logger *logger.Logger) *Auth {
	return &Auth{service: service, logger: logger}
}

// Telegram handles POST /api/auth/telegram.
func (h *Auth) Telegram(w http.ResponseWriter, r *http.Request) {
	var req telegramAuthRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.InitData == "" {
		writeError(w, http.StatusBadRequest, "initData is required")
		return
	}

	res, err := h.service.Authenticate(r.Context(), req.InitData)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, authResponse{
		Token: res.Token,
		User:  newUserResponse(res.User),
	})
}
