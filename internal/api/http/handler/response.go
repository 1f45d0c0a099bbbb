package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dtroode/miniapp-server/internal/logger"
	"github.com/dtroode/miniapp-server/internal/model"
)

const maxBodySize = 64 << 10

type errorResponse struct {
	Error string `json:"error"`
}

// userResponse is the public JSON shape of a user.
type userResponse struct {
	ID           string         `json:"id"`
	ExternalID   string         `json:"externalId"`
	Username     string         `json:"username,omitempty"`
	FirstName    string         `json:"firstName"`
	LastName     string         `json:"lastName,omitempty"`
	LanguageCode string         `json:"languageCode,omitempty"`
	IsPremium    bool           `json:"isPremium"`
	AvatarURL    string         `json:"avatarUrl,omitempty"`
	Settings     map[string]any `json:"settings"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func newUserResponse(u model.User) userResponse {
	settings := u.Settings
	if settings == nil {
		settings = map[string]any{}
	}
	return userResponse{
		ID:           u.ID.String(),
		ExternalID:   strconv.FormatInt(u.ExternalID, 10),
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		LanguageCode: u.LanguageCode,
		IsPremium:    u.IsPremium,
		AvatarURL:    u.AvatarURL,
		Settings:     settings,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// decodeJSON reads a single JSON object into dst. Unknown fields are ignored
// so clients may send more than the server reads.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// NotFound responds to requests that match no route.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

// MethodNotAllowed responds to requests whose path matches a route but
// whose method does not.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// writeServiceError maps service errors to responses. Causes behind
// ErrInvalidInitData are never exposed.
func writeServiceError(w http.ResponseWriter, logger *logger.Logger, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidInitData):
		writeError(w, http.StatusUnauthorized, model.ErrInvalidInitData.Error())
	case model.IsAuthenticationError(err):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		logger.Error("HTTP handler: request failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
