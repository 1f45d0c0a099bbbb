package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dtroode/miniapp-server/internal/logger"
)

// ReadinessProbe reports whether the user store is reachable and the
// applied schema version.
type ReadinessProbe interface {
	Ready(ctx context.Context) (int64, error)
}

type healthResponse struct {
	Status        string `json:"status"`
	SchemaVersion *int64 `json:"schemaVersion,omitempty"`
}

// Live handles GET /healthz.
func Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// Ready handles GET /readyz.
func Ready(probe ReadinessProbe, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		version, err := probe.Ready(ctx)
		if err != nil {
			logger.Warn("Health handler: not ready", "error", err.Error())
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", SchemaVersion: &version})
	}
}
