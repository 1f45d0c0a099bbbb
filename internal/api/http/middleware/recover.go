package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/dtroode/miniapp-server/internal/logger"
)

// Recover turns handler panics into 500 responses.
func Recover(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					logger.Error("HTTP handler panicked",
						"path", r.URL.Path,
						"panic", p,
						"stack", string(debug.Stack()))
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":"internal error"}` + "\n"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
