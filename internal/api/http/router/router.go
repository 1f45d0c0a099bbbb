package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dtroode/miniapp-server/internal/api/http/handler"
	"github.com/dtroode/miniapp-server/internal/api/http/middleware"
	"github.com/dtroode/miniapp-server/internal/logger"
	"github.com/dtroode/miniapp-server/internal/metrics"
	"github.com/dtroode/miniapp-server/internal/model"
)

// Router wires HTTP routes to handlers and middleware.
type Router struct {
	authService    model.AuthService
	userService    model.UserService
	tokens         middleware.TokenParser
	contextManager model.ContextManager
	probe          handler.ReadinessProbe
	metrics        *metrics.Metrics
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
func New(
	authService model.AuthService,
	userService model.UserService,
	tokens middleware.TokenParser,
	contextManager model.ContextManager,
	probe handler.ReadinessProbe,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		userService:    userService,
		tokens:         tokens,
		contextManager: contextManager,
		probe:          probe,
		metrics:        metrics,
		logger:         logger,
	}
}

// Register builds the HTTP handler.
func (r *Router) Register() http.Handler {
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)
	authHandler := handler.NewAuth(r.authService, r.logger)
	userHandler := handler.NewUser(r.userService, r.contextManager, r.logger)

	chain := []mux.MiddlewareFunc{
		middleware.Recover(r.logger),
		middleware.NewLogging(r.logger).Handle,
		middleware.NewMetrics(r.metrics).Handle,
	}

	root := mux.NewRouter()
	root.Use(chain...)
	// mux skips middleware for requests that match no route.
	root.NotFoundHandler = wrap(http.HandlerFunc(handler.NotFound), chain)
	root.MethodNotAllowedHandler = wrap(http.HandlerFunc(handler.MethodNotAllowed), chain)

	root.HandleFunc("/healthz", handler.Live).Methods(http.MethodGet)
	root.Handle("/readyz", handler.Ready(r.probe, r.logger)).Methods(http.MethodGet)
	root.Handle("/metrics", r.metrics.Handler()).Methods(http.MethodGet)

	api := root.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/telegram", authHandler.Telegram).Methods(http.MethodPost)
	api.Handle("/session", authenticate.Optional(handler.Session(r.contextManager))).Methods(http.MethodGet)

	me := api.PathPrefix("/me").Subrouter()
	me.Use(authenticate.Required)
	me.HandleFunc("", userHandler.Me).Methods(http.MethodGet)
	me.HandleFunc("", userHandler.Delete).Methods(http.MethodDelete)
	me.HandleFunc("/settings", userHandler.UpdateSettings).Methods(http.MethodPatch)
	me.HandleFunc("/avatar", userHandler.Avatar).Methods(http.MethodGet)

	return root
}

func wrap(h http.Handler, chain []mux.MiddlewareFunc) http.Handler {
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}
