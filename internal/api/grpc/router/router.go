package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/dtroode/miniapp-server/internal/api/grpc/middleware"
	"github.com/dtroode/miniapp-server/internal/logger"
	"github.com/dtroode/miniapp-server/internal/model"
)

// ServiceName is the name reported by the health service for this server.
const ServiceName = "miniapp.Server"

// Router builds the gRPC server: the public health service and the
// authenticated reflection service.
type Router struct {
	tokens         middleware.TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
	health         *health.Server
}

// New creates new gRPC Router instance.
func New(
	tokens middleware.TokenParser,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		tokens:         tokens,
		contextManager: contextManager,
		logger:         logger,
		health:         health.NewServer(),
	}
}

// authRequired matches every method except the health service.
func authRequired(_ context.Context, c interceptors.CallMeta) bool {
	return !strings.HasPrefix(c.FullMethod(), "/grpc.health.v1.Health/")
}

// Register sets up interceptors and registers all services.
//
// Returns the configured gRPC server instance.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)
	onPanic := recovery.WithRecoveryHandler(func(p any) error {
		r.logger.Error("gRPC handler panicked", "panic", p)
		return status.Error(codes.Internal, "internal error")
	})

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(onPanic),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authRequired),
			),
		),
		grpc.ChainStreamInterceptor(
			logging.HandleGRPCStream,
			recovery.StreamServerInterceptor(onPanic),
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authRequired),
			),
		),
	)

	healthpb.RegisterHealthServer(s, r.health)
	r.SetServing(true)
	reflection.Register(s)

	return s
}

// SetServing updates the status reported by the health service.
func (r *Router) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	r.health.SetServingStatus("", st)
	r.health.SetServingStatus(ServiceName, st)
}
