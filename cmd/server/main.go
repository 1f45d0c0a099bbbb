package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nats-io/nats.go"

	apicontext "github.com/dtroode/miniapp-server/internal/api/context"
	grpcRouter "github.com/dtroode/miniapp-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/miniapp-server/internal/api/grpc/server"
	httpRouter "github.com/dtroode/miniapp-server/internal/api/http/router"
	httpServer "github.com/dtroode/miniapp-server/internal/api/http/server"
	"github.com/dtroode/miniapp-server/internal/cache"
	"github.com/dtroode/miniapp-server/internal/config"
	"github.com/dtroode/miniapp-server/internal/events"
	"github.com/dtroode/miniapp-server/internal/initdata"
	"github.com/dtroode/miniapp-server/internal/logger"
	"github.com/dtroode/miniapp-server/internal/metrics"
	"github.com/dtroode/miniapp-server/internal/model"
	"github.com/dtroode/miniapp-server/internal/repository/memory"
	"github.com/dtroode/miniapp-server/internal/repository/postgres"
	"github.com/dtroode/miniapp-server/internal/server"
	"github.com/dtroode/miniapp-server/internal/service"
	storage "github.com/dtroode/miniapp-server/internal/storage/minio"
	"github.com/dtroode/miniapp-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

// userStore is a user store that can also report readiness.
type userStore interface {
	model.UserStore
	Ready(ctx context.Context) (int64, error)
}

// postgresStore pairs the repository with the schema probe over the same connection.
type postgresStore struct {
	*postgres.UserRepository
	*postgres.Probe
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat).With("version", buildVersion)

	store, closeStore := newUserStore(ctx, cfg, appLogger)
	defer closeStore()

	profileCache, closeCache := newCache(cfg, appLogger)
	defer closeCache()

	publisher, closePublisher := newPublisher(cfg, appLogger)
	defer closePublisher()

	avatars := newAvatarMirror(ctx, cfg, store, profileCache, appLogger)

	tokenManager, err := token.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		appLogger.Fatal("failed to create token manager", "error", err)
	}
	validator := initdata.NewValidator(cfg.Telegram.BotToken, cfg.Telegram.MaxAge)
	appMetrics := metrics.New()
	ctxMgr := apicontext.NewManager()

	authService := service.NewAuth(validator, store, tokenManager, profileCache, avatars, publisher, appMetrics, appLogger, cfg.JWT.TTL)
	userService := service.NewUser(store, profileCache, avatars, publisher, appLogger, cfg.Redis.ProfileTTL)

	httpHandler := httpRouter.New(authService, userService, tokenManager, ctxMgr, store, appMetrics, appLogger.With("transport", "http")).Register()
	rpcRouter := grpcRouter.New(tokenManager, ctxMgr, appLogger.With("transport", "grpc"))

	servers := []struct {
		server   model.Server
		listener config.Listener
	}{
		{server: httpServer.NewHTTPServer(httpHandler, cfg.HTTP.Address()), listener: cfg.HTTP},
		{server: grpcServer.NewGRPCServer(rpcRouter.Register(), cfg.GRPC.Address()), listener: cfg.GRPC},
	}

	var wg sync.WaitGroup
	for _, s := range servers {
		sl, err := server.NewSecurityLayer(s.listener.EnableHTTPS, s.listener.CertFileName, s.listener.PrivateKeyFileName)
		if err != nil {
			appLogger.Fatal("failed to create security layer", "error", err, "address", s.server.Address())
		}

		wg.Add(1)
		go func(s model.Server, sl model.SecurityLayer) {
			defer wg.Done()
			appLogger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				appLogger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s.server, sl)
	}

	logAppVersion()

	<-ctx.Done()
	appLogger.Info("received interruption signal, shutting down")
	rpcRouter.SetServing(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.server.Stop(shutdownCtx); err != nil {
			appLogger.Error("error during server shutdown", "error", err, "address", s.server.Address())
		}
	}

	wg.Wait()
	appLogger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func newUserStore(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (userStore, func()) {
	if cfg.Database.DSN == "" {
		appLogger.Warn("DATABASE_DSN is not set, users are kept in memory")
		return memory.NewUserRepository(), func() {}
	}

	conn, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("failed to initialize storage", "error", err)
	}

	store := postgresStore{
		UserRepository: postgres.NewUserRepository(conn),
		Probe:          postgres.NewProbe(conn.SQL()),
	}

	return store, func() { _ = conn.Close() }
}

func newCache(cfg *config.Config, appLogger *logger.Logger) (model.Cache, func()) {
	if cfg.Redis.Addr == "" {
		return cache.NewMemory(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	appLogger.Info("using redis cache", "address", cfg.Redis.Addr)

	return cache.NewRedis(client, "miniapp:"), func() { _ = client.Close() }
}

func newPublisher(cfg *config.Config, appLogger *logger.Logger) (model.EventPublisher, func()) {
	if cfg.NATS.URL == "" {
		return events.Noop{}, func() {}
	}

	publisher, nc, err := events.Connect(cfg.NATS.URL, cfg.NATS.SubjectPrefix, appLogger)
	if err != nil {
		appLogger.Fatal("failed to initialize event publisher", "error", err)
	}

	return publisher, func() { closeNATS(publisher, nc, appLogger) }
}

func closeNATS(publisher *events.Publisher, nc *nats.Conn, appLogger *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := publisher.Flush(ctx); err != nil {
		appLogger.Error("failed to flush events", "error", err)
	}
	nc.Close()
}

// newAvatarMirror starts the avatar worker when object storage is enabled.
func newAvatarMirror(ctx context.Context, cfg *config.Config, users model.UserStore, profileCache model.Cache, appLogger *logger.Logger) model.AvatarMirror {
	if !cfg.Storage.Enabled {
		return service.NoopAvatars{}
	}

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		appLogger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		appLogger.Fatal("failed to initialize storage client", "error", err)
	}

	mirror := service.NewAvatarMirror(users, storageClient, profileCache, nil, appLogger.With("component", "avatar_mirror"))
	go mirror.Run(ctx)

	return mirror
}
