package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pulse-social/pulse/internal/config"
	"github.com/pulse-social/pulse/internal/database"
	"github.com/pulse-social/pulse/internal/handlers"
	"github.com/pulse-social/pulse/internal/metrics"
	"github.com/pulse-social/pulse/internal/middleware"
	"github.com/pulse-social/pulse/internal/services"
	"github.com/pulse-social/pulse/pkg/auth"
	"github.com/pulse-social/pulse/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Metrics    *metrics.Metrics

	cfg *config.Config
}

type options struct {
	sentry   bool
	hashCost int
}

// NewServer connects to the store (and Redis when configured) and builds
// the router.
func NewServer(cfg *config.Config, sentryEnabled bool) (*Server, error) {
	db, err := database.Open(cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "invalid REDIS_URL")
		}
		rdb = redis.NewClient(redisOpts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = db.Close()
			_ = rdb.Close()
			return nil, errors.Wrap(err, "redis connect failed")
		}
	} else {
		logger.Warn("REDIS_URL not set, logout will not revoke tokens")
	}

	return newServer(cfg, db, rdb, options{sentry: sentryEnabled}), nil
}

func newServer(cfg *config.Config, db *database.Database, rdb *redis.Client, opts options) *Server {
	jwtMgr := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)

	var revoker auth.Revoker = auth.NoopRevoker{}
	if rdb != nil {
		revoker = auth.NewRedisRevoker(rdb)
	}

	m := metrics.New()
	postSvc := services.NewPostService(db)
	userSvc := services.NewUserService(db)
	authSvc := services.NewAuthService(db, jwtMgr, revoker, opts.hashCost)

	router := gin.New()
	installMiddleware(router, cfg, m, opts.sentry)
	APIEndpoints(router, Handlers{
		Auth:  handlers.NewAuthHandler(authSvc, m),
		Posts: handlers.NewPostHandler(postSvc, m),
		Users: handlers.NewUserHandler(userSvc, postSvc, m),
	}, middleware.AuthMiddleware(jwtMgr, revoker, db), m)

	return &Server{
		Router:     router,
		DB:         db,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Metrics:    m,
		cfg:        cfg,
	}
}

// Run serves until ctx is cancelled and then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", s.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server run error")
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) Close() {
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Warn("closing redis failed", zap.Error(err))
		}
	}
	if err := s.DB.Close(); err != nil {
		logger.Warn("closing database failed", zap.Error(err))
	}
}
