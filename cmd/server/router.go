package main

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/pulse-social/pulse/internal/config"
	"github.com/pulse-social/pulse/internal/handlers"
	"github.com/pulse-social/pulse/internal/metrics"
	"github.com/pulse-social/pulse/internal/middleware"
)

type Handlers struct {
	Auth  *handlers.AuthHandler
	Posts *handlers.PostHandler
	Users *handlers.UserHandler
}

func installMiddleware(r *gin.Engine, cfg *config.Config, m *metrics.Metrics, sentryEnabled bool) {
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())
	if sentryEnabled {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(middleware.Metrics(m))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	r.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
}

func APIEndpoints(r *gin.Engine, h Handlers, authMW gin.HandlerFunc, m *metrics.Metrics) {
	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("/api")
	api.GET("/health", handlers.Health)

	// Auth endpoints
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/logout", authMW, h.Auth.Logout)
	}

	protected := api.Group("", authMW)
	{
		protected.GET("/posts", h.Posts.List)
		protected.POST("/posts", h.Posts.Create)
		protected.PUT("/posts/:id", h.Posts.Update)
		protected.DELETE("/posts/:id", h.Posts.Delete)
		protected.POST("/posts/:id/like", h.Posts.Like)

		protected.GET("/users", h.Users.List)
		protected.GET("/users/:id", h.Users.Get)
		protected.GET("/users/:id/posts", h.Users.Posts)
		protected.POST("/users/:id/friends", h.Users.ToggleFriend)

		protected.GET("/me", h.Users.GetMe)
		protected.PUT("/me", h.Users.UpdateMe)
		protected.DELETE("/me", h.Users.DeleteMe)
	}
}
