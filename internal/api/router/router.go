package router

import (
	"context"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/d60-Lab/recipe-social/docs"
	"github.com/d60-Lab/recipe-social/internal/api/handler"
	"github.com/d60-Lab/recipe-social/internal/api/middleware"
	"github.com/d60-Lab/recipe-social/pkg/response"
)

// HealthCheck 健康检查，通常是数据库 ping
type HealthCheck func(ctx context.Context) error

type Options struct {
	ServiceName string
	Sentry      bool
	Limiter     *middleware.RateLimiter
	Health      HealthCheck
}

// Setup 注册中间件和全部路由
func Setup(h *handler.Handler, auth *middleware.Authenticator, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(otelgin.Middleware(opts.ServiceName))
	r.Use(middleware.Logger(), middleware.Metrics())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/healthz", healthz(opts.Health))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	if opts.Limiter != nil {
		v1.Use(opts.Limiter.Middleware())
	}
	required := auth.RequireAuth()
	optional := auth.OptionalAuth()

	users := v1.Group("/users")
	{
		users.GET("/search", required, h.SearchUsers)
		users.GET("/popular", optional, h.PopularUsers)
		users.GET("/suggested", required, h.SuggestedUsers)

		users.GET("/me/follow-requests", required, h.ListFollowRequests)
		users.GET("/me/blocked", required, h.ListBlocked)
		users.GET("/me/muted", required, h.ListMuted)

		users.POST("/:id/follow", required, h.Follow)
		users.DELETE("/:id/follow", required, h.Unfollow)
		users.GET("/:id/followers", optional, h.ListFollowers)
		users.GET("/:id/following", optional, h.ListFollowing)
		users.POST("/:id/block", required, h.Block)
		users.DELETE("/:id/block", required, h.Unblock)
		users.POST("/:id/mute", required, h.Mute)
		users.DELETE("/:id/mute", required, h.Unmute)
	}

	requests := v1.Group("/follow-requests", required)
	{
		requests.POST("/:id/accept", h.AcceptFollowRequest)
		requests.POST("/:id/reject", h.RejectFollowRequest)
	}

	notifications := v1.Group("/notifications", required)
	{
		notifications.GET("", h.ListNotifications)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.POST("/read", h.MarkAllNotificationsRead)
		notifications.POST("/:id/read", h.MarkNotificationRead)
	}

	feed := v1.Group("/feed", required)
	{
		feed.GET("", h.GetFeed)
		feed.GET("/preferences", h.GetFeedPreferences)
		feed.PUT("/preferences", h.UpdateFeedPreferences)
	}

	recipes := v1.Group("/recipes", required)
	{
		recipes.POST("", h.PublishRecipe)
		recipes.POST("/:id/rate", h.RateRecipe)
		recipes.POST("/:id/favorite", h.FavoriteRecipe)
		recipes.DELETE("/:id/favorite", h.UnfavoriteRecipe)
	}

	return r
}

func healthz(check HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				response.JSON(c, http.StatusServiceUnavailable, "unhealthy", gin.H{"error": err.Error()})
				return
			}
		}
		response.Success(c, gin.H{"status": "ok"})
	}
}
