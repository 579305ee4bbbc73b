package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/feedmock/config"
	_ "github.com/d60-Lab/feedmock/docs"
	"github.com/d60-Lab/feedmock/internal/api/handler"
	"github.com/d60-Lab/feedmock/internal/api/middleware"
)

// NewRouter 注册中间件与路由
func NewRouter(h *handler.Handler, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.Logger(),
		middleware.ReportErrors(),
		otelgin.Middleware(cfg.Tracing.ServiceName),
		gzip.Gzip(gzip.DefaultCompression),
	)
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.POST("/auth/login", h.Login)

	feed := v1.Group("")
	if cfg.Auth.Enabled {
		feed.Use(middleware.Auth(cfg.Auth.Secret))
	}
	{
		feed.GET("/users/:user_id/feed", h.GetFeed)
		feed.POST("/users/:user_id/feed", h.PostStatusUpdate)

		feed.GET("/feeditems/:feeditem_id", h.GetFeedItem)
		feed.POST("/feeditems/:feeditem_id/comments", h.PostComment)
		feed.PUT("/feeditems/:feeditem_id/likelist/:user_id", h.LikeFeedItem)
		feed.DELETE("/feeditems/:feeditem_id/likelist/:user_id", h.UnlikeFeedItem)
		feed.PUT("/feeditems/:feeditem_id/comments/:comment_idx/likelist/:user_id", h.LikeComment)
		feed.DELETE("/feeditems/:feeditem_id/comments/:comment_idx/likelist/:user_id", h.UnlikeComment)
	}
	return r
}
