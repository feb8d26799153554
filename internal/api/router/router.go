package router

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/member-graph/config"
	_ "github.com/d60-Lab/member-graph/docs"
	"github.com/d60-Lab/member-graph/internal/api/handler"
	"github.com/d60-Lab/member-graph/internal/api/middleware"
	"github.com/d60-Lab/member-graph/pkg/metrics"
	"github.com/d60-Lab/member-graph/pkg/response"
	"github.com/d60-Lab/member-graph/pkg/token"
)

// Deps 路由依赖
type Deps struct {
	Config   *config.Config
	Handler  *handler.Handler
	Tokens   *token.Manager
	Denylist middleware.Denylist
	Metrics  *metrics.Metrics
}

// Setup 注册中间件与路由
func Setup(d Deps) *gin.Engine {
	cfg := d.Config
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.RequestID(), middleware.Recovery(), middleware.Logger())
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics", "/swagger"})))

	r.NoRoute(func(c *gin.Context) { response.Status(c, http.StatusNotFound) })
	r.NoMethod(func(c *gin.Context) { response.Status(c, http.StatusMethodNotAllowed) })

	h := d.Handler
	r.GET("/health", h.Health)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limit := middleware.RateLimit(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(d.Tokens, d.Denylist, cfg.JWT.RejectInvalid))
	{
		members := api.Group("/members")
		members.POST("", limit, h.CreateMember)
		members.GET("/mypage", h.GetMyPage)
		members.GET("/following", h.FollowingList)
		members.GET("/follower", h.FollowerList)
		members.POST("/follow/:memberId", h.FollowMember)
		members.GET("/:memberId", h.GetMember)
		members.PATCH("/:memberId", h.PatchMember)
		members.DELETE("/:memberId", h.DeleteMember)

		auth := api.Group("/auth")
		auth.POST("/login", limit, h.Login)
		auth.POST("/reissue", limit, h.Reissue)
		auth.POST("/logout", h.Logout)
	}
	return r
}
