package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/member-graph/config"
	"github.com/d60-Lab/member-graph/internal/api/handler"
	"github.com/d60-Lab/member-graph/internal/api/router"
	"github.com/d60-Lab/member-graph/internal/dto"
	"github.com/d60-Lab/member-graph/internal/repository"
	"github.com/d60-Lab/member-graph/internal/service"
	"github.com/d60-Lab/member-graph/internal/session"
	"github.com/d60-Lab/member-graph/internal/stats"
	"github.com/d60-Lab/member-graph/pkg/cache"
	"github.com/d60-Lab/member-graph/pkg/database"
	"github.com/d60-Lab/member-graph/pkg/logger"
	"github.com/d60-Lab/member-graph/pkg/metrics"
	"github.com/d60-Lab/member-graph/pkg/password"
	"github.com/d60-Lab/member-graph/pkg/token"
)

// App 组装好的服务
type App struct {
	Engine        *gin.Engine
	MemberService service.MemberService
	AuthService   service.AuthService
	Metrics       *metrics.Metrics

	cfg     *config.Config
	server  *http.Server
	closers []func(context.Context) error
}

// New 连接数据库与 Redis 后组装
func New(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	rdb, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		return nil, err
	}
	a, err := Build(cfg, db, rdb)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers,
		func(context.Context) error { return rdb.Close() },
		func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	)
	return a, nil
}

// Build 使用已有连接组装各层
func Build(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*App, error) {
	if err := dto.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	memberRepo := repository.NewMemberRepository(db)
	followRepo := repository.NewFollowRepository(db)
	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	sessions := session.NewRedisStore(rdb)
	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	statsCache := stats.NewCache(followRepo, rdb, cfg.Stats.TTL)
	invalidator := service.NewStatsInvalidator(statsCache, cfg.Stats.QueueSize)
	m := metrics.New("member_graph", invalidator.QueueLen)
	invalidator.OnDone(m.ObserveInvalidation)
	stopInvalidator := invalidator.Start(cfg.Stats.Workers)

	memberSvc := service.NewMemberService(memberRepo, followRepo, hasher, sessions, statsCache, service.MemberServiceOptions{
		AdminUsernames: cfg.Auth.AdminUsernames,
		DenylistTTL:    cfg.JWT.DenylistTTL,
		Invalidator:    invalidator,
		Observer:       m,
	})
	authSvc := service.NewAuthService(memberRepo, hasher, tokens, sessions)

	engine := router.Setup(router.Deps{
		Config:   cfg,
		Handler:  handler.NewHandler(memberSvc, authSvc),
		Tokens:   tokens,
		Denylist: sessions,
		Metrics:  m,
	})

	return &App{
		Engine:        engine,
		MemberService: memberSvc,
		AuthService:   authSvc,
		Metrics:       m,
		cfg:           cfg,
		server: &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		closers: []func(context.Context) error{stopInvalidator},
	}, nil
}

// Run 阻塞监听，直到 Shutdown；server 在 Build 中创建，Shutdown 可先于 Run 调用
func (a *App) Run() error {
	logger.Info("http server listening", zap.String("addr", a.server.Addr))
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 先停 HTTP，再按顺序关闭失效队列、Redis、数据库
func (a *App) Shutdown(ctx context.Context) error {
	errs := []error{a.server.Shutdown(ctx)}
	for _, c := range a.closers {
		errs = append(errs, c(ctx))
	}
	return errors.Join(errs...)
}
