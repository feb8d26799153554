package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/member-graph/config"
	"github.com/d60-Lab/member-graph/internal/app"
	"github.com/d60-Lab/member-graph/pkg/errreport"
	"github.com/d60-Lab/member-graph/pkg/logger"
	"github.com/d60-Lab/member-graph/pkg/tracing"
)

// @title Member Graph API
// @version 1.0
// @description 会员与关注关系服务
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer logger.Sync()

	flush, err := errreport.Init(cfg.Sentry)
	if err != nil {
		logger.Fatal("init sentry", zap.Error(err))
	}
	defer flush()

	shutdownTracing, err := tracing.Init(context.Background(), cfg.Tracing)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}

	a, err := app.New(cfg)
	if err != nil {
		logger.Fatal("init app", zap.Error(err))
	}

	go func() {
		if err := a.Run(); err != nil {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Error("shutdown tracing", zap.Error(err))
	}
}
