// Package errreport 对接 sentry 错误上报
package errreport

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/d60-Lab/member-graph/config"
)

// Init 初始化 sentry；DSN 为空时不启用，返回的 flush 为空操作
func Init(cfg config.SentryConfig) (func(), error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		AttachStacktrace: true,
	}); err != nil {
		return nil, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}
