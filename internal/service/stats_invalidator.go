package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/member-graph/pkg/logger"
)

// Invalidator 删除缓存中的关注计数
type Invalidator interface {
	Invalidate(ctx context.Context, memberIDs ...int64) error
}

type invalidateJob struct {
	memberIDs []int64
	enqAt     time.Time
}

// StatsInvalidator 本地异步执行器：关注关系变更后异步失效计数缓存
type StatsInvalidator struct {
	target    Invalidator
	ch        chan invalidateJob
	metricsCh chan time.Duration
	onDone    func(time.Duration)
}

func NewStatsInvalidator(target Invalidator, queueSize int) *StatsInvalidator {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &StatsInvalidator{target: target, ch: make(chan invalidateJob, queueSize), metricsCh: make(chan time.Duration, 65536)}
}

// OnDone 注册每个任务完成后的回调（用于指标上报）
func (r *StatsInvalidator) OnDone(fn func(time.Duration)) { r.onDone = fn }

// Start 启动 workers 个消费协程，返回停止函数（会尽量排空队列，可重复调用）
func (r *StatsInvalidator) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	var once sync.Once
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case job := <-r.ch:
					r.run(job)
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		once.Do(func() { close(stopCh) })
		// workers 已退出，剩余任务在调用方协程里同步处理
		for {
			select {
			case job := <-r.ch:
				r.run(job)
			case <-ctx.Done():
				return ctx.Err()
			default:
				return nil
			}
		}
	}
}

func (r *StatsInvalidator) run(job invalidateJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := r.target.Invalidate(ctx, job.memberIDs...); err != nil {
		logger.Warn("stats invalidate failed", zap.Int64s("members", job.memberIDs), zap.Error(err))
	}
	cancel()
	d := time.Since(job.enqAt)
	if r.onDone != nil {
		r.onDone(d)
	}
	select {
	case r.metricsCh <- d:
	default:
	}
}

// Enqueue 入队；队列满时丢弃并告警（缓存自带 TTL 兜底）
func (r *StatsInvalidator) Enqueue(memberIDs ...int64) {
	if len(memberIDs) == 0 {
		return
	}
	select {
	case r.ch <- invalidateJob{memberIDs: memberIDs, enqAt: time.Now()}:
	default:
		logger.Warn("invalidator queue full, drop", zap.Int64s("members", memberIDs))
	}
}

// Metrics 返回失效落地耗时的只读通道（每处理一条发送一次 duration）。
func (r *StatsInvalidator) Metrics() <-chan time.Duration { return r.metricsCh }

// QueueLen 返回当前队列长度（采样值）。
func (r *StatsInvalidator) QueueLen() int { return len(r.ch) }
