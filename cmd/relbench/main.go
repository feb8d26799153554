package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/member-graph/config"
	"github.com/d60-Lab/member-graph/internal/identity"
	"github.com/d60-Lab/member-graph/internal/model"
	"github.com/d60-Lab/member-graph/internal/repository"
	"github.com/d60-Lab/member-graph/internal/service"
	"github.com/d60-Lab/member-graph/internal/stats"
	"github.com/d60-Lab/member-graph/pkg/cache"
	"github.com/d60-Lab/member-graph/pkg/database"
	"github.com/d60-Lab/member-graph/pkg/logger"
	"github.com/d60-Lab/member-graph/pkg/password"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func main() {
	cfg := must(config.Load())
	_ = logger.Init("warn", "console")
	db := must(database.InitDB(cfg))

	// redis 不可用时关闭计数缓存，只测关系写入
	var rdb *redis.Client
	if c, err := cache.NewRedis(cfg.Redis); err == nil {
		rdb = c
		defer rdb.Close()
	} else {
		logger.Warn("redis unavailable, stats cache disabled", zap.Error(err))
	}

	memberRepo := repository.NewMemberRepository(db)
	followRepo := repository.NewFollowRepository(db)
	statsCache := stats.NewCache(followRepo, rdb, cfg.Stats.TTL)
	invalidator := service.NewStatsInvalidator(statsCache, 100000)
	stop := invalidator.Start(8)
	svc := service.NewMemberService(memberRepo, followRepo, password.NewHasher(0), nil, statsCache,
		service.MemberServiceOptions{Invalidator: invalidator})

	N := envInt("N", 10000)
	CONC := envInt("CONC", 8)
	PAGE := envInt("PAGE", 50)
	RACE := envInt("RACE", 200) // 同一对关系并发切换的成对数

	// seed: celeb 被其余会员关注
	run := uuid.NewString()[:8]
	celeb := model.Member{UserName: "c" + run, Password: "p", Nickname: "celeb", Email: "c" + run + "@example.com"}
	must(0, db.Create(&celeb).Error)
	members := make([]model.Member, N)
	for i := range members {
		name := fmt.Sprintf("u%s%d", run, i)
		members[i] = model.Member{UserName: name, Password: "p", Nickname: name, Email: name + "@example.com"}
	}
	must(0, db.CreateInBatches(&members, 1000).Error)

	repMetrics := invalidator.Metrics()
	repRecs := make([]time.Duration, 0, N)
	doneRep := make(chan struct{})
	repExited := make(chan struct{})
	go func() {
		defer close(repExited)
		for {
			select {
			case d := <-repMetrics:
				repRecs = append(repRecs, d)
			case <-doneRep:
				return
			}
		}
	}()

	maxQ := 0
	quitSample := make(chan struct{})
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if q := invalidator.QueueLen(); q > maxQ {
					maxQ = q
				}
			case <-quitSample:
				return
			}
		}
	}()

	// phase 1: N 次关注，CONC 个协程
	toggleRecs, toggleDur, toggleErrs := fanOut(N, CONC, func(i int) error {
		_, err := svc.FollowMember(identity.WithMember(context.Background(), members[i].ID), celeb.ID)
		return err
	})
	close(quitSample)

	// phase 2: 同一对关系两个协程同时切换，结果须与串行两次一致（仍为关注）
	if RACE > N {
		RACE = N
	}
	raceRecs, raceDur, raceErrs := fanOut(RACE*2, CONC*2, func(i int) error {
		_, err := svc.FollowMember(identity.WithMember(context.Background(), members[i/2].ID), celeb.ID)
		return err
	})

	// queries
	celebCtx := identity.WithMember(context.Background(), celeb.ID)
	q0 := time.Now()
	_, _ = svc.FollowerList(celebCtx, 0, PAGE)
	fansDur := time.Since(q0)

	q1 := time.Now()
	_, _ = svc.FollowingList(identity.WithMember(context.Background(), members[N-1].ID), 0, PAGE)
	follDur := time.Since(q1)

	drainStart := time.Now()
	_ = stop(context.Background())
	drainDur := time.Since(drainStart)
	close(doneRep)
	<-repExited

	var dup int64
	must(0, db.Raw(`SELECT COUNT(*) FROM (SELECT follower_id, following_id FROM follows
		GROUP BY follower_id, following_id HAVING COUNT(*) > 1) d`).Scan(&dup).Error)
	followers := must(followRepo.CountFollowers(context.Background(), celeb.ID))

	fmt.Printf("N=%d, CONC=%d, PAGE=%d, RACE=%d\n", N, CONC, PAGE, RACE)
	fmt.Printf("Toggle latency total: %v, per op: %v, p50: %v, p95: %v, p99: %v, errors: %d\n",
		toggleDur, toggleDur/time.Duration(N), pct(toggleRecs, 0.50), pct(toggleRecs, 0.95), pct(toggleRecs, 0.99), toggleErrs)
	fmt.Printf("Racing toggles total: %v, p50: %v, p99: %v, errors: %d\n",
		raceDur, pct(raceRecs, 0.50), pct(raceRecs, 0.99), raceErrs)
	fmt.Printf("Query followers(%d) latency: %v\n", PAGE, fansDur)
	fmt.Printf("Query following(%d) latency: %v\n", PAGE, follDur)
	fmt.Printf("Celeb followers: %d (expect %d), duplicate pairs: %d\n", followers, N, dup)
	if len(repRecs) > 0 {
		fmt.Printf("Invalidation landing: samples=%d, p50=%v, p95=%v, p99=%v, maxQueue=%d, drain=%v\n",
			len(repRecs), pct(repRecs, 0.50), pct(repRecs, 0.95), pct(repRecs, 0.99), maxQ, drainDur)
	}
	if dup > 0 || followers != int64(N) {
		os.Exit(1)
	}
}

// fanOut 用 workers 个协程执行 n 次 op，返回每次耗时、总耗时和错误数
func fanOut(n, workers int, op func(i int) error) ([]time.Duration, time.Duration, int) {
	if workers > n {
		workers = n
	}
	feed := make(chan int, n)
	for i := 0; i < n; i++ {
		feed <- i
	}
	close(feed)

	type result struct {
		d   time.Duration
		err error
	}
	out := make(chan result, n)
	t0 := time.Now()
	done := make(chan struct{}, workers)
	for w := 0; w < workers; w++ {
		go func() {
			for i := range feed {
				st := time.Now()
				err := op(i)
				out <- result{d: time.Since(st), err: err}
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < workers; w++ {
		<-done
	}
	total := time.Since(t0)
	close(out)

	recs := make([]time.Duration, 0, n)
	errs := 0
	for r := range out {
		recs = append(recs, r.d)
		if r.err != nil {
			errs++
		}
	}
	return recs, total, errs
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}
