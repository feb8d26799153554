package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/member-graph/config"
	"github.com/d60-Lab/member-graph/internal/model"
	"github.com/d60-Lab/member-graph/internal/repository"
	"github.com/d60-Lab/member-graph/internal/service"
	"github.com/d60-Lab/member-graph/internal/stats"
	"github.com/d60-Lab/member-graph/pkg/cache"
	"github.com/d60-Lab/member-graph/pkg/database"
	"github.com/d60-Lab/member-graph/pkg/logger"
)

// 主页计数读放大测试：同一批请求分别走纯 DB 与 redis 读穿缓存，
// 读请求中按 WRITE_PCT 比例穿插关注切换（触发异步失效）。

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

type op struct {
	write    bool
	member   int // 被读/被关注的热门会员下标
	follower int
}

type result struct {
	name      string
	total     time.Duration
	recs      []time.Duration
	counters  stats.CacheCounters
	invalided int64
}

func main() {
	ctx := context.Background()
	cfg := must(config.Load())
	_ = logger.Init("warn", "console")
	db := must(database.InitDB(cfg))
	client := must(cache.NewRedis(cfg.Redis))
	defer client.Close()

	hot := envInt("HOT", 3)
	fans := envInt("FANS", 5000)
	reqs := envInt("REQS", 9000)
	writePct := envInt("WRITE_PCT", 2)

	fmt.Println("Setting up test data...")
	run := uuid.NewString()[:8]
	members := make([]model.Member, hot+fans)
	for i := range members {
		name := fmt.Sprintf("b%s%d", run, i)
		members[i] = model.Member{UserName: name, Password: "p", Nickname: name, Email: name + "@example.com"}
	}
	must(0, db.CreateInBatches(&members, 1000).Error)

	// 热门会员 i 的粉丝为 fans 中一段有重叠的区间
	edges := make([]model.Follow, 0, hot*fans/2)
	for h := 0; h < hot; h++ {
		for j := 0; j < fans/2; j++ {
			f := hot + (j+h*fans/4)%fans
			edges = append(edges, model.Follow{FollowerID: members[f].ID, FollowingID: members[h].ID})
		}
	}
	must(0, db.CreateInBatches(&edges, 1000).Error)
	fmt.Printf("Test data ready: %d hot members, %d edges\n", hot, len(edges))

	rng := rand.New(rand.NewSource(42))
	ops := make([]op, reqs)
	for i := range ops {
		ops[i] = op{
			write:    rng.Intn(100) < writePct,
			member:   rng.Intn(hot),
			follower: hot + rng.Intn(fans),
		}
	}

	followRepo := repository.NewFollowRepository(db)
	noCache := runScenario(ctx, "db-only", followRepo, nil, members, ops)
	withCache := runScenario(ctx, "read-through", followRepo, client, members, ops)

	for _, r := range []result{noCache, withCache} {
		hitRate := 0.0
		if n := r.counters.CacheHits + r.counters.DBLoads; n > 0 {
			hitRate = float64(r.counters.CacheHits) / float64(n) * 100
		}
		fmt.Printf("%-13s total=%v p50=%v p95=%v p99=%v dbLoads=%d hits=%d hitRate=%.1f%% invalidations=%d\n",
			r.name, r.total, pct(r.recs, 0.50), pct(r.recs, 0.95), pct(r.recs, 0.99),
			r.counters.DBLoads, r.counters.CacheHits, hitRate, r.invalided)
	}
}

func runScenario(ctx context.Context, name string, follows repository.FollowRepository, client *redis.Client, members []model.Member, ops []op) result {
	c := stats.NewCache(follows, client, 10*time.Minute)
	if client != nil {
		ids := make([]int64, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ID)
		}
		_ = c.Invalidate(ctx, ids...)
	}
	inv := service.NewStatsInvalidator(c, len(ops))
	var invalidated atomic.Int64
	inv.OnDone(func(time.Duration) { invalidated.Add(1) })
	stop := inv.Start(1)

	recs := make([]time.Duration, 0, len(ops))
	t0 := time.Now()
	for _, o := range ops {
		target := members[o.member].ID
		if o.write {
			_, _ = follows.Toggle(ctx, members[o.follower].ID, target)
			inv.Enqueue(members[o.follower].ID, target)
			continue
		}
		st := time.Now()
		_, _ = c.Get(ctx, target)
		recs = append(recs, time.Since(st))
	}
	total := time.Since(t0)
	_ = stop(ctx)

	return result{name: name, total: total, recs: recs, counters: c.Counters(), invalided: invalidated.Load()}
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
