package stats

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/member-graph/internal/repository"
	"github.com/d60-Lab/member-graph/pkg/logger"
)

const (
	fieldFollowers = "followers"
	fieldFollowing = "following"
)

// Counts holds the follower/following totals shown on a member profile.
type Counts struct {
	Followers int64 `json:"followerCount"`
	Following int64 `json:"followingCount"`
}

// Cache is a read-through redis cache over follow counts. Entries are
// dropped by Invalidate and rebuilt from the relational store on the next read.
type Cache struct {
	follows repository.FollowRepository
	cache   *redis.Client
	ttl     time.Duration

	dbLoads   atomic.Int64
	cacheHits atomic.Int64
}

// NewCache builds a stats cache. A nil client disables caching.
func NewCache(follows repository.FollowRepository, cache *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cache{follows: follows, cache: cache, ttl: ttl}
}

func key(memberID int64) string { return fmt.Sprintf("member:stats:%d", memberID) }

// genKey 每次失效自增；读穿写回时 WATCH 它，加载期间发生过失效则放弃写回
func genKey(memberID int64) string { return fmt.Sprintf("member:stats:gen:%d", memberID) }

// Get returns counts for memberID, from redis when present.
func (s *Cache) Get(ctx context.Context, memberID int64) (Counts, error) {
	if s.cache == nil {
		return s.load(ctx, memberID)
	}
	if vals, err := s.cache.HGetAll(ctx, key(memberID)).Result(); err == nil && len(vals) == 2 {
		followers, fErr := strconv.ParseInt(vals[fieldFollowers], 10, 64)
		following, gErr := strconv.ParseInt(vals[fieldFollowing], 10, 64)
		if fErr == nil && gErr == nil {
			s.cacheHits.Add(1)
			return Counts{Followers: followers, Following: following}, nil
		}
	}

	var (
		counts  Counts
		loaded  bool
		loadErr error
	)
	err := s.cache.Watch(ctx, func(tx *redis.Tx) error {
		counts, loadErr = s.load(ctx, memberID)
		if loadErr != nil {
			return loadErr
		}
		loaded = true
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key(memberID), fieldFollowers, counts.Followers, fieldFollowing, counts.Following)
			pipe.Expire(ctx, key(memberID), s.ttl)
			return nil
		})
		return err
	}, genKey(memberID))
	switch {
	case loadErr != nil:
		return Counts{}, loadErr
	case errors.Is(err, redis.TxFailedErr):
		logger.Debug("stats invalidated during load, skip cache write", zap.Int64("member", memberID))
	case err != nil:
		logger.Warn("stats cache write failed", zap.Int64("member", memberID), zap.Error(err))
	}
	if !loaded {
		return s.load(ctx, memberID)
	}
	return counts, nil
}

// Invalidate drops cached counts for the given members.
func (s *Cache) Invalidate(ctx context.Context, memberIDs ...int64) error {
	if s.cache == nil || len(memberIDs) == 0 {
		return nil
	}
	keys := make([]string, len(memberIDs))
	pipe := s.cache.TxPipeline()
	for i, id := range memberIDs {
		keys[i] = key(id)
		pipe.Incr(ctx, genKey(id))
		pipe.Expire(ctx, genKey(id), s.ttl)
	}
	pipe.Del(ctx, keys...)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Cache) load(ctx context.Context, memberID int64) (Counts, error) {
	s.dbLoads.Add(1)
	followers, err := s.follows.CountFollowers(ctx, memberID)
	if err != nil {
		return Counts{}, err
	}
	following, err := s.follows.CountFollowing(ctx, memberID)
	if err != nil {
		return Counts{}, err
	}
	return Counts{Followers: followers, Following: following}, nil
}

// Counters reports cache effectiveness since construction.
func (s *Cache) Counters() CacheCounters {
	return CacheCounters{DBLoads: s.dbLoads.Load(), CacheHits: s.cacheHits.Load()}
}

// CacheCounters summarises cache hits and store loads.
type CacheCounters struct {
	DBLoads   int64
	CacheHits int64
}
