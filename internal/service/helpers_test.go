package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/member-graph/config"
	"github.com/d60-Lab/member-graph/internal/dto"
	"github.com/d60-Lab/member-graph/internal/identity"
	"github.com/d60-Lab/member-graph/internal/repository"
	"github.com/d60-Lab/member-graph/internal/session"
	"github.com/d60-Lab/member-graph/internal/stats"
	"github.com/d60-Lab/member-graph/pkg/database"
	"github.com/d60-Lab/member-graph/pkg/password"
	"github.com/d60-Lab/member-graph/pkg/token"
)

type fixture struct {
	members     MemberService
	auth        AuthService
	memberRepo  repository.MemberRepository
	followRepo  repository.FollowRepository
	hasher      *password.Hasher
	sessions    *session.RedisStore
	stats       *stats.Cache
	invalidator *StatsInvalidator
	tokens      *token.Manager
	redis       *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	memberRepo := repository.NewMemberRepository(db)
	followRepo := repository.NewFollowRepository(db)
	hasher := password.NewHasher(4)
	sessions := session.NewRedisStore(client)
	statsCache := stats.NewCache(followRepo, client, time.Minute)
	tokens := token.NewManager("test-secret", "member-graph", time.Minute, time.Hour)

	inv := NewStatsInvalidator(statsCache, 128)
	stop := inv.Start(2)
	t.Cleanup(func() { _ = stop(context.Background()) })

	return &fixture{
		members: NewMemberService(memberRepo, followRepo, hasher, sessions, statsCache, MemberServiceOptions{
			AdminUsernames: []string{"admin"},
			DenylistTTL:    30 * time.Minute,
			Invalidator:    inv,
		}),
		auth:        NewAuthService(memberRepo, hasher, tokens, sessions),
		memberRepo:  memberRepo,
		followRepo:  followRepo,
		hasher:      hasher,
		sessions:    sessions,
		stats:       statsCache,
		invalidator: inv,
		tokens:      tokens,
		redis:       mr,
	}
}

func (f *fixture) register(t *testing.T, userName string) int64 {
	t.Helper()
	id, err := f.members.CreateMember(context.Background(), dto.MemberPost{
		UserName: userName,
		Password: "password-" + userName,
		Nickname: "nick-" + userName,
		Email:    userName + "@example.com",
	})
	require.NoError(t, err)
	return id
}

func as(id int64) context.Context {
	return identity.WithMember(context.Background(), id)
}
