package repository

import (
	"context"
	"math/rand"
	"testing"
)

func BenchmarkFollowToggle(b *testing.B) {
	db := openTestDB(b)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()

	// 预创建部分用户
	users := seedMembers(b, db, 1000)

	rng := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from := users[rng.Intn(len(users))].ID
		to := users[rng.Intn(len(users))].ID
		if from == to {
			continue
		}
		_, _ = followRepo.Toggle(ctx, from, to)
	}
}

func BenchmarkQueryFollowersAndFollowing(b *testing.B) {
	db := openTestDB(b)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()

	// 构造：u0 有 N 个粉丝，同时 u0 也关注 N 个用户
	const N = 5000
	users := seedMembers(b, db, N+1)
	u0 := users[0]
	for _, u := range users[1:] {
		_, _ = followRepo.Toggle(ctx, u.ID, u0.ID)
		_, _ = followRepo.Toggle(ctx, u0.ID, u.ID)
	}

	b.ResetTimer()
	b.Run("ListFollowers", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = followRepo.ListFollowers(ctx, u0.ID, 0, 50)
		}
	})

	b.Run("ListFollowing", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = followRepo.ListFollowing(ctx, u0.ID, 0, 50)
		}
	})

	b.Run("ListFollowingDeepCursor", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = followRepo.ListFollowing(ctx, u0.ID, int64(N), 50)
		}
	})
}
