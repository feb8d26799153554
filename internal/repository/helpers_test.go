package repository

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/d60-Lab/member-graph/config"
	"github.com/d60-Lab/member-graph/internal/model"
	"github.com/d60-Lab/member-graph/pkg/database"
)

func openTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedMembers(tb testing.TB, db *gorm.DB, n int) []model.Member {
	tb.Helper()
	members := make([]model.Member, n)
	for i := range members {
		name := fmt.Sprintf("u%04d", i)
		members[i] = model.Member{UserName: name, Password: "p", Nickname: "nick-" + name, Email: name + "@example.com"}
	}
	if err := db.WithContext(context.Background()).CreateInBatches(&members, 500).Error; err != nil {
		tb.Fatalf("seed members: %v", err)
	}
	return members
}
