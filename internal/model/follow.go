package model

import (
	"time"
)

// Follow 关注关系（Follower 关注 Following），单向存一行，双向查询
type Follow struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	FollowerID  int64 `gorm:"not null;index:idx_follow_pair,unique"`
	FollowingID int64 `gorm:"not null;index:idx_follow_pair,unique;index:idx_follow_following"`
	// 复合唯一键，避免重复关注
	// idx_follow_pair = (follower_id, following_id)
	Follower  *Member `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Following *Member `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time
}

func (Follow) TableName() string { return "follows" }

// FollowSummary 关注/粉丝列表项（join members）
type FollowSummary struct {
	FollowID int64  `json:"followId"`
	MemberID int64  `json:"memberId"`
	UserName string `json:"userName"`
	Nickname string `json:"nickname"`
	Image    string `json:"image"`
}
