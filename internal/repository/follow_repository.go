package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/member-graph/internal/model"
)

type FollowRepository interface {
	// Toggle 关注/取消关注，返回操作后的状态（true = 已关注）
	Toggle(ctx context.Context, followerID, followingID int64) (bool, error)
	Exists(ctx context.Context, followerID, followingID int64) (bool, error)
	// ListFollowing 我关注的人，按关系 ID 升序，cursorID <= 0 表示第一页
	ListFollowing(ctx context.Context, followerID, cursorID int64, limit int) ([]*model.FollowSummary, error)
	// ListFollowers 关注我的人
	ListFollowers(ctx context.Context, followingID, cursorID int64, limit int) ([]*model.FollowSummary, error)
	CountFollowing(ctx context.Context, followerID int64) (int64, error)
	CountFollowers(ctx context.Context, followingID int64) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Toggle(ctx context.Context, followerID, followingID int64) (bool, error) {
	var following bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&model.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			following = false
			return nil
		}

		f := &model.Follow{FollowerID: followerID, FollowingID: followingID}
		res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(f)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			following = true
			return nil
		}

		// 并发的另一次 toggle 抢先插入：按串行语义本次应取消关注
		following = false
		return tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&model.Follow{}).Error
	})
	return following, err
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, followerID, cursorID int64, limit int) ([]*model.FollowSummary, error) {
	return r.list(ctx, "f.follower_id", "f.following_id", followerID, cursorID, limit)
}

func (r *followRepository) ListFollowers(ctx context.Context, followingID, cursorID int64, limit int) ([]*model.FollowSummary, error) {
	return r.list(ctx, "f.following_id", "f.follower_id", followingID, cursorID, limit)
}

// list ownerCol 为过滤列，peerCol 为 join 到 members 的对端列
func (r *followRepository) list(ctx context.Context, ownerCol, peerCol string, memberID, cursorID int64, limit int) ([]*model.FollowSummary, error) {
	q := r.db.WithContext(ctx).
		Table("follows AS f").
		Select("f.id AS follow_id, m.id AS member_id, m.user_name, m.nickname, m.image").
		Joins("JOIN members AS m ON m.id = "+peerCol).
		Where(ownerCol+" = ?", memberID)
	if cursorID > 0 {
		q = q.Where("f.id > ?", cursorID)
	}
	res := make([]*model.FollowSummary, 0, limit)
	err := q.Order("f.id ASC").Limit(limit).Scan(&res).Error
	return res, err
}

func (r *followRepository) CountFollowing(ctx context.Context, followerID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("follower_id = ?", followerID).Count(&cnt).Error
	return cnt, err
}

func (r *followRepository) CountFollowers(ctx context.Context, followingID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("following_id = ?", followingID).Count(&cnt).Error
	return cnt, err
}
