package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/member-graph/internal/model"
)

// MemberRepository 会员仓储
type MemberRepository interface {
	Create(ctx context.Context, m *model.Member) error
	// FindByID 不存在时返回 gorm.ErrRecordNotFound
	FindByID(ctx context.Context, id int64) (*model.Member, error)
	FindByUserName(ctx context.Context, userName string) (*model.Member, error)
	ExistsByUserName(ctx context.Context, userName string) (bool, error)
	// UpdateProfile 只写 nickname/introduction/image
	UpdateProfile(ctx context.Context, m *model.Member) error
	// Delete 同一事务内删除会员及其所有关注关系
	Delete(ctx context.Context, id int64) error
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository { return &memberRepository{db: db} }

func (r *memberRepository) Create(ctx context.Context, m *model.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *memberRepository) FindByID(ctx context.Context, id int64) (*model.Member, error) {
	var m model.Member
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memberRepository) FindByUserName(ctx context.Context, userName string) (*model.Member, error) {
	var m model.Member
	if err := r.db.WithContext(ctx).Where("user_name = ?", userName).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memberRepository) ExistsByUserName(ctx context.Context, userName string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Member{}).Where("user_name = ?", userName).Count(&cnt).Error
	return cnt > 0, err
}

func (r *memberRepository) UpdateProfile(ctx context.Context, m *model.Member) error {
	return r.db.WithContext(ctx).
		Model(m).
		Select("nickname", "introduction", "image").
		Updates(m).Error
}

func (r *memberRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&model.Follow{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Member{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
