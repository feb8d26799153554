package model

import "time"

// Role 会员角色
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

// Member 会员
type Member struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	UserName     string `gorm:"type:varchar(50);uniqueIndex:ux_member_user_name;not null"`
	Password     string `gorm:"type:varchar(100);not null" json:"-"`
	Nickname     string `gorm:"type:varchar(50);not null"`
	Email        string `gorm:"type:varchar(255);not null"`
	Introduction string `gorm:"type:text"`
	Image        string `gorm:"type:varchar(512)"`
	Role         Role   `gorm:"type:varchar(16);not null;default:'ROLE_USER'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Member) TableName() string { return "members" }

// MemberPatch 可修改的资料字段
type MemberPatch struct {
	Nickname     string
	Introduction string
	Image        string
}

// ChangePassword 替换为已哈希的密码
func (m *Member) ChangePassword(hash string) {
	m.Password = hash
}

// Update 只修改 nickname/introduction/image，ID、用户名、密码保持不变
func (m *Member) Update(p MemberPatch) *Member {
	m.Nickname = p.Nickname
	m.Introduction = p.Introduction
	m.Image = p.Image
	return m
}

// Roles 供 token 使用
func (m *Member) Roles() []string {
	if m.Role == RoleAdmin {
		return []string{string(RoleUser), string(RoleAdmin)}
	}
	return []string{string(RoleUser)}
}
