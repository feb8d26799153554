package dto

import (
	"time"

	"github.com/d60-Lab/member-graph/internal/model"
	"github.com/d60-Lab/member-graph/internal/stats"
)

// MemberPost 注册请求
type MemberPost struct {
	UserName        string `json:"userName" binding:"required,username"`
	Password        string `json:"password" binding:"required,password"`
	ConfirmPassword string `json:"confirmPassword" binding:"omitempty,eqfield=Password"`
	Nickname        string `json:"nickname" binding:"required,max=50"`
	Email           string `json:"email" binding:"required,email"`
	Introduction    string `json:"introduction" binding:"max=500"`
	Image           string `json:"image" binding:"max=512"`
}

// MemberPatch 资料修改请求
type MemberPatch struct {
	Nickname     string `json:"nickname" binding:"required,max=50"`
	Introduction string `json:"introduction" binding:"max=500"`
	Image        string `json:"image" binding:"max=512"`
}

func (p MemberPatch) ToModel() model.MemberPatch {
	return model.MemberPatch{Nickname: p.Nickname, Introduction: p.Introduction, Image: p.Image}
}

// MemberResponse 会员信息
type MemberResponse struct {
	MemberID     int64      `json:"memberId"`
	UserName     string     `json:"userName"`
	Nickname     string     `json:"nickname"`
	Email        string     `json:"email"`
	Introduction string     `json:"introduction"`
	Image        string     `json:"image"`
	Role         model.Role `json:"role"`
	stats.Counts
	CreatedAt time.Time `json:"createdAt"`
}

func NewMemberResponse(m *model.Member, c stats.Counts) *MemberResponse {
	return &MemberResponse{
		MemberID:     m.ID,
		UserName:     m.UserName,
		Nickname:     m.Nickname,
		Email:        m.Email,
		Introduction: m.Introduction,
		Image:        m.Image,
		Role:         m.Role,
		Counts:       c,
		CreatedAt:    m.CreatedAt,
	}
}

// FollowResponse 关注切换结果
type FollowResponse struct {
	MemberID  int64 `json:"memberId"`
	Following bool  `json:"following"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ReissueRequest 刷新 access token
type ReissueRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}
