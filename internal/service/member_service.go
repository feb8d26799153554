package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/member-graph/internal/dto"
	"github.com/d60-Lab/member-graph/internal/identity"
	"github.com/d60-Lab/member-graph/internal/model"
	"github.com/d60-Lab/member-graph/internal/repository"
	"github.com/d60-Lab/member-graph/internal/session"
	"github.com/d60-Lab/member-graph/internal/stats"
	"github.com/d60-Lab/member-graph/pkg/errcode"
	"github.com/d60-Lab/member-graph/pkg/logger"
	"github.com/d60-Lab/member-graph/pkg/response"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PasswordHasher 密码哈希
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) error
}

// StatsStore 关注计数读取与失效
type StatsStore interface {
	Get(ctx context.Context, memberID int64) (stats.Counts, error)
	Invalidate(ctx context.Context, memberIDs ...int64) error
}

// ToggleObserver 关注切换观察者（指标）
type ToggleObserver interface {
	ObserveToggle(following bool)
}

// MemberService 会员与关系链服务；当前身份从 ctx 读取（identity.FromContext）
type MemberService interface {
	CreateMember(ctx context.Context, req dto.MemberPost) (int64, error)
	UpdateMember(ctx context.Context, memberID int64, patch dto.MemberPatch) (*dto.MemberResponse, error)
	FindMember(ctx context.Context, memberID int64) (*dto.MemberResponse, error)
	DeleteMember(ctx context.Context, memberID int64) error
	MyPageInfo(ctx context.Context) (*dto.MemberResponse, error)
	Logout(ctx context.Context, accessToken string) error
	FollowMember(ctx context.Context, followID int64) (bool, error)
	FollowingList(ctx context.Context, cursorID int64, size int) (*response.Slice[*model.FollowSummary], error)
	FollowerList(ctx context.Context, cursorID int64, size int) (*response.Slice[*model.FollowSummary], error)
}

// MemberServiceOptions 可选依赖
type MemberServiceOptions struct {
	AdminUsernames []string
	DenylistTTL    time.Duration
	Invalidator    *StatsInvalidator
	Observer       ToggleObserver
}

type memberService struct {
	memberRepo repository.MemberRepository
	followRepo repository.FollowRepository
	hasher     PasswordHasher
	sessions   session.Store
	stats      StatsStore
	opts       MemberServiceOptions
}

func NewMemberService(
	memberRepo repository.MemberRepository,
	followRepo repository.FollowRepository,
	hasher PasswordHasher,
	sessions session.Store,
	statsStore StatsStore,
	opts MemberServiceOptions,
) MemberService {
	if opts.DenylistTTL <= 0 {
		opts.DenylistTTL = 30 * time.Minute
	}
	return &memberService{
		memberRepo: memberRepo,
		followRepo: followRepo,
		hasher:     hasher,
		sessions:   sessions,
		stats:      statsStore,
		opts:       opts,
	}
}

func (s *memberService) CreateMember(ctx context.Context, req dto.MemberPost) (int64, error) {
	if err := s.verifyNotExists(ctx, req.UserName); err != nil {
		return 0, err
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	m := &model.Member{
		UserName:     req.UserName,
		Nickname:     req.Nickname,
		Email:        req.Email,
		Introduction: req.Introduction,
		Image:        req.Image,
		Role:         s.roleFor(req.UserName),
	}
	m.ChangePassword(hash)

	if err := s.memberRepo.Create(ctx, m); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, errcode.MemberExists
		}
		return 0, err
	}
	return m.ID, nil
}

func (s *memberService) UpdateMember(ctx context.Context, memberID int64, patch dto.MemberPatch) (*dto.MemberResponse, error) {
	if err := s.validateUser(ctx, memberID); err != nil {
		return nil, err
	}
	m, err := s.findExistsMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if err := s.memberRepo.UpdateProfile(ctx, m.Update(patch.ToModel())); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, m)
}

func (s *memberService) FindMember(ctx context.Context, memberID int64) (*dto.MemberResponse, error) {
	m, err := s.findExistsMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, m)
}

func (s *memberService) DeleteMember(ctx context.Context, memberID int64) error {
	if err := s.validateUser(ctx, memberID); err != nil {
		return err
	}
	m, err := s.findExistsMember(ctx, memberID)
	if err != nil {
		return err
	}
	if err := s.memberRepo.Delete(ctx, m.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errcode.MemberNotFound
		}
		return err
	}
	if err := s.sessions.DeleteSession(ctx, m.UserName); err != nil {
		logger.Warn("drop session after delete failed", zap.String("user", m.UserName), zap.Error(err))
	}
	// 对端计数缓存依赖 TTL 过期
	s.invalidate(ctx, m.ID)
	return nil
}

func (s *memberService) MyPageInfo(ctx context.Context) (*dto.MemberResponse, error) {
	return s.FindMember(ctx, identity.FromContext(ctx))
}

func (s *memberService) Logout(ctx context.Context, accessToken string) error {
	m, err := s.findExistsMember(ctx, identity.FromContext(ctx))
	if err != nil {
		return err
	}
	if err := s.sessions.DeleteSession(ctx, m.UserName); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if accessToken != "" {
		if err := s.sessions.Deny(ctx, accessToken, s.opts.DenylistTTL); err != nil {
			return fmt.Errorf("deny access token: %w", err)
		}
	}
	return nil
}

func (s *memberService) FollowMember(ctx context.Context, followID int64) (bool, error) {
	userID := identity.FromContext(ctx)
	if followID == userID {
		return false, errcode.RequestValidationFail.WithMessage("cannot follow self")
	}
	if _, err := s.findExistsMember(ctx, followID); err != nil {
		return false, err
	}
	if _, err := s.findExistsMember(ctx, userID); err != nil {
		return false, err
	}

	following, err := s.followRepo.Toggle(ctx, userID, followID)
	if err != nil {
		return false, err
	}
	if s.opts.Observer != nil {
		s.opts.Observer.ObserveToggle(following)
	}
	s.invalidate(ctx, userID, followID)
	return following, nil
}

func (s *memberService) FollowingList(ctx context.Context, cursorID int64, size int) (*response.Slice[*model.FollowSummary], error) {
	size = normalizeSize(size)
	rows, err := s.followRepo.ListFollowing(ctx, identity.FromContext(ctx), cursorID, size+1)
	if err != nil {
		return nil, err
	}
	return toSlice(rows, size), nil
}

func (s *memberService) FollowerList(ctx context.Context, cursorID int64, size int) (*response.Slice[*model.FollowSummary], error) {
	size = normalizeSize(size)
	rows, err := s.followRepo.ListFollowers(ctx, identity.FromContext(ctx), cursorID, size+1)
	if err != nil {
		return nil, err
	}
	return toSlice(rows, size), nil
}

func (s *memberService) findExistsMember(ctx context.Context, memberID int64) (*model.Member, error) {
	m, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errcode.MemberNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *memberService) verifyNotExists(ctx context.Context, userName string) error {
	exists, err := s.memberRepo.ExistsByUserName(ctx, userName)
	if err != nil {
		return err
	}
	if exists {
		return errcode.MemberExists
	}
	return nil
}

// validateUser 登录身份必须与目标会员一致
func (s *memberService) validateUser(ctx context.Context, memberID int64) error {
	if identity.FromContext(ctx) != memberID {
		return errcode.MemberNotAuthorized
	}
	return nil
}

func (s *memberService) roleFor(userName string) model.Role {
	if slices.Contains(s.opts.AdminUsernames, userName) {
		return model.RoleAdmin
	}
	return model.RoleUser
}

func (s *memberService) toResponse(ctx context.Context, m *model.Member) (*dto.MemberResponse, error) {
	var counts stats.Counts
	if s.stats != nil {
		c, err := s.stats.Get(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		counts = c
	}
	return dto.NewMemberResponse(m, counts), nil
}

// invalidate 同步删除计数缓存，返回前即可读到新值；
// 再投递异步失效做延迟双删，同步删除失败时由它兜底
func (s *memberService) invalidate(ctx context.Context, memberIDs ...int64) {
	if s.stats != nil {
		if err := s.stats.Invalidate(ctx, memberIDs...); err != nil {
			logger.Warn("stats invalidate failed, falling back to async", zap.Int64s("members", memberIDs), zap.Error(err))
		}
	}
	if s.opts.Invalidator != nil {
		s.opts.Invalidator.Enqueue(memberIDs...)
	}
}

func normalizeSize(size int) int {
	if size < 1 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

func toSlice(rows []*model.FollowSummary, size int) *response.Slice[*model.FollowSummary] {
	hasNext := len(rows) > size
	if hasNext {
		rows = rows[:size]
	}
	return &response.Slice[*model.FollowSummary]{Content: rows, HasNext: hasNext, Size: size}
}
