package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/member-graph/internal/repository"
	"github.com/d60-Lab/member-graph/internal/session"
	"github.com/d60-Lab/member-graph/pkg/errcode"
	"github.com/d60-Lab/member-graph/pkg/logger"
	"github.com/d60-Lab/member-graph/pkg/token"
)

// AuthService 登录与 token 续期
type AuthService interface {
	Login(ctx context.Context, userName, password string) (token.Pair, error)
	Reissue(ctx context.Context, refreshToken string) (token.Pair, error)
}

type authService struct {
	memberRepo repository.MemberRepository
	hasher     PasswordHasher
	tokens     *token.Manager
	sessions   session.Store
}

func NewAuthService(memberRepo repository.MemberRepository, hasher PasswordHasher, tokens *token.Manager, sessions session.Store) AuthService {
	return &authService{memberRepo: memberRepo, hasher: hasher, tokens: tokens, sessions: sessions}
}

func (s *authService) Login(ctx context.Context, userName, password string) (token.Pair, error) {
	m, err := s.memberRepo.FindByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return token.Pair{}, errcode.LoginFailed
		}
		return token.Pair{}, err
	}
	if err := s.hasher.Verify(m.Password, password); err != nil {
		logger.Debug("login password mismatch", zap.String("user", userName))
		return token.Pair{}, errcode.LoginFailed
	}
	return s.issue(ctx, token.Subject{MemberID: m.ID, Username: m.UserName, Roles: m.Roles()})
}

// Reissue 校验 refresh token 与 redis 中的会话一致后轮换整对 token
func (s *authService) Reissue(ctx context.Context, refreshToken string) (token.Pair, error) {
	claims, err := s.tokens.ParseRefresh(token.Strip(refreshToken))
	if err != nil {
		return token.Pair{}, errcode.InvalidRefreshToken
	}
	userName := claims.Sub()
	stored, err := s.sessions.GetSession(ctx, userName)
	if err != nil {
		return token.Pair{}, fmt.Errorf("get session: %w", err)
	}
	if stored == "" || stored != token.Strip(refreshToken) {
		return token.Pair{}, errcode.InvalidRefreshToken
	}

	m, err := s.memberRepo.FindByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return token.Pair{}, errcode.InvalidRefreshToken
		}
		return token.Pair{}, err
	}
	return s.issue(ctx, token.Subject{MemberID: m.ID, Username: m.UserName, Roles: m.Roles()})
}

func (s *authService) issue(ctx context.Context, sub token.Subject) (token.Pair, error) {
	pair, err := s.tokens.IssuePair(sub)
	if err != nil {
		return token.Pair{}, fmt.Errorf("issue tokens: %w", err)
	}
	if err := s.sessions.SetSession(ctx, sub.Username, pair.RefreshToken, s.tokens.RefreshTTL()); err != nil {
		return token.Pair{}, fmt.Errorf("store session: %w", err)
	}
	return pair, nil
}
