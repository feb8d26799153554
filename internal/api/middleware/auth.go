package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/member-graph/internal/identity"
	"github.com/d60-Lab/member-graph/pkg/logger"
	"github.com/d60-Lab/member-graph/pkg/response"
	"github.com/d60-Lab/member-graph/pkg/token"
)

const ContextKeyMemberID = "member_id"

// Denylist 已注销的 access token
type Denylist interface {
	IsDenied(ctx context.Context, accessToken string) (bool, error)
}

// Auth 解析 Authorization 头并把会员 ID 放进请求 context。
// 校验失败记为匿名（-1）继续；校验通过但缺少 Id 声明时直接 401。
// rejectInvalid 为 true 时校验失败也直接 401。
func Auth(tokens *token.Manager, denylist Denylist, rejectInvalid bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := resolve(c, tokens, denylist)
		if !ok {
			response.Status(c, http.StatusUnauthorized)
			return
		}
		if id == identity.Anonymous && rejectInvalid {
			response.Status(c, http.StatusUnauthorized)
			return
		}

		orig := c.Request.Context()
		c.Request = c.Request.WithContext(identity.WithMember(orig, id))
		c.Set(ContextKeyMemberID, id)
		defer func() {
			c.Request = c.Request.WithContext(orig)
		}()
		c.Next()
	}
}

// resolve 返回 ok=false 表示 token 有效但没有 Id 声明
func resolve(c *gin.Context, tokens *token.Manager, denylist Denylist) (int64, bool) {
	raw := token.FromRequest(c.Request)
	if raw == "" {
		return identity.Anonymous, true
	}

	claims, err := tokens.Parse(raw)
	if err != nil {
		logger.Debug("token rejected", zap.Error(err))
		return identity.Anonymous, true
	}
	if denylist != nil {
		denied, err := denylist.IsDenied(c.Request.Context(), raw)
		if err != nil {
			logger.Warn("denylist lookup failed", zap.Error(err))
			return identity.Anonymous, true
		}
		if denied {
			return identity.Anonymous, true
		}
	}

	id, present, err := claims.MemberID()
	if !present {
		return 0, false
	}
	if err != nil {
		logger.Debug("token id claim invalid", zap.Error(err))
		return identity.Anonymous, true
	}
	return id, true
}

// AccessToken 当前请求携带的原始 access token
func AccessToken(c *gin.Context) string {
	return token.FromRequest(c.Request)
}
