package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/member-graph/internal/api/middleware"
	"github.com/d60-Lab/member-graph/internal/dto"
	"github.com/d60-Lab/member-graph/pkg/response"
	"github.com/d60-Lab/member-graph/pkg/token"
)

// Login 登录
// @Summary 登录，签发 access/refresh token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录信息"
// @Success 200 {object} token.Pair
// @Failure 401 {object} response.ErrorBody
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	pair, err := h.authService.Login(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeTokens(c, pair)
}

// Reissue 用 refresh token 换新 token
// @Summary 续期 token（Refresh 头或请求体）
// @Tags 认证
// @Accept json
// @Produce json
// @Param Refresh header string false "refresh token"
// @Param request body dto.ReissueRequest false "refresh token"
// @Success 200 {object} token.Pair
// @Failure 401 {object} response.ErrorBody
// @Router /api/v1/auth/reissue [post]
func (h *Handler) Reissue(c *gin.Context) {
	refresh := c.GetHeader(token.HeaderRefresh)
	if refresh == "" {
		var req dto.ReissueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		refresh = req.RefreshToken
	}
	pair, err := h.authService.Reissue(c.Request.Context(), refresh)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeTokens(c, pair)
}

// Logout 注销登录
// @Summary 退出登录，access token 进入黑名单
// @Tags 认证
// @Security BearerAuth
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	if err := h.memberService.Logout(c.Request.Context(), middleware.AccessToken(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func writeTokens(c *gin.Context, pair token.Pair) {
	c.Header(token.HeaderAuthorization, "Bearer "+pair.AccessToken)
	c.Header(token.HeaderRefresh, pair.RefreshToken)
	response.Success(c, pair)
}
