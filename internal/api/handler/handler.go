package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/member-graph/internal/service"
	"github.com/d60-Lab/member-graph/pkg/response"
)

// Handler HTTP 处理器
type Handler struct {
	memberService service.MemberService
	authService   service.AuthService
}

func NewHandler(memberService service.MemberService, authService service.AuthService) *Handler {
	return &Handler{memberService: memberService, authService: authService}
}

// Health 存活检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}

// int64Param 解析路径参数，失败时已写出 400
func int64Param(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

// int64Query 解析查询参数，缺省时返回 def
func int64Query(c *gin.Context, name string, def int64) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}
