package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/member-graph/internal/dto"
	"github.com/d60-Lab/member-graph/pkg/response"
)

// CreateMember 注册
// @Summary 会员注册
// @Tags 会员
// @Accept json
// @Param request body dto.MemberPost true "注册信息"
// @Success 201
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /api/v1/members [post]
func (h *Handler) CreateMember(c *gin.Context) {
	var req dto.MemberPost
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if _, err := h.memberService.CreateMember(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, nil)
}

// GetMyPage 我的主页
// @Summary 查询当前登录会员
// @Tags 会员
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MemberResponse
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/members/mypage [get]
func (h *Handler) GetMyPage(c *gin.Context) {
	m, err := h.memberService.MyPageInfo(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, m)
}

// GetMember 查询会员
// @Summary 查询会员
// @Tags 会员
// @Produce json
// @Param memberId path int true "会员ID"
// @Success 200 {object} dto.MemberResponse
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/members/{memberId} [get]
func (h *Handler) GetMember(c *gin.Context) {
	id, ok := int64Param(c, "memberId")
	if !ok {
		return
	}
	m, err := h.memberService.FindMember(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, m)
}

// PatchMember 修改资料
// @Summary 修改会员资料（仅本人）
// @Tags 会员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param memberId path int true "会员ID"
// @Param request body dto.MemberPatch true "资料"
// @Success 200 {object} dto.MemberResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/members/{memberId} [patch]
func (h *Handler) PatchMember(c *gin.Context) {
	id, ok := int64Param(c, "memberId")
	if !ok {
		return
	}
	var req dto.MemberPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.memberService.UpdateMember(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, m)
}

// DeleteMember 注销会员
// @Summary 删除会员（仅本人）
// @Tags 会员
// @Security BearerAuth
// @Param memberId path int true "会员ID"
// @Success 204
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/members/{memberId} [delete]
func (h *Handler) DeleteMember(c *gin.Context) {
	id, ok := int64Param(c, "memberId")
	if !ok {
		return
	}
	if err := h.memberService.DeleteMember(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
