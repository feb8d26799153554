package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/member-graph/internal/dto"
	"github.com/d60-Lab/member-graph/internal/service"
	"github.com/d60-Lab/member-graph/pkg/response"
)

// FollowMember 关注/取消关注（切换）
// @Summary 切换关注状态
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param memberId path int true "被关注会员ID"
// @Success 200 {object} dto.FollowResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/members/follow/{memberId} [post]
func (h *Handler) FollowMember(c *gin.Context) {
	id, ok := int64Param(c, "memberId")
	if !ok {
		return
	}
	following, err := h.memberService.FollowMember(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FollowResponse{MemberID: id, Following: following})
}

// FollowingList 我关注的人
// @Summary 查询关注列表（游标分页）
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param cursorId query int false "上一页最后一条的 followId"
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} response.Slice[model.FollowSummary]
// @Failure 400 {object} response.ErrorBody
// @Router /api/v1/members/following [get]
func (h *Handler) FollowingList(c *gin.Context) {
	cursor, size, ok := pageParams(c)
	if !ok {
		return
	}
	page, err := h.memberService.FollowingList(c.Request.Context(), cursor, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// FollowerList 关注我的人
// @Summary 查询粉丝列表（游标分页）
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param cursorId query int false "上一页最后一条的 followId"
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} response.Slice[model.FollowSummary]
// @Failure 400 {object} response.ErrorBody
// @Router /api/v1/members/follower [get]
func (h *Handler) FollowerList(c *gin.Context) {
	cursor, size, ok := pageParams(c)
	if !ok {
		return
	}
	page, err := h.memberService.FollowerList(c.Request.Context(), cursor, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func pageParams(c *gin.Context) (cursor int64, size int, ok bool) {
	if cursor, ok = int64Query(c, "cursorId", 0); !ok {
		return 0, 0, false
	}
	s, ok := int64Query(c, "size", service.DefaultPageSize)
	if !ok {
		return 0, 0, false
	}
	return cursor, int(s), true
}
