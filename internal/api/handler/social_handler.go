package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/recipe-social/internal/api/middleware"
	"github.com/d60-Lab/recipe-social/internal/service"
	"github.com/d60-Lab/recipe-social/pkg/response"
)

// Follow 关注用户
// @Summary 关注用户（私密账号生成关注请求）
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param id path string true "目标用户ID"
// @Success 201 {object} response.Response{data=service.FollowResult} "已关注"
// @Success 202 {object} response.Response{data=service.FollowResult} "等待对方审批"
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/users/{id}/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	res, err := h.social.Follow(c.Request.Context(), middleware.ActorID(c), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	if res.Outcome == service.FollowPending {
		response.Accepted(c, res)
		return
	}
	response.Created(c, res)
}

// Unfollow 取消关注（同时撤回待审批的关注请求）
// @Summary 取消关注
// @Tags 关系链
// @Security BearerAuth
// @Param id path string true "目标用户ID"
// @Success 204
// @Router /api/v1/users/{id}/follow [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	if err := h.social.Unfollow(c.Request.Context(), middleware.ActorID(c), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	response.NoContent(c)
}

// ListFollowers 查询粉丝
// @Summary 查询粉丝列表
// @Tags 关系链
// @Produce json
// @Param id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	page, size := pageParams(c)
	res, err := h.social.ListFollowers(c.Request.Context(), c.Param("id"), page, size)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, res)
}

// ListFollowing 查询关注
// @Summary 查询关注列表
// @Tags 关系链
// @Produce json
// @Param id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	page, size := pageParams(c)
	res, err := h.social.ListFollowing(c.Request.Context(), c.Param("id"), page, size)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, res)
}

// ListFollowRequests 待我审批的关注请求
// @Summary 待审批的关注请求
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/users/me/follow-requests [get]
func (h *Handler) ListFollowRequests(c *gin.Context) {
	page, size := pageParams(c)
	res, err := h.social.ListPendingRequests(c.Request.Context(), middleware.ActorID(c), page, size)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, res)
}

// AcceptFollowRequest 通过关注请求
// @Summary 通过关注请求
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param id path string true "请求ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/follow-requests/{id}/accept [post]
func (h *Handler) AcceptFollowRequest(c *gin.Context) {
	req, err := h.social.AcceptRequest(c.Request.Context(), middleware.ActorID(c), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, req)
}

// RejectFollowRequest 拒绝关注请求
// @Summary 拒绝关注请求
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param id path string true "请求ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/follow-requests/{id}/reject [post]
func (h *Handler) RejectFollowRequest(c *gin.Context) {
	req, err := h.social.RejectRequest(c.Request.Context(), middleware.ActorID(c), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, req)
}

// Block 拉黑用户
// @Summary 拉黑用户（同时解除双方关注）
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param id path string true "目标用户ID"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/users/{id}/block [post]
func (h *Handler) Block(c *gin.Context) {
	b, err := h.social.Block(c.Request.Context(), middleware.ActorID(c), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Created(c, b)
}

// Unblock 取消拉黑
// @Summary 取消拉黑
// @Tags 关系链
// @Security BearerAuth
// @Param id path string true "目标用户ID"
// @Success 204
// @Router /api/v1/users/{id}/block [delete]
func (h *Handler) Unblock(c *gin.Context) {
	if err := h.social.Unblock(c.Request.Context(), middleware.ActorID(c), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	response.NoContent(c)
}

// Mute 静音用户
// @Summary 静音用户（不出现在动态流）
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param id path string true "目标用户ID"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/users/{id}/mute [post]
func (h *Handler) Mute(c *gin.Context) {
	m, err := h.social.Mute(c.Request.Context(), middleware.ActorID(c), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Created(c, m)
}

// Unmute 取消静音
// @Summary 取消静音
// @Tags 关系链
// @Security BearerAuth
// @Param id path string true "目标用户ID"
// @Success 204
// @Router /api/v1/users/{id}/mute [delete]
func (h *Handler) Unmute(c *gin.Context) {
	if err := h.social.Unmute(c.Request.Context(), middleware.ActorID(c), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	response.NoContent(c)
}

// ListBlocked 我拉黑的人
// @Summary 拉黑列表
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/users/me/blocked [get]
func (h *Handler) ListBlocked(c *gin.Context) {
	page, size := pageParams(c)
	res, err := h.social.ListBlocked(c.Request.Context(), middleware.ActorID(c), page, size)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, res)
}

// ListMuted 我静音的人
// @Summary 静音列表
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/users/me/muted [get]
func (h *Handler) ListMuted(c *gin.Context) {
	page, size := pageParams(c)
	res, err := h.social.ListMuted(c.Request.Context(), middleware.ActorID(c), page, size)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, res)
}
