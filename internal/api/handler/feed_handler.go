package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/recipe-social/internal/api/middleware"
	"github.com/d60-Lab/recipe-social/internal/model"
	"github.com/d60-Lab/recipe-social/internal/service"
	"github.com/d60-Lab/recipe-social/pkg/response"
)

// GetFeed 个人动态流
// @Summary 关注的人的最新菜谱、评分、收藏
// @Tags 动态
// @Produce json
// @Security BearerAuth
// @Param order query string false "排序" default(chronological)
// @Param limit query int false "数量" default(50)
// @Success 200 {object} response.Response{data=[]service.FeedItem}
// @Failure 401 {object} response.Response
// @Router /api/v1/feed [get]
func (h *Handler) GetFeed(c *gin.Context) {
	order := model.FeedOrder(c.DefaultQuery("order", string(model.FeedOrderChronological)))
	items, err := h.feed.GetFeed(c.Request.Context(), middleware.ActorID(c), order,
		queryInt(c, "limit", service.DefaultFeedLimit))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, items)
}

// GetFeedPreferences 动态流偏好
// @Summary 查询动态流偏好（无记录时返回默认值）
// @Tags 动态
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.FeedPreference}
// @Router /api/v1/feed/preferences [get]
func (h *Handler) GetFeedPreferences(c *gin.Context) {
	p, err := h.feed.GetPreferences(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, p)
}

// UpdateFeedPreferences 修改动态流偏好
// @Summary 部分更新动态流偏好
// @Tags 动态
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.PreferencePatch true "偏好"
// @Success 200 {object} response.Response{data=model.FeedPreference}
// @Failure 400 {object} response.Response
// @Router /api/v1/feed/preferences [put]
func (h *Handler) UpdateFeedPreferences(c *gin.Context) {
	var patch service.PreferencePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.feed.UpdatePreferences(c.Request.Context(), middleware.ActorID(c), patch)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, p)
}
