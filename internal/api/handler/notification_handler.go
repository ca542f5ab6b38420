package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/recipe-social/internal/api/middleware"
	"github.com/d60-Lab/recipe-social/pkg/response"
)

// ListNotifications 我的通知
// @Summary 通知列表（新的在前）
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	page, size := pageParams(c)
	res, err := h.notifications.List(c.Request.Context(), middleware.ActorID(c), page, size)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, res)
}

// MarkNotificationRead 标记单条已读
// @Summary 标记通知已读
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Param id path string true "通知ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/notifications/{id}/read [post]
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	n, err := h.notifications.MarkRead(c.Request.Context(), middleware.ActorID(c), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, n)
}

// MarkAllNotificationsRead 全部已读
// @Summary 全部标记已读
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/notifications/read [post]
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	n, err := h.notifications.MarkAllRead(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"updated": n})
}

// UnreadCount 未读数
// @Summary 未读通知数
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/notifications/unread-count [get]
func (h *Handler) UnreadCount(c *gin.Context) {
	n, err := h.notifications.UnreadCount(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"count": n})
}
