package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/recipe-social/internal/api/middleware"
	"github.com/d60-Lab/recipe-social/internal/service"
	"github.com/d60-Lab/recipe-social/pkg/response"
)

// SearchUsers 搜索用户
// @Summary 按昵称或邮箱搜索用户
// @Tags 发现
// @Produce json
// @Security BearerAuth
// @Param q query string true "关键词（至少两个字符）"
// @Param limit query int false "数量" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/users/search [get]
func (h *Handler) SearchUsers(c *gin.Context) {
	res, err := h.discovery.Search(c.Request.Context(), middleware.ActorID(c), c.Query("q"),
		queryInt(c, "limit", service.DefaultDiscoveryLimit))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"results": res})
}

// PopularUsers 热门用户
// @Summary 按粉丝数排序的热门用户
// @Tags 发现
// @Produce json
// @Param limit query int false "数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/users/popular [get]
func (h *Handler) PopularUsers(c *gin.Context) {
	res, err := h.discovery.Popular(c.Request.Context(), middleware.ActorID(c),
		queryInt(c, "limit", service.DefaultDiscoveryLimit))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"results": res})
}

// SuggestedUsers 可能认识的人
// @Summary 关注的人所关注的人
// @Tags 发现
// @Produce json
// @Security BearerAuth
// @Param limit query int false "数量" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/users/suggested [get]
func (h *Handler) SuggestedUsers(c *gin.Context) {
	res, err := h.discovery.Suggested(c.Request.Context(), middleware.ActorID(c),
		queryInt(c, "limit", service.DefaultDiscoveryLimit))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"results": res})
}
