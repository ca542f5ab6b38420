package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/recipe-social/internal/api/middleware"
	"github.com/d60-Lab/recipe-social/internal/service"
	"github.com/d60-Lab/recipe-social/pkg/response"
)

type rateRequest struct {
	Score  int    `json:"score" binding:"required,min=1,max=5"`
	Review string `json:"review" binding:"max=2000"`
}

// PublishRecipe 发布菜谱
// @Summary 创建菜谱（is_published=true 时通知粉丝）
// @Tags 菜谱
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.RecipeInput true "菜谱"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/recipes [post]
func (h *Handler) PublishRecipe(c *gin.Context) {
	var in service.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	rec, err := h.activity.PublishRecipe(c.Request.Context(), middleware.ActorID(c), in)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Created(c, rec)
}

// RateRecipe 评分
// @Summary 给菜谱评分（重复评分覆盖）
// @Tags 菜谱
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "菜谱ID"
// @Param request body rateRequest true "评分"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/recipes/{id}/rate [post]
func (h *Handler) RateRecipe(c *gin.Context) {
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	rt, err := h.activity.Rate(c.Request.Context(), middleware.ActorID(c), c.Param("id"), req.Score, req.Review)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, rt)
}

// FavoriteRecipe 收藏
// @Summary 收藏菜谱
// @Tags 菜谱
// @Produce json
// @Security BearerAuth
// @Param id path string true "菜谱ID"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/recipes/{id}/favorite [post]
func (h *Handler) FavoriteRecipe(c *gin.Context) {
	fav, err := h.activity.Favorite(c.Request.Context(), middleware.ActorID(c), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Created(c, fav)
}

// UnfavoriteRecipe 取消收藏
// @Summary 取消收藏
// @Tags 菜谱
// @Security BearerAuth
// @Param id path string true "菜谱ID"
// @Success 204
// @Router /api/v1/recipes/{id}/favorite [delete]
func (h *Handler) UnfavoriteRecipe(c *gin.Context) {
	if err := h.activity.Unfavorite(c.Request.Context(), middleware.ActorID(c), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	response.NoContent(c)
}
