// Package response renders the JSON envelope shared by every endpoint.
package response

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/recipe-social/pkg/logger"
)

// Response 统一响应结构
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func JSON(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Code: status, Message: message, Data: data})
}

func Success(c *gin.Context, data any) {
	JSON(c, http.StatusOK, "success", data)
}

func Created(c *gin.Context, data any) {
	JSON(c, http.StatusCreated, "created", data)
}

func Accepted(c *gin.Context, data any) {
	JSON(c, http.StatusAccepted, "accepted", data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func BadRequest(c *gin.Context, message string) {
	JSON(c, http.StatusBadRequest, message, nil)
}

func Unauthorized(c *gin.Context, message string) {
	JSON(c, http.StatusUnauthorized, message, nil)
}

func Forbidden(c *gin.Context, message string) {
	JSON(c, http.StatusForbidden, message, nil)
}

func NotFound(c *gin.Context, message string) {
	JSON(c, http.StatusNotFound, message, nil)
}

func Conflict(c *gin.Context, message string) {
	JSON(c, http.StatusConflict, message, nil)
}

func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests,
		Response{Code: http.StatusTooManyRequests, Message: "too many requests"})
}

// InternalError 记录日志并上报 Sentry，不向客户端暴露内部错误
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	} else if sentry.CurrentHub().Client() != nil {
		sentry.CaptureException(err)
	}
	JSON(c, http.StatusInternalServerError, "internal server error", nil)
}
