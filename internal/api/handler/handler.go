package handler

import (
	"errors"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/recipe-social/internal/model"
	"github.com/d60-Lab/recipe-social/internal/service"
	"github.com/d60-Lab/recipe-social/pkg/response"
)

// Handler HTTP 处理器，持有各业务服务
type Handler struct {
	social        service.SocialGraphService
	discovery     service.DiscoveryService
	notifications service.NotificationService
	feed          service.FeedService
	activity      service.ActivityService
}

func NewHandler(
	social service.SocialGraphService,
	discovery service.DiscoveryService,
	notifications service.NotificationService,
	feed service.FeedService,
	activity service.ActivityService,
) *Handler {
	registerValidators()
	return &Handler{
		social:        social,
		discovery:     discovery,
		notifications: notifications,
		feed:          feed,
		activity:      activity,
	}
}

var validatorsOnce sync.Once

// registerValidators 注册自定义校验规则 feedorder
func registerValidators() {
	validatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("feedorder", func(fl validator.FieldLevel) bool {
				switch model.FeedOrder(fl.Field().String()) {
				case model.FeedOrderChronological, model.FeedOrderAlgorithmic:
					return true
				}
				return false
			})
		}
	})
}

// renderError 把业务错误映射为 HTTP 状态码
func renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSelfReference), errors.Is(err, service.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrAlreadyExists):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrAuthRequired):
		response.Unauthorized(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

func pageParams(c *gin.Context) (int, int) {
	return queryInt(c, "page", 1), queryInt(c, "page_size", service.DefaultPageSize)
}
