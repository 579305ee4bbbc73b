package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/feedmock/config"
	"github.com/d60-Lab/feedmock/internal/api/middleware"
	"github.com/d60-Lab/feedmock/internal/repository"
	"github.com/d60-Lab/feedmock/internal/service"
	"github.com/d60-Lab/feedmock/internal/store"
	"github.com/d60-Lab/feedmock/pkg/response"
)

// Handler HTTP 处理器集合
type Handler struct {
	feedService service.FeedService
	users       repository.UserRepository
	auth        config.AuthConfig
}

func NewHandler(feedService service.FeedService, users repository.UserRepository, auth config.AuthConfig) *Handler {
	return &Handler{feedService: feedService, users: users, auth: auth}
}

// fail 将服务层错误映射为 HTTP 状态码
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrCommentOutOfRange), errors.Is(err, service.ErrEmptyContents):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

// actingAs reports whether the request may act as userID. Without the auth
// middleware every request may act as anyone.
func (h *Handler) actingAs(c *gin.Context, userID string) bool {
	subject, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return true
	}
	if subject != userID {
		response.Forbidden(c, "token does not belong to user "+userID)
		return false
	}
	return true
}
