package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/feedmock/internal/store"
	"github.com/d60-Lab/feedmock/pkg/jwt"
	"github.com/d60-Lab/feedmock/pkg/logger"
	"github.com/d60-Lab/feedmock/pkg/response"
)

type loginRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login 登录并签发 JWT
// @Summary 用户登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response{data=loginResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if h.auth.Secret == "" {
		response.Forbidden(c, "login is disabled")
		return
	}

	user, err := h.users.Get(c.Request.Context(), req.UserID)
	if errors.Is(err, store.ErrNotFound) {
		response.Unauthorized(c, "invalid user or password")
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		logger.Info("login rejected", zap.String("user", req.UserID))
		response.Unauthorized(c, "invalid user or password")
		return
	}

	token, err := jwt.GenerateToken(user.ID, h.auth.Secret, h.auth.TokenTTL)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, loginResponse{Token: token})
}

// Healthz 存活探针
func (h *Handler) Healthz(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
