package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/feedmock/pkg/jwt"
	"github.com/d60-Lab/feedmock/pkg/response"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "user_id"

// Auth 校验 Bearer token，并把用户 ID 写入上下文
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		claims, err := jwt.ParseToken(token, secret)
		if err != nil {
			response.Unauthorized(c, err.Error())
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}
