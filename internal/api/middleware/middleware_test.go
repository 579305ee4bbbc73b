package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/feedmock/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	r := gin.New()
	r.Use(Auth("s3cret"))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextUserID)) })

	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Bearer garbage").Code)

	bad, err := jwt.GenerateToken("4", "other", time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Bearer "+bad).Code)

	good, err := jwt.GenerateToken("4", "s3cret", time.Hour)
	assert.NoError(t, err)
	w := serve(r, "Bearer "+good)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4", w.Body.String())
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(0.001, 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "").Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Logger(), Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := serve(r, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}
