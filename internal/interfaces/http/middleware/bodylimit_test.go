package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/backend/internal/interfaces/http/dto"
)

func bodyLimitRouter(maxBytes int64) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(BodyLimit(maxBytes))
	router.POST("/movements", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/movements", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("passes a body within the limit", func(t *testing.T) {
		router := bodyLimitRouter(1024)

		req := httptest.NewRequest("POST", "/movements", strings.NewReader(`{"kind":"INBOUND"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects an oversized Content-Length with the error envelope", func(t *testing.T) {
		router := bodyLimitRouter(100)

		req := httptest.NewRequest("POST", "/movements", strings.NewReader(strings.Repeat("x", 200)))
		req.ContentLength = 200
		req.Header.Set(RequestIDKey, "req-9")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodePayloadTooLarge, resp.Error.Code)
		assert.Equal(t, "req-9", resp.Error.RequestID)
	})

	t.Run("leaves bodyless requests alone", func(t *testing.T) {
		router := bodyLimitRouter(10)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/movements", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("caps chunked bodies while streaming", func(t *testing.T) {
		router := gin.New()
		router.Use(BodyLimit(50))
		router.POST("/movements", func(c *gin.Context) {
			buf := make([]byte, 200)
			if _, err := c.Request.Body.Read(buf); err != nil {
				c.String(http.StatusBadRequest, "body too large")
				return
			}
			c.String(http.StatusOK, "ok")
		})

		req := httptest.NewRequest("POST", "/movements", strings.NewReader(strings.Repeat("x", 100)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
