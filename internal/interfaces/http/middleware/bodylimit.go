package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopcore/backend/internal/interfaces/http/dto"
)

// BodyLimit caps the request body at maxBytes. Requests declaring a larger
// Content-Length are rejected up front; chunked bodies are capped while
// streaming via MaxBytesReader.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			resp := dto.NewErrorResponseWithRequestID(
				dto.ErrCodePayloadTooLarge,
				"Request body exceeds maximum allowed size",
				c.GetString(RequestIDKey),
			)
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
