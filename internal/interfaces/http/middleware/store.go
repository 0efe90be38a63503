package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/infrastructure/logger"
)

// Keys used to carry store identity through gin.Context
const (
	StoreIDKey     = "store_id"
	StoreHeaderKey = "X-Store-ID"
)

// StoreValidator checks that a store exists and is active
type StoreValidator interface {
	ValidateStore(storeID string) error
}

// StoreMiddlewareConfig holds configuration for store middleware
type StoreMiddlewareConfig struct {
	// SkipPaths are paths that don't require store context (e.g. health check)
	SkipPaths []string
	// Required determines if store context is mandatory
	Required bool
	// Validator is an optional validator to check if the store exists
	Validator StoreValidator
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultStoreConfig returns default store middleware configuration
func DefaultStoreConfig() StoreMiddlewareConfig {
	return StoreMiddlewareConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/api/v1/health"},
		Required:  true,
	}
}

// StoreMiddleware extracts the store ID from the X-Store-ID header
func StoreMiddleware() gin.HandlerFunc {
	return StoreMiddlewareWithConfig(DefaultStoreConfig())
}

// StoreMiddlewareWithConfig returns store middleware with custom configuration
func StoreMiddlewareWithConfig(cfg StoreMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		storeID := c.GetHeader(StoreHeaderKey)

		if storeID != "" {
			if _, err := uuid.Parse(storeID); err != nil {
				respondUnauthorized(c, "Invalid store ID format")
				return
			}
		}

		if storeID == "" && cfg.Required {
			respondUnauthorized(c, "Store identification required")
			return
		}

		if storeID != "" && cfg.Validator != nil {
			if err := cfg.Validator.ValidateStore(storeID); err != nil {
				if cfg.Logger != nil {
					cfg.Logger.Warn("Store validation failed",
						zap.String("store_id", storeID),
						zap.Error(err),
					)
				}
				respondUnauthorized(c, "Invalid or inactive store")
				return
			}
		}

		if storeID != "" {
			c.Set(StoreIDKey, storeID)

			// Propagate through the request context for the service layer
			ctx := c.Request.Context()
			log := logger.FromContext(ctx)
			ctx, _ = logger.WithStoreID(ctx, log, storeID)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// OptionalStoreMiddleware creates middleware that doesn't require a store
func OptionalStoreMiddleware() gin.HandlerFunc {
	cfg := DefaultStoreConfig()
	cfg.Required = false
	return StoreMiddlewareWithConfig(cfg)
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetStoreID retrieves the store ID from gin.Context
func GetStoreID(c *gin.Context) string {
	if storeID, exists := c.Get(StoreIDKey); exists {
		if sid, ok := storeID.(string); ok {
			return sid
		}
	}
	return ""
}

// GetStoreUUID retrieves the store ID as UUID from gin.Context
func GetStoreUUID(c *gin.Context) (uuid.UUID, error) {
	storeID := GetStoreID(c)
	if storeID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(storeID)
}
