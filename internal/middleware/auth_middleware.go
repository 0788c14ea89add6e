package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akarpenko/studyflow/internal/app/models/dto"
)

const apiKeyHeader = "X-API-Key"

// AuthMiddleware guards mutating routes with a static API key.
type AuthMiddleware struct {
	apiKey string
}

// NewAuthMiddleware creates a new auth middleware instance
func NewAuthMiddleware(apiKey string) *AuthMiddleware {
	return &AuthMiddleware{apiKey: apiKey}
}

// RequireAPIKey rejects requests whose X-API-Key header does not match the
// configured key.
func (m *AuthMiddleware) RequireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(apiKeyHeader)
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(m.apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.APIResponse{
				Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Invalid or missing API key"),
			})
			return
		}

		c.Next()
	}
}
