// File: internal/common/context_helpers.go
package common

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BearerToken returns the token of an "Authorization: Bearer <token>" header, or
// "" when the header is missing or uses another scheme.
func BearerToken(c *gin.Context) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(c.GetHeader(AuthorizationHeader)), " ")
	if !ok || !strings.EqualFold(scheme, AuthorizationTypeBearer) {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequestLogger returns the logger the logging middleware tagged with the
// request ID, or fallback outside a logged request.
func RequestLogger(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if v, ok := c.Get(LoggerKey); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return fallback
}
