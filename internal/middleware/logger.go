package middleware

import (
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/config"
	"estate_leads_backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

// ZapLogger tags each request with an id, stores a request-scoped logger under
// common.LoggerKey and writes one access line once the handler chain returns.
func ZapLogger(logger *zap.Logger, cfg *config.Config) gin.HandlerFunc {
	quietHealth := cfg.GinMode == gin.ReleaseMode

	return func(c *gin.Context) {
		started := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set(common.RequestIDKey, requestID)
		reqLogger := logger.With(zap.String("request_id", requestID))
		c.Set(common.LoggerKey, reqLogger)

		c.Next()

		status := c.Writer.Status()
		fields := accessFields(c, status, time.Since(started))

		switch {
		case status >= 500:
			reqLogger.Error("Request failed", fields...)
		case status >= 400:
			reqLogger.Warn("Request rejected", fields...)
		case quietHealth && c.Request.URL.Path == "/health":
			reqLogger.Debug("Health check", fields...)
		default:
			reqLogger.Info("Request served", fields...)
		}
	}
}

func accessFields(c *gin.Context, status int, latency time.Duration) []zap.Field {
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Duration("latency", latency),
		zap.String("client_ip", c.ClientIP()),
		zap.Int("bytes", c.Writer.Size()),
	}
	// Route template, e.g. /api/admin/agents/:id; empty on 404.
	if route := c.FullPath(); route != "" {
		fields = append(fields, zap.String("route", route))
	}
	if raw := c.Request.URL.RawQuery; raw != "" {
		fields = append(fields, zap.String("query", raw))
	}
	if s, ok := session.FromGin(c); ok {
		fields = append(fields, zap.Stringer("profile_id", s.ProfileID), zap.String("role", s.Role))
	}
	for _, e := range c.Errors.ByType(gin.ErrorTypePrivate) {
		fields = append(fields, zap.NamedError("error", e.Err))
	}
	return fields
}
