// File: internal/middleware/auth.go
package middleware

import (
	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/platform/database"
	"estate_leads_backend/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticate requires a valid bearer token and attaches the resolved session.
func Authenticate(verifier session.Verifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := common.BearerToken(c)
		if token == "" {
			logger.Debug("Bearer token missing", zap.String("path", c.Request.URL.Path))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		s, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Warn("Token verification failed", zap.Error(err))
			common.RespondWithError(c, err)
			return
		}
		session.Attach(c, s)

		logger.Debug("Session resolved",
			zap.String("profileID", s.ProfileID.String()),
			zap.String("role", s.Role),
		)
		c.Next()
	}
}

// OptionalAuth attaches a session when a valid bearer token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(verifier session.Verifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := common.BearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		s, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Debug("Ignoring invalid optional token", zap.Error(err))
			c.Next()
			return
		}
		session.Attach(c, s)
		c.Next()
	}
}

// RequireRole rejects sessions whose role is not listed.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session.FromGin(c)
		if !ok {
			common.RespondWithError(c, common.ErrUnauthorized)
			return
		}
		for _, role := range allowedRoles {
			if s.Role == role {
				c.Next()
				return
			}
		}
		common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
	}
}

// StampServiceTier marks the request context for the privileged database tier.
// It must run after RequireRole(common.RoleAdmin).
func StampServiceTier() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session.FromGin(c)
		if !ok || s.Tier() != database.TierService {
			common.RespondWithError(c, common.ErrForbidden)
			return
		}
		c.Request = c.Request.WithContext(database.WithTier(c.Request.Context(), database.TierService))
		c.Next()
	}
}
