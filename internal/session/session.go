// Package session resolves the request-scoped caller identity. A Session is
// built per request by a Verifier and carried on the request context; there is
// no process-wide auth state.
package session

import (
	"context"
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/platform/database"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Session is the verified caller of one request.
type Session struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Provider  string    `json:"provider"`
	ExpiresAt time.Time `json:"expires_at"`

	// TokenID is the jwt jti, Subject the firebase uid.
	TokenID string `json:"-"`
	Subject string `json:"-"`
}

func (s *Session) IsAdmin() bool { return s != nil && s.Role == common.RoleAdmin }

// Tier is the credential tier the caller is entitled to.
func (s *Session) Tier() database.Tier {
	if s.IsAdmin() {
		return database.TierService
	}
	return database.TierPublic
}

type sessionKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// Attach stores s on both the gin context and the request context.
func Attach(c *gin.Context, s *Session) {
	c.Set(common.SessionKey, s)
	c.Request = c.Request.WithContext(NewContext(c.Request.Context(), s))
}

// FromGin returns the session of the current request, if any.
func FromGin(c *gin.Context) (*Session, bool) {
	if v, ok := c.Get(common.SessionKey); ok {
		if s, ok := v.(*Session); ok && s != nil {
			return s, true
		}
	}
	return FromContext(c.Request.Context())
}

// ProfileIDFromGin returns the caller's profile ID or nil for anonymous callers.
func ProfileIDFromGin(c *gin.Context) *uuid.UUID {
	s, ok := FromGin(c)
	if !ok {
		return nil
	}
	id := s.ProfileID
	return &id
}
