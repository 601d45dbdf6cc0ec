package session

import (
	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/profile"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	verifier Verifier
	profiles profile.Service
	logger   *zap.Logger
}

func NewHandler(verifier Verifier, profiles profile.Service, logger *zap.Logger) *Handler {
	return &Handler{verifier: verifier, profiles: profiles, logger: logger}
}

// RegisterRoutes mounts /session under router. authMW must run first.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	group := router.Group("/session", authMW)
	{
		group.GET("/me", h.me)
		group.POST("/logout", h.logout)
	}
}

type meResponse struct {
	Session *Session                `json:"session"`
	Profile profile.ProfileResponse `json:"profile"`
}

func (h *Handler) me(c *gin.Context) {
	s, ok := FromGin(c)
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	p, err := h.profiles.GetByID(c.Request.Context(), s.ProfileID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Session retrieved.", meResponse{Session: s, Profile: profile.ToProfileResponse(p)})
}

func (h *Handler) logout(c *gin.Context) {
	s, ok := FromGin(c)
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	if err := h.verifier.Revoke(c.Request.Context(), s); err != nil {
		h.logger.Error("Failed to revoke session", zap.String("profileID", s.ProfileID.String()), zap.Error(err))
		common.RespondWithError(c, common.ErrServiceUnavailable.WithDetails("Could not end the session."))
		return
	}
	common.RespondOK(c, "Logged out.", nil)
}
