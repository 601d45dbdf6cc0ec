package agent

import (
	"io"
	"net/http"
	"strconv"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/triage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler serves GET /agents.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/agents", h.listAgents)
}

func (h *Handler) listAgents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	agents, err := h.service.ListApproved(c.Request.Context(), limit)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "agents", agents)
}

type AdminHandler struct {
	service AdminService
	logger  *zap.Logger
}

func NewAdminHandler(service AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: logger}
}

func (h *AdminHandler) RegisterRoutes(admin *gin.RouterGroup) {
	group := admin.Group("/agents")
	{
		group.GET("", h.listAgents)
		group.POST("", h.createAgent)
		group.GET("/:id", h.getAgent)
		group.PUT("/:id", h.updateAgent)
		group.DELETE("/:id", h.deleteAgent)
	}
}

func agentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid agent ID format."))
		return uuid.Nil, false
	}
	return id, true
}

func (h *AdminHandler) listAgents(c *gin.Context) {
	agents, err := h.service.List(c.Request.Context(), triage.ParseQuery(c, FilterKeys...))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "agents", agents)
}

func (h *AdminHandler) getAgent(c *gin.Context) {
	id, ok := agentID(c)
	if !ok {
		return
	}
	agent, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "agent", agent)
}

func (h *AdminHandler) createAgent(c *gin.Context) {
	var req AgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	agent, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusCreated, "agent", agent)
}

func (h *AdminHandler) updateAgent(c *gin.Context) {
	id, ok := agentID(c)
	if !ok {
		return
	}
	patch, err := io.ReadAll(c.Request.Body)
	if err != nil || len(patch) == 0 {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Request body is required."))
		return
	}
	agent, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "agent", agent)
}

func (h *AdminHandler) deleteAgent(c *gin.Context) {
	id, ok := agentID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
