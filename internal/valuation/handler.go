package valuation

import (
	"io"
	"net/http"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/session"
	"estate_leads_backend/internal/triage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler serves /customer/valuations. The group must be authenticated.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(customer *gin.RouterGroup) {
	customer.POST("/valuations", h.request)
	customer.GET("/valuations", h.listMine)
}

func (h *Handler) request(c *gin.Context) {
	s, ok := session.FromGin(c)
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	v, err := h.service.Request(c.Request.Context(), s.ProfileID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusCreated, "valuation", v)
}

func (h *Handler) listMine(c *gin.Context) {
	s, ok := session.FromGin(c)
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	valuations, err := h.service.ListMine(c.Request.Context(), s.ProfileID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "valuations", valuations)
}

// AdminHandler serves /admin/valuations.
type AdminHandler struct {
	service AdminService
	logger  *zap.Logger
}

func NewAdminHandler(service AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: logger}
}

func (h *AdminHandler) RegisterRoutes(admin *gin.RouterGroup) {
	group := admin.Group("/valuations")
	{
		group.GET("", h.list)
		group.GET("/:id", h.get)
		group.PUT("/:id", h.update)
		group.DELETE("/:id", h.delete)
	}
}

func valuationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid valuation ID format."))
		return uuid.Nil, false
	}
	return id, true
}

func (h *AdminHandler) list(c *gin.Context) {
	valuations, err := h.service.List(c.Request.Context(), triage.ParseQuery(c, FilterKeys...))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "valuations", valuations)
}

func (h *AdminHandler) get(c *gin.Context) {
	id, ok := valuationID(c)
	if !ok {
		return
	}
	v, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "valuation", v)
}

func (h *AdminHandler) update(c *gin.Context) {
	id, ok := valuationID(c)
	if !ok {
		return
	}
	patch, err := io.ReadAll(c.Request.Body)
	if err != nil || len(patch) == 0 {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Request body is required."))
		return
	}
	v, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "valuation", v)
}

func (h *AdminHandler) delete(c *gin.Context) {
	id, ok := valuationID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
