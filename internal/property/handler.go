package property

import (
	"io"
	"net/http"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/triage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler serves the public property routes.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/properties")
	{
		group.GET("", h.listProperties)
		group.GET("/search", h.searchProperties)
		group.GET("/:id", h.getProperty)
	}
}

func (h *Handler) listProperties(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), triage.ParseQuery(c, PublicFilterKeys...))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyedPage(c, "properties", page.Items, page.Pagination)
}

func (h *Handler) searchProperties(c *gin.Context) {
	q := triage.ParseQuery(c, PublicFilterKeys...)
	page, err := h.service.Search(c.Request.Context(), q.Search, q)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyedPage(c, "properties", page.Items, page.Pagination)
}

// getProperty accepts an id or a slug.
func (h *Handler) getProperty(c *gin.Context) {
	card, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "property", card)
}

// AdminHandler serves /api/admin/properties.
type AdminHandler struct {
	service AdminService
	logger  *zap.Logger
}

func NewAdminHandler(service AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: logger}
}

func (h *AdminHandler) RegisterRoutes(admin *gin.RouterGroup) {
	group := admin.Group("/properties")
	{
		group.GET("", h.listProperties)
		group.POST("", h.createProperty)
		group.POST("/bulk", h.bulk)
		group.GET("/:id", h.getProperty)
		group.PUT("/:id", h.updateProperty)
		group.PATCH("/:id/publish", h.publish)
		group.PATCH("/:id/feature", h.feature)
		group.DELETE("/:id", h.deleteProperty)
	}
}

func propertyID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid property ID format."))
		return uuid.Nil, false
	}
	return id, true
}

func (h *AdminHandler) listProperties(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), triage.ParseQuery(c, AdminFilterKeys...))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyedPage(c, "properties", page.Items, page.Pagination)
}

func (h *AdminHandler) getProperty(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}
	card, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "property", card)
}

func (h *AdminHandler) createProperty(c *gin.Context) {
	var card Card
	if err := c.ShouldBindJSON(&card); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	created, err := h.service.Create(c.Request.Context(), card)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusCreated, "property", created)
}

func (h *AdminHandler) updateProperty(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}
	patch, err := io.ReadAll(c.Request.Body)
	if err != nil || len(patch) == 0 {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Request body is required."))
		return
	}
	updated, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "property", updated)
}

func (h *AdminHandler) publish(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	card, err := h.service.SetPublished(c.Request.Context(), id, *req.Published)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "property", card)
}

func (h *AdminHandler) feature(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}
	var req FeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	card, err := h.service.SetFeatured(c.Request.Context(), id, *req.Featured)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "property", card)
}

func (h *AdminHandler) deleteProperty(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *AdminHandler) bulk(c *gin.Context) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	result, err := h.service.Bulk(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "bulk", result)
}
