package interest

import (
	"encoding/json"
	"io"
	"net/http"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/triage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler serves the public capture and download routes.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/properties/:id/download-interests", h.capture)
	router.GET("/downloads/:token", h.download)
}

func (h *Handler) capture(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	captured, err := h.service.Capture(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, captured)
}

func (h *Handler) download(c *gin.Context) {
	target, err := h.service.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}

// AdminHandler serves /admin/download-interests.
type AdminHandler struct {
	service AdminService
	logger  *zap.Logger
}

func NewAdminHandler(service AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: logger}
}

func (h *AdminHandler) RegisterRoutes(admin *gin.RouterGroup) {
	group := admin.Group("/download-interests")
	{
		group.GET("", h.list)
		group.PUT("", h.updateByBody)
		group.GET("/:id", h.get)
		group.PUT("/:id", h.update)
		group.DELETE("/:id", h.delete)
	}
}

func interestID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid download interest ID format."))
		return uuid.Nil, false
	}
	return id, true
}

func (h *AdminHandler) list(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context(), triage.ParseQuery(c, FilterKeys...))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "download_interests", rows)
}

func (h *AdminHandler) get(c *gin.Context) {
	id, ok := interestID(c)
	if !ok {
		return
	}
	row, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "download_interest", row)
}

// updateByBody takes the id from the body: {"id": "...", "status": "contacted"}.
func (h *AdminHandler) updateByBody(c *gin.Context) {
	patch, err := io.ReadAll(c.Request.Body)
	if err != nil || len(patch) == 0 {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Request body is required."))
		return
	}
	var target StatusUpdate
	if err := json.Unmarshal(patch, &target); err != nil || target.ID == uuid.Nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("A valid id is required."))
		return
	}
	h.respondUpdate(c, target.ID, patch)
}

func (h *AdminHandler) update(c *gin.Context) {
	id, ok := interestID(c)
	if !ok {
		return
	}
	patch, err := io.ReadAll(c.Request.Body)
	if err != nil || len(patch) == 0 {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Request body is required."))
		return
	}
	h.respondUpdate(c, id, patch)
}

func (h *AdminHandler) respondUpdate(c *gin.Context, id uuid.UUID, patch []byte) {
	row, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "download_interest", row)
}

func (h *AdminHandler) delete(c *gin.Context) {
	id, ok := interestID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
