package question

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

// Handler serves /customer/questions. The group must be authenticated.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(customer *gin.RouterGroup) {
	customer.POST("/questions", h.ask)
	customer.GET("/questions", h.listMine)
}

func (h *Handler) ask(c *gin.Context) {
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
	q, err := h.service.Ask(c.Request.Context(), s.ProfileID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusCreated, "question", q)
}

func (h *Handler) listMine(c *gin.Context) {
	s, ok := session.FromGin(c)
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	questions, err := h.service.ListMine(c.Request.Context(), s.ProfileID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "questions", questions)
}

// AdminHandler serves /admin/questions.
type AdminHandler struct {
	service AdminService
	logger  *zap.Logger
}

func NewAdminHandler(service AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: logger}
}

func (h *AdminHandler) RegisterRoutes(admin *gin.RouterGroup) {
	group := admin.Group("/questions")
	{
		group.GET("", h.list)
		group.GET("/:id", h.get)
		group.PUT("/:id", h.update)
		group.DELETE("/:id", h.delete)
	}
}

func questionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid question ID format."))
		return uuid.Nil, false
	}
	return id, true
}

func (h *AdminHandler) list(c *gin.Context) {
	questions, err := h.service.List(c.Request.Context(), triage.ParseQuery(c, FilterKeys...))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "questions", questions)
}

func (h *AdminHandler) get(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	q, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "question", q)
}

func (h *AdminHandler) update(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	patch, err := io.ReadAll(c.Request.Body)
	if err != nil || len(patch) == 0 {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Request body is required."))
		return
	}
	q, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "question", q)
}

func (h *AdminHandler) delete(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
