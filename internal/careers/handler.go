package careers

import (
	"io"
	"net/http"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/triage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler serves /careers/jobs.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/careers/jobs")
	{
		group.GET("", h.listJobs)
		group.GET("/:id", h.getJob)
	}
}

func (h *Handler) listJobs(c *gin.Context) {
	jobs, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "jobs", jobs)
}

// getJob accepts an id or a slug.
func (h *Handler) getJob(c *gin.Context) {
	job, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "job", job)
}

// AdminHandler serves /admin/jobs and /admin/applications.
type AdminHandler struct {
	service AdminService
	logger  *zap.Logger
}

func NewAdminHandler(service AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: logger}
}

func (h *AdminHandler) RegisterRoutes(admin *gin.RouterGroup) {
	jobs := admin.Group("/jobs")
	{
		jobs.GET("", h.listJobs)
		jobs.POST("", h.createJob)
		jobs.PUT("/:id", h.updateJob)
		jobs.DELETE("/:id", h.deleteJob)
	}
	applications := admin.Group("/applications")
	{
		applications.GET("", h.listApplications)
		applications.PUT("/:id", h.updateApplication)
		applications.DELETE("/:id", h.deleteApplication)
	}
}

func pathID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid "+what+" ID format."))
		return uuid.Nil, false
	}
	return id, true
}

func readPatch(c *gin.Context) ([]byte, bool) {
	patch, err := io.ReadAll(c.Request.Body)
	if err != nil || len(patch) == 0 {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Request body is required."))
		return nil, false
	}
	return patch, true
}

func (h *AdminHandler) listJobs(c *gin.Context) {
	jobs, err := h.service.ListPostings(c.Request.Context(), triage.ParseQuery(c, PostingFilterKeys...))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "jobs", jobs)
}

func (h *AdminHandler) createJob(c *gin.Context) {
	var req PostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	job, err := h.service.CreatePosting(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusCreated, "job", job)
}

func (h *AdminHandler) updateJob(c *gin.Context) {
	id, ok := pathID(c, "job posting")
	if !ok {
		return
	}
	patch, ok := readPatch(c)
	if !ok {
		return
	}
	job, err := h.service.UpdatePosting(c.Request.Context(), id, patch)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "job", job)
}

func (h *AdminHandler) deleteJob(c *gin.Context) {
	id, ok := pathID(c, "job posting")
	if !ok {
		return
	}
	if err := h.service.DeletePosting(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *AdminHandler) listApplications(c *gin.Context) {
	apps, err := h.service.ListApplications(c.Request.Context(), triage.ParseQuery(c, ApplicationFilterKeys...))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "applications", apps)
}

func (h *AdminHandler) updateApplication(c *gin.Context) {
	id, ok := pathID(c, "application")
	if !ok {
		return
	}
	patch, ok := readPatch(c)
	if !ok {
		return
	}
	app, err := h.service.UpdateApplication(c.Request.Context(), id, patch)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondKeyed(c, http.StatusOK, "application", app)
}

func (h *AdminHandler) deleteApplication(c *gin.Context) {
	id, ok := pathID(c, "application")
	if !ok {
		return
	}
	if err := h.service.DeleteApplication(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
