package intake

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxUploadRequestBytes bounds one multipart upload request.
const maxUploadRequestBytes = 64 << 20

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the intake API. optionalAuth links drafts to signed-in
// customers without requiring a sign-in.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, optionalAuth gin.HandlerFunc) {
	group := router.Group("/intake", optionalAuth)
	{
		group.GET("/forms", h.listForms)
		group.GET("/forms/:form", h.getForm)
		group.POST("/forms/:form/sessions", h.startDraft)

		group.GET("/sessions/:id", h.getDraft)
		group.PATCH("/sessions/:id/values", h.setValues)
		group.POST("/sessions/:id/next", h.next)
		group.POST("/sessions/:id/previous", h.previous)
		group.POST("/sessions/:id/files/:field", h.attach)
		group.DELETE("/sessions/:id/files/:field/:index", h.removeAttachment)
		group.POST("/sessions/:id/submit", h.submit)
	}
}

func (h *Handler) listForms(c *gin.Context) {
	common.RespondOK(c, "Forms retrieved.", h.service.ListForms())
}

func (h *Handler) getForm(c *gin.Context) {
	f, err := h.service.GetForm(c.Param("form"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Form retrieved.", f)
}

func (h *Handler) startDraft(c *gin.Context) {
	view, err := h.service.StartDraft(c.Request.Context(), c.Param("form"), session.ProfileIDFromGin(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Intake session started.", view)
}

func draftID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid intake session ID format."))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) getDraft(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}
	view, err := h.service.GetDraft(c.Request.Context(), id, session.ProfileIDFromGin(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Intake session retrieved.", view)
}

type setValuesRequest struct {
	Values map[string]any `json:"values" binding:"required"`
}

func (h *Handler) setValues(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}
	var req setValuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	view, err := h.service.SetValues(c.Request.Context(), id, session.ProfileIDFromGin(c), req.Values)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Values saved.", view)
}

func (h *Handler) next(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}
	view, err := h.service.Next(c.Request.Context(), id, session.ProfileIDFromGin(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Moved to the next step.", view)
}

func (h *Handler) previous(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}
	view, err := h.service.Previous(c.Request.Context(), id, session.ProfileIDFromGin(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Moved to the previous step.", view)
}

func (h *Handler) attach(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadRequestBytes)
	form, err := c.MultipartForm()
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(fmt.Sprintf("Invalid multipart form: %v", err)))
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		common.RespondWithError(c, common.NewValidationAPIError(map[string]string{"files": "Select at least one file."}))
		return
	}

	uploads := make([]Upload, 0, len(headers))
	for _, fh := range headers {
		uploads = append(uploads, Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}

	result, err := h.service.Attach(c.Request.Context(), id, session.ProfileIDFromGin(c), c.Param("field"), uploads)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, fmt.Sprintf("%d file(s) attached, %d rejected.", len(result.Accepted), len(result.Rejected)), result)
}

func (h *Handler) removeAttachment(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid attachment index."))
		return
	}
	view, err := h.service.RemoveAttachment(c.Request.Context(), id, session.ProfileIDFromGin(c), c.Param("field"), index)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Attachment removed.", view)
}

func (h *Handler) submit(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}
	res := h.service.Submit(c.Request.Context(), id, session.ProfileIDFromGin(c))
	common.RespondResult(c, http.StatusCreated, res)
}
