package notification

import (
	"fmt"
	"net/http"
	"slices"

	"estate_leads_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler serves the admin lead feed.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the feed on the admin group.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	group := admin.Group("/notifications")
	group.GET("", h.getNotifications)
	group.PATCH("/read-all", h.markAllAsRead)
	group.PATCH("/:id/read", h.markAsRead)
}

func (h *Handler) getNotifications(c *gin.Context) {
	pr := common.ParsePageRequest(c)
	filter := ListFilter{UnreadOnly: c.Query("unread") == "true", Kind: Kind(c.Query("kind"))}
	if filter.Kind != "" && !slices.Contains(Kinds, filter.Kind) {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(fmt.Sprintf("Unknown notification kind '%s'.", filter.Kind)))
		return
	}

	notifications, pagination, err := h.service.List(c.Request.Context(), filter, pr.Page, pr.PageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Notifications retrieved successfully.", notifications, pagination)
}

func (h *Handler) markAsRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid notification ID format."))
		return
	}
	if err := h.service.MarkAsRead(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, "Notification marked as read successfully.", nil)
}

func (h *Handler) markAllAsRead(c *gin.Context) {
	count, err := h.service.MarkAllAsRead(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "All notifications marked as read successfully.", gin.H{"updated": count})
}
