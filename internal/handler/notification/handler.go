package notification

import (
	stderrors "errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serenityspa/wellness-api/internal/middleware"
	"github.com/serenityspa/wellness-api/internal/repository"
	"github.com/serenityspa/wellness-api/internal/service/notification"
	"github.com/serenityspa/wellness-api/pkg/errors"
	"github.com/serenityspa/wellness-api/pkg/httputil"
)

type Handler struct {
	svc *notification.Service
}

func NewHandler(svc *notification.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.POST("/:id/read", h.MarkRead)
	}
}

func (h *Handler) List(c *gin.Context) {
	unreadOnly := false
	if v := c.Query("unread"); v != "" {
		unreadOnly, _ = strconv.ParseBool(v)
	}

	notifications, err := h.svc.ListForUser(c.Request.Context(), middleware.UserID(c), unreadOnly)
	if err != nil {
		httputil.RespondWithError(c, errors.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, notifications)
}

func (h *Handler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid notification id", err))
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			httputil.RespondWithError(c, errors.NotFound("notification", err))
			return
		}
		httputil.RespondWithError(c, errors.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "notification marked read"})
}
