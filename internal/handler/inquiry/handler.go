package inquiry

import (
	stderrors "errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serenityspa/wellness-api/internal/middleware"
	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/internal/repository"
	"github.com/serenityspa/wellness-api/internal/service/inquiry"
	"github.com/serenityspa/wellness-api/pkg/errors"
	"github.com/serenityspa/wellness-api/pkg/httputil"
)

type Handler struct {
	svc *inquiry.Service
}

func NewHandler(svc *inquiry.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublicRoutes mounts the contact endpoint, open to guests. When
// the caller carries a valid token the inquiry is linked to their account.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/inquiries", h.Create)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/inquiries/:id", h.Get)

	admin := rg.Group("/inquiries", middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("", h.List)
		admin.POST("/:id/respond", h.Respond)
		admin.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid request", err))
		return
	}

	var userID *uuid.UUID
	if id := middleware.UserID(c); id != uuid.Nil {
		userID = &id
	}

	inq, err := h.svc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithCreated(c, inq)
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.InquiryFilters{}
	if answered := c.Query("answered"); answered != "" {
		if v, err := strconv.ParseBool(answered); err == nil {
			filters.Answered = &v
		}
	}

	inquiries, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, inquiries)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid inquiry id", err))
		return
	}

	inq, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}

	// Admins see everything; other users only their own inquiries.
	if middleware.Role(c) != model.RoleAdmin {
		if inq.UserID == nil || *inq.UserID != middleware.UserID(c) {
			httputil.RespondWithError(c, errors.Forbidden("access denied", nil))
			return
		}
	}
	httputil.RespondWithSuccess(c, inq)
}

func (h *Handler) Respond(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid inquiry id", err))
		return
	}

	var req model.RespondInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid request", err))
		return
	}

	inq, err := h.svc.Respond(c.Request.Context(), middleware.UserID(c), id, req.Response)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, inq)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid inquiry id", err))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "inquiry deleted"})
}

func mapError(err error) error {
	switch {
	case stderrors.Is(err, repository.ErrNotFound):
		return errors.NotFound("inquiry", err)
	case stderrors.Is(err, inquiry.ErrAlreadyAnswered):
		return errors.Conflict(err.Error(), err)
	default:
		return errors.Internal(err)
	}
}
