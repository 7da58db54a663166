package therapist

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serenityspa/wellness-api/internal/middleware"
	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/internal/repository"
	"github.com/serenityspa/wellness-api/internal/service/therapist"
	"github.com/serenityspa/wellness-api/pkg/errors"
	"github.com/serenityspa/wellness-api/pkg/httputil"
)

type Handler struct {
	svc *therapist.Service
}

func NewHandler(svc *therapist.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublicRoutes mounts the browsable therapist directory.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/therapists", h.ListActive)
	rg.GET("/therapists/:id", h.Get)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/therapists/me", middleware.RequireRole(model.RoleTherapist), h.MyProfile)
	rg.PUT("/therapists/me", middleware.RequireRole(model.RoleTherapist), h.UpdateMyProfile)
	rg.PUT("/therapists/:id", middleware.RequireRole(model.RoleAdmin), h.Update)
}

func (h *Handler) ListActive(c *gin.Context) {
	therapists, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, therapists)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid therapist id", err))
		return
	}

	t, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, t)
}

// MyProfile returns the caller's therapist profile, creating it on first
// access.
func (h *Handler) MyProfile(c *gin.Context) {
	t, err := h.svc.GetOrCreateByUserID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, t)
}

func (h *Handler) UpdateMyProfile(c *gin.Context) {
	var req model.UpdateTherapistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid request", err))
		return
	}

	t, err := h.svc.GetOrCreateByUserID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), t.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid therapist id", err))
		return
	}

	var req model.UpdateTherapistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid request", err))
		return
	}

	t, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, t)
}

func mapError(err error) error {
	switch {
	case stderrors.Is(err, repository.ErrNotFound):
		return errors.NotFound("therapist", err)
	case stderrors.Is(err, therapist.ErrNotTherapist):
		return errors.Forbidden(err.Error(), err)
	default:
		return errors.Internal(err)
	}
}
