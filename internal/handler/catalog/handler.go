package catalog

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serenityspa/wellness-api/internal/middleware"
	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/internal/repository"
	"github.com/serenityspa/wellness-api/internal/service/catalog"
	"github.com/serenityspa/wellness-api/pkg/errors"
	"github.com/serenityspa/wellness-api/pkg/httputil"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublicRoutes mounts the browsable catalog.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/services", h.ListActive)
	rg.GET("/services/:id", h.Get)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	services := rg.Group("/services", middleware.RequireRole(model.RoleAdmin))
	{
		services.POST("", h.Create)
		services.GET("/all", h.ListAll)
		services.PUT("/:id", h.Update)
		services.DELETE("/:id", h.Deactivate)
	}
}

func (h *Handler) ListActive(c *gin.Context) {
	services, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, services)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid service id", err))
		return
	}

	svc, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, svc)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid request", err))
		return
	}

	svc, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithCreated(c, svc)
}

func (h *Handler) ListAll(c *gin.Context) {
	services, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, services)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid service id", err))
		return
	}

	var req model.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid request", err))
		return
	}

	svc, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, svc)
}

func (h *Handler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid service id", err))
		return
	}

	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "service deactivated"})
}

func mapError(err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound("service", err)
	}
	return errors.Internal(err)
}
