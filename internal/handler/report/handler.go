package report

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"github.com/serenityspa/wellness-api/internal/middleware"
	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/internal/service/report"
	"github.com/serenityspa/wellness-api/pkg/errors"
	"github.com/serenityspa/wellness-api/pkg/httputil"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports", middleware.RequireRole(model.RoleAdmin))
	{
		reports.GET("/appointments", h.AppointmentsByStatus)
		reports.GET("/revenue", h.RevenueByService)
		reports.GET("/therapists", h.TherapistWorkload)
	}
}

func (h *Handler) AppointmentsByStatus(c *gin.Context) {
	r, ok := bindRange(c)
	if !ok {
		return
	}

	counts, err := h.svc.AppointmentsByStatus(c.Request.Context(), r)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, counts)
}

func (h *Handler) RevenueByService(c *gin.Context) {
	r, ok := bindRange(c)
	if !ok {
		return
	}

	revenue, err := h.svc.RevenueByService(c.Request.Context(), r)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, revenue)
}

func (h *Handler) TherapistWorkload(c *gin.Context) {
	r, ok := bindRange(c)
	if !ok {
		return
	}

	workload, err := h.svc.TherapistWorkload(c.Request.Context(), r)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, workload)
}

func bindRange(c *gin.Context) (*model.ReportRange, bool) {
	var r model.ReportRange
	if err := c.ShouldBindQuery(&r); err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid date range, use YYYY-MM-DD", err))
		return nil, false
	}
	return &r, true
}

func mapError(err error) error {
	if stderrors.Is(err, report.ErrInvalidRange) {
		return errors.BadRequest(err.Error(), err)
	}
	return errors.Internal(err)
}
