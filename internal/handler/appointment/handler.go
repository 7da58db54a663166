package appointment

import (
	stderrors "errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serenityspa/wellness-api/internal/middleware"
	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/internal/repository"
	"github.com/serenityspa/wellness-api/internal/service/appointment"
	"github.com/serenityspa/wellness-api/pkg/errors"
	"github.com/serenityspa/wellness-api/pkg/httputil"
	"github.com/serenityspa/wellness-api/pkg/metrics"
)

const dateLayout = "2006-01-02"

type Handler struct {
	svc     *appointment.Service
	metrics *metrics.Metrics
}

func NewHandler(svc *appointment.Service, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, metrics: m}
}

// RegisterPublicRoutes mounts the endpoints available without a login.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/appointments/slots", h.AvailableSlots)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	appointments := rg.Group("/appointments")
	{
		appointments.POST("", h.Book)
		appointments.GET("", h.List)
		appointments.GET("/:id", h.Get)
		appointments.PATCH("/:id/status",
			middleware.RequireRole(model.RoleTherapist, model.RoleAdmin), h.UpdateStatus)
		appointments.POST("/:id/cancel", h.Cancel)
	}
}

// AvailableSlots returns open booking slots for a therapist on one date.
func (h *Handler) AvailableSlots(c *gin.Context) {
	therapistID, err := uuid.Parse(c.Query("therapist_id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid therapist_id", err))
		return
	}

	date, err := time.ParseInLocation(dateLayout, c.Query("date"), time.Local)
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("date must be YYYY-MM-DD", err))
		return
	}

	slots, err := h.svc.AvailableSlots(c.Request.Context(), therapistID, date)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}

	if slots == nil {
		slots = []model.TimeSlot{}
	}
	httputil.RespondWithSuccess(c, slots)
}

func (h *Handler) Book(c *gin.Context) {
	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.BookingsDenied.WithLabelValues("invalid_request").Inc()
		httputil.RespondWithError(c, errors.BadRequest("invalid request", err))
		return
	}

	apt, err := h.svc.Book(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		h.metrics.BookingsDenied.WithLabelValues(denialReason(err)).Inc()
		httputil.RespondWithError(c, mapError(err))
		return
	}

	h.metrics.BookingsCreated.Inc()
	httputil.RespondWithCreated(c, apt)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid appointment id", err))
		return
	}

	apt, err := h.svc.Get(c.Request.Context(), middleware.UserID(c), middleware.Role(c), id)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.AppointmentFilters{}
	if status := c.Query("status"); status != "" {
		filters.Status = model.AppointmentStatus(status)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.ParseInLocation(dateLayout, from, time.Local); err == nil {
			filters.StartDate = t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.ParseInLocation(dateLayout, to, time.Local); err == nil {
			filters.EndDate = t
		}
	}

	appointments, err := h.svc.List(c.Request.Context(), middleware.UserID(c), middleware.Role(c), filters)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid appointment id", err))
		return
	}

	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid request", err))
		return
	}

	apt, err := h.svc.UpdateStatus(c.Request.Context(), middleware.UserID(c), middleware.Role(c), id, &req)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid appointment id", err))
		return
	}

	var req model.CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid request", err))
		return
	}

	apt, err := h.svc.Cancel(c.Request.Context(), middleware.UserID(c), middleware.Role(c), id, req.Reason)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

func mapError(err error) error {
	switch {
	case stderrors.Is(err, repository.ErrNotFound):
		return errors.NotFound("appointment", err)
	case stderrors.Is(err, appointment.ErrSlotUnavailable),
		stderrors.Is(err, appointment.ErrIllegalTransition):
		return errors.Conflict(err.Error(), err)
	case stderrors.Is(err, appointment.ErrClosedDay),
		stderrors.Is(err, appointment.ErrTooSoon),
		stderrors.Is(err, appointment.ErrTooFarAhead),
		stderrors.Is(err, appointment.ErrInvalidStatus),
		stderrors.Is(err, appointment.ErrServiceInactive):
		return errors.BadRequest(err.Error(), err)
	case stderrors.Is(err, appointment.ErrAccessDenied):
		return errors.Forbidden("access denied", err)
	default:
		return errors.Internal(err)
	}
}

func denialReason(err error) string {
	switch {
	case stderrors.Is(err, appointment.ErrSlotUnavailable):
		return "slot_taken"
	case stderrors.Is(err, appointment.ErrClosedDay):
		return "closed_day"
	case stderrors.Is(err, appointment.ErrTooSoon):
		return "too_soon"
	case stderrors.Is(err, appointment.ErrTooFarAhead):
		return "too_far_ahead"
	case stderrors.Is(err, appointment.ErrServiceInactive):
		return "service_inactive"
	default:
		return "other"
	}
}
