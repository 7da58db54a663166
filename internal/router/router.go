package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/serenityspa/wellness-api/config"
	appointmenthandler "github.com/serenityspa/wellness-api/internal/handler/appointment"
	authhandler "github.com/serenityspa/wellness-api/internal/handler/auth"
	cataloghandler "github.com/serenityspa/wellness-api/internal/handler/catalog"
	healthhandler "github.com/serenityspa/wellness-api/internal/handler/health"
	inquiryhandler "github.com/serenityspa/wellness-api/internal/handler/inquiry"
	notificationhandler "github.com/serenityspa/wellness-api/internal/handler/notification"
	reporthandler "github.com/serenityspa/wellness-api/internal/handler/report"
	therapisthandler "github.com/serenityspa/wellness-api/internal/handler/therapist"
	userhandler "github.com/serenityspa/wellness-api/internal/handler/user"
	"github.com/serenityspa/wellness-api/internal/middleware"
	"github.com/serenityspa/wellness-api/pkg/auth"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health       *healthhandler.Handler
	Auth         *authhandler.Handler
	User         *userhandler.Handler
	Therapist    *therapisthandler.Handler
	Catalog      *cataloghandler.Handler
	Appointment  *appointmenthandler.Handler
	Inquiry      *inquiryhandler.Handler
	Notification *notificationhandler.Handler
	Report       *reporthandler.Handler
}

func New(cfg *config.Config, jwtSvc auth.JWTService, h Handlers) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.Security.AllowedOrigins))
	r.Use(middleware.Timeout(30 * time.Second))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}

	h.Health.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	// Public surface: auth, browsing, slot lookup, contact form.
	public := v1.Group("", middleware.OptionalAuth(jwtSvc))
	h.Auth.RegisterRoutes(public)
	h.Therapist.RegisterPublicRoutes(public)
	h.Catalog.RegisterPublicRoutes(public)
	h.Appointment.RegisterPublicRoutes(public)
	h.Inquiry.RegisterPublicRoutes(public)

	// Everything else requires a valid token.
	protected := v1.Group("", middleware.Auth(jwtSvc))
	h.User.RegisterRoutes(protected)
	h.Therapist.RegisterRoutes(protected)
	h.Catalog.RegisterRoutes(protected)
	h.Appointment.RegisterRoutes(protected)
	h.Inquiry.RegisterRoutes(protected)
	h.Notification.RegisterRoutes(protected)
	h.Report.RegisterRoutes(protected)

	return r
}
