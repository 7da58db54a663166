package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/serenityspa/wellness-api/config"
	"github.com/serenityspa/wellness-api/internal/email"
	appointmenthandler "github.com/serenityspa/wellness-api/internal/handler/appointment"
	authhandler "github.com/serenityspa/wellness-api/internal/handler/auth"
	cataloghandler "github.com/serenityspa/wellness-api/internal/handler/catalog"
	healthhandler "github.com/serenityspa/wellness-api/internal/handler/health"
	inquiryhandler "github.com/serenityspa/wellness-api/internal/handler/inquiry"
	notificationhandler "github.com/serenityspa/wellness-api/internal/handler/notification"
	reporthandler "github.com/serenityspa/wellness-api/internal/handler/report"
	therapisthandler "github.com/serenityspa/wellness-api/internal/handler/therapist"
	userhandler "github.com/serenityspa/wellness-api/internal/handler/user"
	"github.com/serenityspa/wellness-api/internal/repository/postgres"
	"github.com/serenityspa/wellness-api/internal/router"
	appointmentservice "github.com/serenityspa/wellness-api/internal/service/appointment"
	authservice "github.com/serenityspa/wellness-api/internal/service/auth"
	catalogservice "github.com/serenityspa/wellness-api/internal/service/catalog"
	inquiryservice "github.com/serenityspa/wellness-api/internal/service/inquiry"
	notificationservice "github.com/serenityspa/wellness-api/internal/service/notification"
	reportservice "github.com/serenityspa/wellness-api/internal/service/report"
	therapistservice "github.com/serenityspa/wellness-api/internal/service/therapist"
	userservice "github.com/serenityspa/wellness-api/internal/service/user"
	"github.com/serenityspa/wellness-api/pkg/auth"
	"github.com/serenityspa/wellness-api/pkg/logger"
	messagingredis "github.com/serenityspa/wellness-api/pkg/messaging/redis"
	"github.com/serenityspa/wellness-api/pkg/metrics"
	"github.com/serenityspa/wellness-api/pkg/security"
	"github.com/serenityspa/wellness-api/pkg/worker"
)

func main() {
	appLogger := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatal(err, "failed to load config")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	zl := zlog.Logger
	broker, err := messagingredis.NewRedisBroker(messagingredis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &zl)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	appMetrics := metrics.NewMetrics("wellness", "api")

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	therapistRepo := postgres.NewTherapistRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	inquiryRepo := postgres.NewInquiryRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)
	reportRepo := postgres.NewReportRepository(db)

	// Shared infrastructure
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})
	hasher := security.NewBcryptHasher(security.DefaultCost)
	emailSvc := email.NewGomailService(cfg.SMTP)

	// Services
	authSvc := authservice.NewService(userRepo, tokenRepo, jwtSvc, hasher, emailSvc)
	userSvc := userservice.NewService(userRepo)
	therapistSvc := therapistservice.NewService(therapistRepo, userRepo)
	catalogSvc := catalogservice.NewService(serviceRepo)
	appointmentSvc := appointmentservice.NewService(
		appointmentRepo, therapistRepo, serviceRepo, notificationRepo, userRepo,
		appointmentservice.BusinessHours{
			OpenHour:     cfg.Booking.OpenHour,
			CloseHour:    cfg.Booking.CloseHour,
			SlotInterval: time.Duration(cfg.Booking.SlotMinutes) * time.Minute,
			MinLeadTime:  time.Duration(cfg.Booking.MinLeadHours) * time.Hour,
			Horizon:      time.Duration(cfg.Booking.HorizonDays) * 24 * time.Hour,
		})
	inquirySvc := inquiryservice.NewService(inquiryRepo, notificationRepo, emailSvc)
	notificationSvc := notificationservice.NewService(notificationRepo)
	reportSvc := reportservice.NewService(reportRepo)

	engine := router.New(cfg, jwtSvc, router.Handlers{
		Health:       healthhandler.NewHandler(db),
		Auth:         authhandler.NewHandler(authSvc),
		User:         userhandler.NewHandler(userSvc),
		Therapist:    therapisthandler.NewHandler(therapistSvc),
		Catalog:      cataloghandler.NewHandler(catalogSvc),
		Appointment:  appointmenthandler.NewHandler(appointmentSvc, appMetrics),
		Inquiry:      inquiryhandler.NewHandler(inquirySvc),
		Notification: notificationhandler.NewHandler(notificationSvc),
		Report:       reporthandler.NewHandler(reportSvc),
	})

	// In-process notification dispatcher. A dedicated worker binary exists
	// for deployments that want it out of the request path.
	notifierCtx, stopNotifier := context.WithCancel(context.Background())
	notifier := worker.NewNotifier(notificationRepo, emailSvc, broker, worker.NotifierConfig{
		BatchSize:     cfg.Notifier.BatchSize,
		PollInterval:  cfg.Notifier.PollInterval,
		RetryAttempts: cfg.Notifier.RetryAttempts,
		RetryDelay:    cfg.Notifier.RetryDelay,
	}, appLogger, appMetrics)
	go notifier.Start(notifierCtx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err, "server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")
	stopNotifier()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error(err, "forced shutdown")
	}

	appLogger.Info("server stopped")
}
