package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	zlog "github.com/rs/zerolog/log"

	"github.com/serenityspa/wellness-api/config"
	"github.com/serenityspa/wellness-api/internal/email"
	"github.com/serenityspa/wellness-api/internal/repository/postgres"
	"github.com/serenityspa/wellness-api/pkg/logger"
	messagingredis "github.com/serenityspa/wellness-api/pkg/messaging/redis"
	"github.com/serenityspa/wellness-api/pkg/metrics"
	"github.com/serenityspa/wellness-api/pkg/worker"
)

// workerEnv configures the standalone dispatcher entirely from the
// environment so it can run without the API's config file.
type workerEnv struct {
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"wellness"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"wellness"`
	DBName     string `envconfig:"DB_NAME" default:"wellness"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	SMTPHost     string `envconfig:"SMTP_HOST" default:"localhost"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom     string `envconfig:"SMTP_FROM" default:"no-reply@serenityspa.example"`

	BatchSize     int           `envconfig:"NOTIFIER_BATCH_SIZE" default:"50"`
	PollInterval  time.Duration `envconfig:"NOTIFIER_POLL_INTERVAL" default:"15s"`
	RetryAttempts int           `envconfig:"NOTIFIER_RETRY_ATTEMPTS" default:"3"`
	RetryDelay    time.Duration `envconfig:"NOTIFIER_RETRY_DELAY" default:"5s"`
}

func main() {
	appLogger := logger.NewLogger(nil).WithFields(map[string]interface{}{
		"component": "worker",
	})

	var env workerEnv
	if err := envconfig.Process("", &env); err != nil {
		appLogger.Fatal(err, "failed to load environment")
	}

	db, err := postgres.NewDB(config.DatabaseConfig{
		Host:     env.DBHost,
		Port:     env.DBPort,
		User:     env.DBUser,
		Password: env.DBPassword,
		Name:     env.DBName,
		SSLMode:  env.DBSSLMode,
	})
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	zl := zlog.Logger
	broker, err := messagingredis.NewRedisBroker(messagingredis.Config{
		URL:        env.RedisURL,
		MaxRetries: 3,
		PoolSize:   5,
	}, &zl)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	emailSvc := email.NewGomailService(config.SMTPConfig{
		Host:     env.SMTPHost,
		Port:     env.SMTPPort,
		Username: env.SMTPUsername,
		Password: env.SMTPPassword,
		From:     env.SMTPFrom,
	})

	notifier := worker.NewNotifier(
		postgres.NewNotificationRepository(db),
		emailSvc,
		broker,
		worker.NotifierConfig{
			BatchSize:     env.BatchSize,
			PollInterval:  env.PollInterval,
			RetryAttempts: env.RetryAttempts,
			RetryDelay:    env.RetryDelay,
		},
		appLogger,
		metrics.NewMetrics("wellness", "worker"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifier.Start(ctx)
	appLogger.Info("worker stopped")
}
