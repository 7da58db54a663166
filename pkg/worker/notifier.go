package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/serenityspa/wellness-api/internal/email"
	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/internal/repository"
	"github.com/serenityspa/wellness-api/pkg/logger"
	"github.com/serenityspa/wellness-api/pkg/messaging"
	"github.com/serenityspa/wellness-api/pkg/metrics"
)

const notificationChannel = "notifications"

type NotifierConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// Notifier drains pending notification rows and delivers them over their
// channel (email via SMTP, in-app via the redis broker).
type Notifier struct {
	repo     repository.NotificationRepository
	emailSvc email.Service
	broker   messaging.Broker
	config   NotifierConfig
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewNotifier(
	repo repository.NotificationRepository,
	emailSvc email.Service,
	broker messaging.Broker,
	config NotifierConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Notifier {
	if config.BatchSize <= 0 {
		panic("BatchSize must be greater than 0")
	}
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}
	if config.RetryAttempts <= 0 {
		panic("RetryAttempts must be greater than 0")
	}

	return &Notifier{
		repo:     repo,
		emailSvc: emailSvc,
		broker:   broker,
		config:   config,
		logger:   logger,
		metrics:  metrics,
	}
}

func (n *Notifier) Start(ctx context.Context) {
	ticker := time.NewTicker(n.config.PollInterval)
	defer ticker.Stop()

	n.logger.Info("starting notification dispatcher")

	for {
		select {
		case <-ctx.Done():
			n.logger.Info("shutting down notification dispatcher")
			return
		case <-ticker.C:
			if err := n.processBatch(ctx); err != nil {
				n.logger.Error(err, "failed to process notification batch")
			}
		}
	}
}

func (n *Notifier) processBatch(ctx context.Context) error {
	timer := prometheus.NewTimer(n.metrics.DispatchLatency)
	defer timer.ObserveDuration()

	claimTimer := prometheus.NewTimer(n.metrics.DatabaseLatency.WithLabelValues("claim_pending"))
	batch, err := n.repo.ClaimPending(ctx, n.config.BatchSize)
	claimTimer.ObserveDuration()
	if err != nil {
		n.metrics.DatabaseOperations.WithLabelValues("claim_pending", "error").Inc()
		return fmt.Errorf("failed to claim pending notifications: %w", err)
	}
	n.metrics.DatabaseOperations.WithLabelValues("claim_pending", "success").Inc()

	if len(batch) == 0 {
		n.logger.Debug("no notifications due")
		return nil
	}

	for _, notification := range batch {
		if err := n.dispatch(ctx, notification); err != nil {
			n.logger.Error(err, "failed to dispatch notification",
				"notification_id", notification.ID.String(),
				"channel", notification.Channel)
			continue
		}
	}

	return nil
}

func (n *Notifier) dispatch(ctx context.Context, notification *model.Notification) error {
	err := retry(n.config.RetryAttempts, n.config.RetryDelay, func() error {
		n.metrics.DispatchRetries.WithLabelValues(notification.Channel).Inc()
		return n.deliver(ctx, notification)
	})

	if err != nil {
		n.metrics.NotificationsFailed.Inc()
		n.recordFailure(ctx, notification, err)
		return err
	}

	n.metrics.NotificationsDispatched.Inc()
	now := time.Now()
	notification.Status = model.NotificationStatusSent
	notification.SentAt = &now
	if err := n.repo.Update(ctx, notification); err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}

	return nil
}

func (n *Notifier) deliver(ctx context.Context, notification *model.Notification) error {
	switch notification.Channel {
	case model.ChannelEmail:
		return n.emailSvc.SendCustom(ctx, notification.Recipient, notification.Subject, notification.Content)
	case model.ChannelInApp:
		event := &model.NotificationEvent{
			ID:             uuid.New(),
			NotificationID: notification.ID,
			UserID:         notification.UserID,
			Type:           notification.Type,
			Content:        notification.Content,
			CreatedAt:      time.Now(),
		}
		if err := n.broker.Publish(ctx, notificationChannel, event); err != nil {
			n.metrics.RedisOperations.WithLabelValues("publish", "error").Inc()
			return err
		}
		n.metrics.RedisOperations.WithLabelValues("publish", "success").Inc()
		return nil
	default:
		return fmt.Errorf("unsupported channel: %s", notification.Channel)
	}
}

func (n *Notifier) recordFailure(ctx context.Context, notification *model.Notification, cause error) {
	notification.RetryCount++
	errStr := cause.Error()
	notification.LastError = &errStr

	if notification.RetryCount >= n.config.RetryAttempts {
		notification.Status = model.NotificationStatusFailed
		notification.NextRetryAt = nil
	} else {
		notification.Status = model.NotificationStatusRetrying
		next := time.Now().Add(n.config.RetryDelay * time.Duration(notification.RetryCount))
		notification.NextRetryAt = &next
	}

	if err := n.repo.Update(ctx, notification); err != nil {
		n.logger.Error(err, "failed to record notification failure",
			"notification_id", notification.ID.String())
	}
}

func retry(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return err
}
