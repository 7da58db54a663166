package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/pkg/logger"
	"github.com/serenityspa/wellness-api/pkg/metrics"
)

// Prometheus collectors register globally, so the package shares one set.
var testMetrics = metrics.NewMetrics("wellness_test", "worker")

type fakeNotificationRepo struct {
	pending []*model.Notification
	updated []*model.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	f.pending = append(f.pending, n)
	return nil
}

func (f *fakeNotificationRepo) Update(_ context.Context, n *model.Notification) error {
	cp := *n
	f.updated = append(f.updated, &cp)
	return nil
}

func (f *fakeNotificationRepo) ListForUser(_ context.Context, _ uuid.UUID, _ bool) ([]*model.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, _, _ uuid.UUID) error { return nil }

// ClaimPending mirrors the real repository: claimed rows flip to
// processing and are no longer claimable.
func (f *fakeNotificationRepo) ClaimPending(_ context.Context, limit int) ([]*model.Notification, error) {
	var claimed, rest []*model.Notification
	for _, n := range f.pending {
		if len(claimed) < limit &&
			(n.Status == model.NotificationStatusPending || n.Status == model.NotificationStatusRetrying) {
			n.Status = model.NotificationStatusProcessing
			claimed = append(claimed, n)
			continue
		}
		rest = append(rest, n)
	}
	f.pending = rest
	return claimed, nil
}

type fakeEmailService struct {
	sent []string
	err  error
}

func (f *fakeEmailService) SendPasswordReset(_ context.Context, _, _ string) error { return nil }
func (f *fakeEmailService) SendWelcome(_ context.Context, _, _ string) error       { return nil }

func (f *fakeEmailService) SendCustom(_ context.Context, to, _, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeBroker struct {
	published []string
	err       error
}

func (f *fakeBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, channel)
	return nil
}

func (f *fakeBroker) Subscribe(_ context.Context, _ string) (<-chan []byte, error) {
	return nil, nil
}

func (f *fakeBroker) Close() error { return nil }

func pendingNotification(channel string) *model.Notification {
	return &model.Notification{
		Base:      model.Base{ID: uuid.New()},
		UserID:    uuid.New(),
		Type:      "appointment_confirmed",
		Channel:   channel,
		Recipient: "client@example.com",
		Subject:   "Appointment confirmed",
		Content:   "See you soon.",
		Status:    model.NotificationStatusPending,
	}
}

func newTestNotifier(repo *fakeNotificationRepo, emailSvc *fakeEmailService, broker *fakeBroker) *Notifier {
	return NewNotifier(repo, emailSvc, broker, NotifierConfig{
		BatchSize:     10,
		PollInterval:  time.Minute,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}, logger.NewLogger(nil), testMetrics)
}

func TestProcessBatch_DeliversBothChannels(t *testing.T) {
	repo := &fakeNotificationRepo{pending: []*model.Notification{
		pendingNotification(model.ChannelEmail),
		pendingNotification(model.ChannelInApp),
	}}
	emailSvc := &fakeEmailService{}
	broker := &fakeBroker{}

	n := newTestNotifier(repo, emailSvc, broker)
	require.NoError(t, n.processBatch(context.Background()))

	assert.Equal(t, []string{"client@example.com"}, emailSvc.sent)
	assert.Equal(t, []string{notificationChannel}, broker.published)

	require.Len(t, repo.updated, 2)
	for _, u := range repo.updated {
		assert.Equal(t, model.NotificationStatusSent, u.Status)
		assert.NotNil(t, u.SentAt)
	}
}

func TestProcessBatch_FailureScheduledForRetry(t *testing.T) {
	repo := &fakeNotificationRepo{pending: []*model.Notification{
		pendingNotification(model.ChannelEmail),
	}}
	emailSvc := &fakeEmailService{err: errors.New("smtp down")}

	n := newTestNotifier(repo, emailSvc, &fakeBroker{})
	require.NoError(t, n.processBatch(context.Background()))

	require.Len(t, repo.updated, 1)
	failed := repo.updated[0]
	assert.Equal(t, model.NotificationStatusRetrying, failed.Status)
	assert.Equal(t, 1, failed.RetryCount)
	require.NotNil(t, failed.LastError)
	assert.Contains(t, *failed.LastError, "smtp down")
	assert.NotNil(t, failed.NextRetryAt)
}

func TestProcessBatch_ExhaustedRetriesMarkFailed(t *testing.T) {
	notification := pendingNotification(model.ChannelEmail)
	notification.RetryCount = 1
	repo := &fakeNotificationRepo{pending: []*model.Notification{notification}}
	emailSvc := &fakeEmailService{err: errors.New("smtp down")}

	n := newTestNotifier(repo, emailSvc, &fakeBroker{})
	require.NoError(t, n.processBatch(context.Background()))

	require.Len(t, repo.updated, 1)
	failed := repo.updated[0]
	assert.Equal(t, model.NotificationStatusFailed, failed.Status)
	assert.Nil(t, failed.NextRetryAt)
}

func TestProcessBatch_ClaimedRowsNotRedelivered(t *testing.T) {
	repo := &fakeNotificationRepo{pending: []*model.Notification{
		pendingNotification(model.ChannelEmail),
	}}
	emailSvc := &fakeEmailService{}

	n := newTestNotifier(repo, emailSvc, &fakeBroker{})
	require.NoError(t, n.processBatch(context.Background()))
	require.NoError(t, n.processBatch(context.Background()))

	// The first pass claims and sends; the second finds nothing due.
	assert.Equal(t, []string{"client@example.com"}, emailSvc.sent)
	require.Len(t, repo.updated, 1)
	assert.Equal(t, model.NotificationStatusSent, repo.updated[0].Status)
}

func TestDeliver_UnknownChannel(t *testing.T) {
	n := newTestNotifier(&fakeNotificationRepo{}, &fakeEmailService{}, &fakeBroker{})

	err := n.deliver(context.Background(), pendingNotification("sms"))
	assert.Error(t, err)
}
