package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenityspa/wellness-api/internal/model"
)

type fakeReportRepo struct {
	from, to time.Time
}

func (f *fakeReportRepo) AppointmentsByStatus(_ context.Context, from, to time.Time) ([]*model.StatusCount, error) {
	f.from, f.to = from, to
	return []*model.StatusCount{{Status: model.AppointmentStatusPending, Count: 2}}, nil
}

func (f *fakeReportRepo) RevenueByService(_ context.Context, from, to time.Time) ([]*model.ServiceRevenue, error) {
	f.from, f.to = from, to
	return nil, nil
}

func (f *fakeReportRepo) TherapistWorkload(_ context.Context, from, to time.Time) ([]*model.TherapistLoad, error) {
	f.from, f.to = from, to
	return nil, nil
}

func TestAppointmentsByStatus_ExplicitRange(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := NewService(repo)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	counts, err := svc.AppointmentsByStatus(context.Background(), &model.ReportRange{From: from, To: to})
	require.NoError(t, err)
	require.Len(t, counts, 1)

	assert.Equal(t, from, repo.from)
	// Upper bound becomes exclusive of the following midnight.
	assert.True(t, repo.to.After(to))
}

func TestRange_UpperBoundIsLocalMidnight(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := NewService(repo)

	zone := time.FixedZone("UTC+7", 7*60*60)
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, zone)
	to := time.Date(2026, 8, 15, 16, 30, 0, 0, zone)

	_, err := svc.AppointmentsByStatus(context.Background(), &model.ReportRange{From: from, To: to})
	require.NoError(t, err)

	want := time.Date(2026, 8, 16, 0, 0, 0, 0, zone)
	assert.True(t, repo.to.Equal(want), "got %v, want %v", repo.to, want)
}

func TestRange_DefaultsToLastThirtyDays(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := NewService(repo)

	_, err := svc.RevenueByService(context.Background(), &model.ReportRange{})
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now().AddDate(0, 0, -30), repo.from, time.Minute)
	assert.True(t, repo.to.After(time.Now()))
}

func TestRange_FromAfterToRejected(t *testing.T) {
	svc := NewService(&fakeReportRepo{})

	_, err := svc.TherapistWorkload(context.Background(), &model.ReportRange{
		From: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}
