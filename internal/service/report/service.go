package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/internal/repository"
)

var ErrInvalidRange = errors.New("invalid report range")

type Service struct {
	repo repository.ReportRepository
}

func NewService(repo repository.ReportRepository) *Service {
	return &Service{repo: repo}
}

// normalizeRange defaults to the last 30 days and makes the upper bound
// exclusive of the following midnight.
func normalizeRange(r *model.ReportRange) (time.Time, time.Time, error) {
	from := r.From
	to := r.To

	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}

	// Midnight in the range's own location; Truncate would round on UTC
	// day boundaries.
	next := to.AddDate(0, 0, 1)
	to = time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, next.Location())
	return from, to, nil
}

func (s *Service) AppointmentsByStatus(ctx context.Context, r *model.ReportRange) ([]*model.StatusCount, error) {
	from, to, err := normalizeRange(r)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.AppointmentsByStatus(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get status counts: %w", err)
	}
	return counts, nil
}

func (s *Service) RevenueByService(ctx context.Context, r *model.ReportRange) ([]*model.ServiceRevenue, error) {
	from, to, err := normalizeRange(r)
	if err != nil {
		return nil, err
	}

	revenue, err := s.repo.RevenueByService(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get service revenue: %w", err)
	}
	return revenue, nil
}

func (s *Service) TherapistWorkload(ctx context.Context, r *model.ReportRange) ([]*model.TherapistLoad, error) {
	from, to, err := normalizeRange(r)
	if err != nil {
		return nil, err
	}

	workload, err := s.repo.TherapistWorkload(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get therapist workload: %w", err)
	}
	return workload, nil
}
