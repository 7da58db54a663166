package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/serenityspa/wellness-api/internal/model"
)

func (r *reportRepository) AppointmentsByStatus(ctx context.Context, from, to time.Time) ([]*model.StatusCount, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM appointments
		WHERE start_time >= $1 AND start_time < $2
		GROUP BY status
		ORDER BY status
	`
	var counts []*model.StatusCount
	err := r.db.SelectContext(ctx, &counts, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count appointments by status: %w", err)
	}
	return counts, nil
}

func (r *reportRepository) RevenueByService(ctx context.Context, from, to time.Time) ([]*model.ServiceRevenue, error) {
	query := `
		SELECT s.id AS service_id, s.name AS service_name,
			   COUNT(a.id) AS appointments,
			   COALESCE(SUM(s.price_cents), 0) AS revenue_cents
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		WHERE a.status = 'completed'
		AND a.start_time >= $1 AND a.start_time < $2
		GROUP BY s.id, s.name
		ORDER BY revenue_cents DESC
	`
	var revenue []*model.ServiceRevenue
	err := r.db.SelectContext(ctx, &revenue, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to compute service revenue: %w", err)
	}
	return revenue, nil
}

func (r *reportRepository) TherapistWorkload(ctx context.Context, from, to time.Time) ([]*model.TherapistLoad, error) {
	query := `
		SELECT t.id AS therapist_id, u.name,
			   COUNT(a.id) AS appointments,
			   COUNT(a.id) FILTER (WHERE a.status = 'completed') AS completed,
			   COUNT(a.id) FILTER (WHERE a.status = 'canceled') AS canceled
		FROM therapists t
		JOIN users u ON u.id = t.user_id
		LEFT JOIN appointments a ON a.therapist_id = t.id
			AND a.start_time >= $1 AND a.start_time < $2
		GROUP BY t.id, u.name
		ORDER BY appointments DESC
	`
	var load []*model.TherapistLoad
	err := r.db.SelectContext(ctx, &load, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to compute therapist workload: %w", err)
	}
	return load, nil
}
