package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/internal/repository"
)

func (r *therapistRepository) Create(ctx context.Context, therapist *model.Therapist) error {
	query := `
		INSERT INTO therapists (
			id, user_id, specialization, bio, experience_years,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	therapist.CreatedAt = time.Now()
	therapist.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		therapist.ID,
		therapist.UserID,
		therapist.Specialization,
		therapist.Bio,
		therapist.ExperienceYears,
		therapist.CreatedAt,
		therapist.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create therapist: %w", err)
	}
	return nil
}

func (r *therapistRepository) Get(ctx context.Context, id uuid.UUID) (*model.Therapist, error) {
	query := `
		SELECT t.id, t.user_id, t.specialization, t.bio, t.experience_years,
			   t.created_at, t.updated_at, u.name, u.email
		FROM therapists t
		JOIN users u ON u.id = t.user_id
		WHERE t.id = $1
	`
	var therapist model.Therapist
	err := r.db.GetContext(ctx, &therapist, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get therapist: %w", err)
	}
	return &therapist, nil
}

func (r *therapistRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Therapist, error) {
	query := `
		SELECT t.id, t.user_id, t.specialization, t.bio, t.experience_years,
			   t.created_at, t.updated_at, u.name, u.email
		FROM therapists t
		JOIN users u ON u.id = t.user_id
		WHERE t.user_id = $1
	`
	var therapist model.Therapist
	err := r.db.GetContext(ctx, &therapist, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get therapist by user: %w", err)
	}
	return &therapist, nil
}

func (r *therapistRepository) Update(ctx context.Context, therapist *model.Therapist) error {
	query := `
		UPDATE therapists
		SET specialization = $1, bio = $2, experience_years = $3, updated_at = $4
		WHERE id = $5
	`
	therapist.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		therapist.Specialization,
		therapist.Bio,
		therapist.ExperienceYears,
		therapist.UpdatedAt,
		therapist.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update therapist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *therapistRepository) ListActive(ctx context.Context) ([]*model.Therapist, error) {
	query := `
		SELECT t.id, t.user_id, t.specialization, t.bio, t.experience_years,
			   t.created_at, t.updated_at, u.name, u.email
		FROM therapists t
		JOIN users u ON u.id = t.user_id
		WHERE u.status = $1
		ORDER BY u.name ASC
	`
	var therapists []*model.Therapist
	err := r.db.SelectContext(ctx, &therapists, query, model.UserStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list therapists: %w", err)
	}
	return therapists, nil
}
