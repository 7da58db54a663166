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

func (r *inquiryRepository) Create(ctx context.Context, inquiry *model.Inquiry) error {
	query := `
		INSERT INTO inquiries (
			id, user_id, name, email, subject, message,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	inquiry.CreatedAt = time.Now()
	inquiry.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		inquiry.ID,
		inquiry.UserID,
		inquiry.Name,
		inquiry.Email,
		inquiry.Subject,
		inquiry.Message,
		inquiry.CreatedAt,
		inquiry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create inquiry: %w", err)
	}
	return nil
}

func (r *inquiryRepository) Get(ctx context.Context, id uuid.UUID) (*model.Inquiry, error) {
	query := `
		SELECT id, user_id, name, email, subject, message,
			   response, responder_id, responded_at,
			   created_at, updated_at
		FROM inquiries
		WHERE id = $1
	`
	var inquiry model.Inquiry
	err := r.db.GetContext(ctx, &inquiry, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}
	return &inquiry, nil
}

func (r *inquiryRepository) Update(ctx context.Context, inquiry *model.Inquiry) error {
	query := `
		UPDATE inquiries
		SET response = $1, responder_id = $2, responded_at = $3, updated_at = $4
		WHERE id = $5
	`
	inquiry.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		inquiry.Response,
		inquiry.ResponderID,
		inquiry.RespondedAt,
		inquiry.UpdatedAt,
		inquiry.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update inquiry: %w", err)
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

func (r *inquiryRepository) List(ctx context.Context, filters *model.InquiryFilters) ([]*model.Inquiry, error) {
	query := `
		SELECT id, user_id, name, email, subject, message,
			   response, responder_id, responded_at,
			   created_at, updated_at
		FROM inquiries
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters.Answered != nil {
		if *filters.Answered {
			query += " AND response IS NOT NULL"
		} else {
			query += " AND response IS NULL"
		}
	}

	if filters.UserID != uuid.Nil {
		query += fmt.Sprintf(" AND user_id = $%d", argCount)
		args = append(args, filters.UserID)
		argCount++
	}

	query += " ORDER BY created_at DESC"

	var inquiries []*model.Inquiry
	err := r.db.SelectContext(ctx, &inquiries, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	return inquiries, nil
}

func (r *inquiryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM inquiries
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete inquiry: %w", err)
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
