package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/internal/repository"
)

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (
			id, user_id, type, channel, recipient, subject, content, status,
			retry_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	n.CreatedAt = time.Now()
	n.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		n.Type,
		n.Channel,
		n.Recipient,
		n.Subject,
		n.Content,
		n.Status,
		n.RetryCount,
		n.CreatedAt,
		n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) Update(ctx context.Context, n *model.Notification) error {
	query := `
		UPDATE notifications
		SET status = $1, read_at = $2, sent_at = $3, retry_count = $4,
			last_error = $5, next_retry_at = $6, updated_at = $7
		WHERE id = $8
	`
	n.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		n.Status,
		n.ReadAt,
		n.SentAt,
		n.RetryCount,
		n.LastError,
		n.NextRetryAt,
		n.UpdatedAt,
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
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

func (r *notificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*model.Notification, error) {
	query := `
		SELECT id, user_id, type, channel, recipient, subject, content, status,
			   read_at, sent_at, retry_count, last_error, next_retry_at,
			   created_at, updated_at
		FROM notifications
		WHERE user_id = $1
	`
	if unreadOnly {
		query += " AND read_at IS NULL"
	}
	query += " ORDER BY created_at DESC"

	var notifications []*model.Notification
	err := r.db.SelectContext(ctx, &notifications, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	query := `
		UPDATE notifications
		SET read_at = $1, updated_at = $1
		WHERE id = $2 AND user_id = $3 AND read_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
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

// Rows stuck in 'processing' past this age are assumed orphaned by a
// crashed dispatcher and become claimable again.
const processingTimeout = 5 * time.Minute

// ClaimPending atomically moves up to limit due rows to 'processing' and
// returns them. The single statement keeps the row locks alive until the
// status flips, so concurrent dispatchers never claim the same rows.
func (r *notificationRepository) ClaimPending(ctx context.Context, limit int) ([]*model.Notification, error) {
	query := `
		UPDATE notifications
		SET status = 'processing', updated_at = $1
		WHERE id IN (
			SELECT id
			FROM notifications
			WHERE (status IN ('pending', 'retrying')
				   AND (next_retry_at IS NULL OR next_retry_at <= $1))
			   OR (status = 'processing' AND updated_at < $2)
			ORDER BY created_at ASC
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, user_id, type, channel, recipient, subject, content, status,
				  read_at, sent_at, retry_count, last_error, next_retry_at,
				  created_at, updated_at
	`
	now := time.Now()
	var notifications []*model.Notification
	err := r.db.SelectContext(ctx, &notifications, query, now, now.Add(-processingTimeout), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending notifications: %w", err)
	}
	return notifications, nil
}
