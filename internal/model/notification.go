package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationStatusPending    NotificationStatus = "pending"
	NotificationStatusProcessing NotificationStatus = "processing"
	NotificationStatusSent       NotificationStatus = "sent"
	NotificationStatusFailed     NotificationStatus = "failed"
	NotificationStatusRetrying   NotificationStatus = "retrying"
)

// Notification channels
const (
	ChannelEmail = "email"
	ChannelInApp = "in_app"
)

// Notification is a fire-and-forget message for a user, written as a side
// effect of appointment status changes and inquiry responses.
type Notification struct {
	Base
	UserID      uuid.UUID          `db:"user_id" json:"user_id"`
	Type        string             `db:"type" json:"type"`
	Channel     string             `db:"channel" json:"channel"`
	Recipient   string             `db:"recipient" json:"recipient"`
	Subject     string             `db:"subject" json:"subject"`
	Content     string             `db:"content" json:"content"`
	Status      NotificationStatus `db:"status" json:"status"`
	ReadAt      *time.Time         `db:"read_at" json:"read_at,omitempty"`
	SentAt      *time.Time         `db:"sent_at" json:"sent_at,omitempty"`
	RetryCount  int                `db:"retry_count" json:"-"`
	LastError   *string            `db:"last_error" json:"-"`
	NextRetryAt *time.Time         `db:"next_retry_at" json:"-"`
}

// NotificationEvent is the payload published to the in-app channel.
type NotificationEvent struct {
	ID             uuid.UUID `json:"id"`
	NotificationID uuid.UUID `json:"notification_id"`
	UserID         uuid.UUID `json:"user_id"`
	Type           string    `json:"type"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
