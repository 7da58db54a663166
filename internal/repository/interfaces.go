package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/serenityspa/wellness-api/internal/model"
)

// Sentinel errors surfaced by repositories for service-level branching.
var (
	ErrNotFound       = errors.New("record not found")
	ErrSlotTaken      = errors.New("time slot already booked")
	ErrDuplicateEmail = errors.New("email already registered")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountAppointments(ctx context.Context, userID uuid.UUID) (int, error)
}

type TherapistRepository interface {
	Create(ctx context.Context, therapist *model.Therapist) error
	Get(ctx context.Context, id uuid.UUID) (*model.Therapist, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Therapist, error)
	Update(ctx context.Context, therapist *model.Therapist) error
	ListActive(ctx context.Context) ([]*model.Therapist, error)
}

type ServiceRepository interface {
	Create(ctx context.Context, svc *model.Service) error
	Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
	Update(ctx context.Context, svc *model.Service) error
	List(ctx context.Context, status string) ([]*model.Service, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, apt *model.Appointment) error
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	BookedStartTimes(ctx context.Context, therapistID uuid.UUID, from, to time.Time) ([]time.Time, error)
}

type InquiryRepository interface {
	Create(ctx context.Context, inquiry *model.Inquiry) error
	Get(ctx context.Context, id uuid.UUID) (*model.Inquiry, error)
	Update(ctx context.Context, inquiry *model.Inquiry) error
	List(ctx context.Context, filters *model.InquiryFilters) ([]*model.Inquiry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	Update(ctx context.Context, n *model.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	// ClaimPending marks due rows as processing and returns them, so that
	// concurrent dispatchers never deliver the same notification twice.
	ClaimPending(ctx context.Context, limit int) ([]*model.Notification, error)
}

type TokenRepository interface {
	StoreResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	ValidateResetToken(ctx context.Context, token string) (uuid.UUID, error)
	InvalidateResetToken(ctx context.Context, token string) error
}

type ReportRepository interface {
	AppointmentsByStatus(ctx context.Context, from, to time.Time) ([]*model.StatusCount, error)
	RevenueByService(ctx context.Context, from, to time.Time) ([]*model.ServiceRevenue, error)
	TherapistWorkload(ctx context.Context, from, to time.Time) ([]*model.TherapistLoad, error)
}
