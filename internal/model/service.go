package model

// Service status constants
const (
	ServiceStatusActive   = "active"
	ServiceStatusInactive = "inactive"
)

// Service represents a bookable offering (massage, consultation, etc).
type Service struct {
	Base
	Name            string `json:"name" db:"name"`
	Description     string `json:"description" db:"description"`
	DurationMinutes int    `json:"duration_minutes" db:"duration_minutes"`
	PriceCents      int64  `json:"price_cents" db:"price_cents"`
	Status          string `json:"status" db:"status"`
}

type CreateServiceRequest struct {
	Name            string `json:"name" binding:"required,max=255"`
	Description     string `json:"description" binding:"max=2000"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=15,max=240"`
	PriceCents      int64  `json:"price_cents" binding:"required,min=0"`
}

type UpdateServiceRequest struct {
	Name            *string `json:"name" binding:"omitempty,max=255"`
	Description     *string `json:"description" binding:"omitempty,max=2000"`
	DurationMinutes *int    `json:"duration_minutes" binding:"omitempty,min=15,max=240"`
	PriceCents      *int64  `json:"price_cents" binding:"omitempty,min=0"`
	Status          *string `json:"status" binding:"omitempty,oneof=active inactive"`
}
