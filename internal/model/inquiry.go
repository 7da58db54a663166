package model

import (
	"time"

	"github.com/google/uuid"
)

// Inquiry is a free-form contact message from a user or guest.
// A nil UserID means the inquiry came from an unauthenticated visitor.
type Inquiry struct {
	Base
	UserID      *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	Name        string     `db:"name" json:"name"`
	Email       string     `db:"email" json:"email"`
	Subject     string     `db:"subject" json:"subject"`
	Message     string     `db:"message" json:"message"`
	Response    *string    `db:"response" json:"response,omitempty"`
	ResponderID *uuid.UUID `db:"responder_id" json:"responder_id,omitempty"`
	RespondedAt *time.Time `db:"responded_at" json:"responded_at,omitempty"`
}

type CreateInquiryRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=255"`
	Message string `json:"message" binding:"required,max=5000"`
}

type RespondInquiryRequest struct {
	Response string `json:"response" binding:"required,max=5000"`
}

type InquiryFilters struct {
	Answered *bool
	UserID   uuid.UUID
}
