package model

import (
	"github.com/google/uuid"
)

// Therapist is a profile extension of a user with the therapist role.
type Therapist struct {
	Base
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	Specialization  string    `json:"specialization" db:"specialization"`
	Bio             string    `json:"bio" db:"bio"`
	ExperienceYears int       `json:"experience_years" db:"experience_years"`

	// Joined from users
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

type UpdateTherapistRequest struct {
	Specialization  *string `json:"specialization"`
	Bio             *string `json:"bio" binding:"omitempty,max=2000"`
	ExperienceYears *int    `json:"experience_years" binding:"omitempty,min=0,max=80"`
}
