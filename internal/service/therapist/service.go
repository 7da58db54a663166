package therapist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/internal/repository"
)

var ErrNotTherapist = errors.New("user does not have the therapist role")

type Service struct {
	repo     repository.TherapistRepository
	userRepo repository.UserRepository
}

func NewService(repo repository.TherapistRepository, userRepo repository.UserRepository) *Service {
	return &Service{repo: repo, userRepo: userRepo}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Therapist, error) {
	therapist, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get therapist: %w", err)
	}
	return therapist, nil
}

// GetOrCreateByUserID returns the profile for a therapist-role user,
// creating an empty one on first access. Registration does not create the
// profile row, so older accounts heal here too.
func (s *Service) GetOrCreateByUserID(ctx context.Context, userID uuid.UUID) (*model.Therapist, error) {
	therapist, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return therapist, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get therapist: %w", err)
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.Role != model.RoleTherapist {
		return nil, ErrNotTherapist
	}

	therapist = &model.Therapist{
		Base:   model.Base{ID: uuid.New()},
		UserID: userID,
		Name:   user.Name,
		Email:  user.Email,
	}
	if err := s.repo.Create(ctx, therapist); err != nil {
		// A concurrent request may have created it first.
		if existing, getErr := s.repo.GetByUserID(ctx, userID); getErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create therapist profile: %w", err)
	}

	log.Info().Str("user_id", userID.String()).Msg("created therapist profile on first access")
	return therapist, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateTherapistRequest) (*model.Therapist, error) {
	therapist, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get therapist: %w", err)
	}

	if req.Specialization != nil {
		therapist.Specialization = *req.Specialization
	}
	if req.Bio != nil {
		therapist.Bio = *req.Bio
	}
	if req.ExperienceYears != nil {
		therapist.ExperienceYears = *req.ExperienceYears
	}

	if err := s.repo.Update(ctx, therapist); err != nil {
		return nil, fmt.Errorf("failed to update therapist: %w", err)
	}
	return therapist, nil
}

// ListActive returns therapists whose linked user account is active.
func (s *Service) ListActive(ctx context.Context) ([]*model.Therapist, error) {
	therapists, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list therapists: %w", err)
	}
	return therapists, nil
}
