package inquiry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/serenityspa/wellness-api/internal/email"
	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/internal/repository"
)

var ErrAlreadyAnswered = errors.New("inquiry has already been answered")

type Service struct {
	repo      repository.InquiryRepository
	notifRepo repository.NotificationRepository
	emailSvc  email.Service
}

func NewService(repo repository.InquiryRepository, notifRepo repository.NotificationRepository, emailSvc email.Service) *Service {
	return &Service{repo: repo, notifRepo: notifRepo, emailSvc: emailSvc}
}

// Create records an inquiry. userID is nil for unauthenticated visitors.
func (s *Service) Create(ctx context.Context, userID *uuid.UUID, req *model.CreateInquiryRequest) (*model.Inquiry, error) {
	inquiry := &model.Inquiry{
		Base:    model.Base{ID: uuid.New()},
		UserID:  userID,
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}

	if err := s.repo.Create(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("failed to create inquiry: %w", err)
	}
	return inquiry, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Inquiry, error) {
	inquiry, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}
	return inquiry, nil
}

func (s *Service) List(ctx context.Context, filters *model.InquiryFilters) ([]*model.Inquiry, error) {
	inquiries, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	return inquiries, nil
}

// Respond stores an answer and notifies the inquirer. Registered users get
// an in-app notification; everyone gets the answer by email.
func (s *Service) Respond(ctx context.Context, responderID, id uuid.UUID, response string) (*model.Inquiry, error) {
	inquiry, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}
	if inquiry.Response != nil {
		return nil, ErrAlreadyAnswered
	}

	now := time.Now()
	inquiry.Response = &response
	inquiry.ResponderID = &responderID
	inquiry.RespondedAt = &now

	if err := s.repo.Update(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("failed to update inquiry: %w", err)
	}

	subject := "Re: " + inquiry.Subject
	if err := s.emailSvc.SendCustom(ctx, inquiry.Email, subject, response); err != nil {
		log.Warn().Err(err).Str("inquiry_id", inquiry.ID.String()).Msg("failed to email inquiry response")
	}

	if inquiry.UserID != nil {
		n := &model.Notification{
			Base:      model.Base{ID: uuid.New()},
			UserID:    *inquiry.UserID,
			Type:      "inquiry_response",
			Channel:   model.ChannelInApp,
			Recipient: inquiry.Email,
			Subject:   subject,
			Content:   response,
			Status:    model.NotificationStatusPending,
		}
		if err := s.notifRepo.Create(ctx, n); err != nil {
			log.Warn().Err(err).Str("inquiry_id", inquiry.ID.String()).Msg("failed to create inquiry notification")
		}
	}

	return inquiry, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete inquiry: %w", err)
	}
	return nil
}
