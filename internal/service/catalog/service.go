package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/internal/repository"
)

const (
	activeListKey = "services:active"
	cacheTTL      = 5 * time.Minute
)

// Service manages the bookable service catalog. The active list is read on
// every booking page load, so it sits behind a short in-process cache that
// mutations invalidate.
type Service struct {
	repo  repository.ServiceRepository
	cache *gocache.Cache
}

func NewService(repo repository.ServiceRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, 10*time.Minute),
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateServiceRequest) (*model.Service, error) {
	svc := &model.Service{
		Base:            model.Base{ID: uuid.New()},
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		Status:          model.ServiceStatusActive,
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	s.cache.Delete(activeListKey)
	return svc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return svc, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error) {
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.PriceCents != nil {
		svc.PriceCents = *req.PriceCents
	}
	if req.Status != nil {
		svc.Status = *req.Status
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	s.cache.Delete(activeListKey)
	return svc, nil
}

// Deactivate retires a service from the catalog without deleting it, so
// existing appointments keep their reference.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get service: %w", err)
	}

	svc.Status = model.ServiceStatusInactive
	if err := s.repo.Update(ctx, svc); err != nil {
		return fmt.Errorf("failed to deactivate service: %w", err)
	}

	s.cache.Delete(activeListKey)
	return nil
}

// ListActive returns the bookable catalog, served from cache when fresh.
func (s *Service) ListActive(ctx context.Context) ([]*model.Service, error) {
	if cached, found := s.cache.Get(activeListKey); found {
		return cached.([]*model.Service), nil
	}

	services, err := s.repo.List(ctx, model.ServiceStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	s.cache.Set(activeListKey, services, cacheTTL)
	return services, nil
}

// ListAll returns every service regardless of status, for admin views.
func (s *Service) ListAll(ctx context.Context) ([]*model.Service, error) {
	services, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}
