package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/internal/repository"
)

type fakeServiceRepo struct {
	services  map[uuid.UUID]*model.Service
	listCalls int
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: map[uuid.UUID]*model.Service{}}
}

func (f *fakeServiceRepo) Create(_ context.Context, s *model.Service) error {
	f.services[s.ID] = s
	return nil
}

func (f *fakeServiceRepo) Get(_ context.Context, id uuid.UUID) (*model.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeServiceRepo) Update(_ context.Context, s *model.Service) error {
	if _, ok := f.services[s.ID]; !ok {
		return repository.ErrNotFound
	}
	f.services[s.ID] = s
	return nil
}

func (f *fakeServiceRepo) List(_ context.Context, status string) ([]*model.Service, error) {
	f.listCalls++
	var out []*model.Service
	for _, s := range f.services {
		if status == "" || s.Status == status {
			out = append(out, s)
		}
	}
	return out, nil
}

func create(t *testing.T, svc *Service) *model.Service {
	t.Helper()
	created, err := svc.Create(context.Background(), &model.CreateServiceRequest{
		Name:            "Hot Stone Massage",
		Description:     "90 minutes of warm basalt stones",
		DurationMinutes: 90,
		PriceCents:      12000,
	})
	require.NoError(t, err)
	return created
}

func TestCreate_ActiveByDefault(t *testing.T) {
	repo := newFakeServiceRepo()
	svc := NewService(repo)

	created := create(t, svc)
	assert.Equal(t, model.ServiceStatusActive, created.Status)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestListActive_ServedFromCache(t *testing.T) {
	repo := newFakeServiceRepo()
	svc := NewService(repo)
	create(t, svc)

	first, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	second, err := svc.ListActive(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listCalls)
}

func TestMutationsInvalidateCache(t *testing.T) {
	repo := newFakeServiceRepo()
	svc := NewService(repo)
	created := create(t, svc)

	_, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, repo.listCalls)

	require.NoError(t, svc.Deactivate(context.Background(), created.ID))

	services, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, services)
	assert.Equal(t, 2, repo.listCalls)
}

func TestUpdate_PartialFields(t *testing.T) {
	repo := newFakeServiceRepo()
	svc := NewService(repo)
	created := create(t, svc)

	newPrice := int64(14000)
	updated, err := svc.Update(context.Background(), created.ID, &model.UpdateServiceRequest{
		PriceCents: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, newPrice, updated.PriceCents)
	assert.Equal(t, "Hot Stone Massage", updated.Name)
	assert.Equal(t, 90, updated.DurationMinutes)
}

func TestDeactivate_KeepsRecord(t *testing.T) {
	repo := newFakeServiceRepo()
	svc := NewService(repo)
	created := create(t, svc)

	require.NoError(t, svc.Deactivate(context.Background(), created.ID))

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ServiceStatusInactive, got.Status)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
