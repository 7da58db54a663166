package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/internal/repository"
)

type fakeUserRepo struct {
	users        map[uuid.UUID]*model.User
	appointments map[uuid.UUID]int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:        map[uuid.UUID]*model.User{},
		appointments: map[uuid.UUID]int{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	for id, existing := range f.users {
		if existing.Email == u.Email && id != u.ID {
			return repository.ErrDuplicateEmail
		}
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, filters *model.UserFilters) ([]*model.User, error) {
	var out []*model.User
	for _, u := range f.users {
		if filters.Role != "" && u.Role != filters.Role {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) CountAppointments(_ context.Context, userID uuid.UUID) (int, error) {
	return f.appointments[userID], nil
}

func seedUser(repo *fakeUserRepo, email string) *model.User {
	u := &model.User{
		Base:   model.Base{ID: uuid.New()},
		Email:  email,
		Name:   "Some User",
		Role:   model.RoleClient,
		Status: model.UserStatusActive,
	}
	repo.users[u.ID] = u
	return u
}

func TestUpdate_PartialFields(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)
	u := seedUser(repo, "jane@example.com")

	name := "Jane Renamed"
	updated, err := svc.Update(context.Background(), u.ID, &model.UpdateUserRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Jane Renamed", updated.Name)
	assert.Equal(t, "jane@example.com", updated.Email)
}

func TestUpdate_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)
	seedUser(repo, "taken@example.com")
	u := seedUser(repo, "jane@example.com")

	email := "taken@example.com"
	_, err := svc.Update(context.Background(), u.ID, &model.UpdateUserRequest{Email: &email})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestDelete_NoHistoryRemovesRow(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)
	u := seedUser(repo, "jane@example.com")

	require.NoError(t, svc.Delete(context.Background(), u.ID))
	_, ok := repo.users[u.ID]
	assert.False(t, ok)
}

func TestDelete_WithBookingsDeactivatesInstead(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)
	u := seedUser(repo, "jane@example.com")
	repo.appointments[u.ID] = 3

	require.NoError(t, svc.Delete(context.Background(), u.ID))

	kept, ok := repo.users[u.ID]
	require.True(t, ok)
	assert.Equal(t, model.UserStatusInactive, kept.Status)
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
