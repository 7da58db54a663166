package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/internal/repository"
	authsvc "github.com/serenityspa/wellness-api/internal/service/auth"
	jwtauth "github.com/serenityspa/wellness-api/pkg/auth"
	"github.com/serenityspa/wellness-api/pkg/security"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
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
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, _ *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) CountAppointments(_ context.Context, _ uuid.UUID) (int, error) {
	return 0, nil
}

type fakeTokenRepo struct{}

func (fakeTokenRepo) StoreResetToken(_ context.Context, _ uuid.UUID, _ string, _ time.Time) error {
	return nil
}

func (fakeTokenRepo) ValidateResetToken(_ context.Context, _ string) (uuid.UUID, error) {
	return uuid.Nil, repository.ErrNotFound
}

func (fakeTokenRepo) InvalidateResetToken(_ context.Context, _ string) error {
	return nil
}

type fakeEmailService struct{}

func (fakeEmailService) SendPasswordReset(_ context.Context, _ string, _ string) error { return nil }
func (fakeEmailService) SendWelcome(_ context.Context, _ string, _ string) error       { return nil }
func (fakeEmailService) SendCustom(_ context.Context, _ string, _ string, _ string) error {
	return nil
}

func newTestRouter() (*gin.Engine, *fakeUserRepo) {
	gin.SetMode(gin.TestMode)

	users := newFakeUserRepo()
	jwtSvc := jwtauth.NewJWTService(jwtauth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
	})
	svc := authsvc.NewService(users, fakeTokenRepo{}, jwtSvc, security.NewBcryptHasher(4), fakeEmailService{})

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r, users
}

func postRegister(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister_ClientAccountCreated(t *testing.T) {
	r, users := newTestRouter()

	w := postRegister(r, `{
		"email": "jane@example.com",
		"password": "correct-horse",
		"first_name": "Jane",
		"last_name": "Doe"
	}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, users.users, 1)
	for _, u := range users.users {
		assert.Equal(t, model.RoleClient, u.Role)
	}
}

func TestRegister_TherapistRoleRejected(t *testing.T) {
	r, users := newTestRouter()

	w := postRegister(r, `{
		"email": "mallory@example.com",
		"password": "correct-horse",
		"first_name": "Mallory",
		"last_name": "Mal",
		"role": "therapist"
	}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, users.users)
}

func TestRegister_AdminRoleRejected(t *testing.T) {
	r, users := newTestRouter()

	w := postRegister(r, `{
		"email": "mallory@example.com",
		"password": "correct-horse",
		"first_name": "Mallory",
		"last_name": "Mal",
		"role": "admin"
	}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, users.users)
}

func TestRegister_ExplicitClientRoleAllowed(t *testing.T) {
	r, users := newTestRouter()

	w := postRegister(r, `{
		"email": "jane@example.com",
		"password": "correct-horse",
		"first_name": "Jane",
		"last_name": "Doe",
		"role": "client"
	}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, users.users, 1)
}
