package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/internal/repository"
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

type fakeTokenRepo struct {
	tokens map[string]uuid.UUID
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]uuid.UUID{}}
}

func (f *fakeTokenRepo) StoreResetToken(_ context.Context, userID uuid.UUID, token string, _ time.Time) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeTokenRepo) ValidateResetToken(_ context.Context, token string) (uuid.UUID, error) {
	id, ok := f.tokens[token]
	if !ok {
		return uuid.Nil, repository.ErrNotFound
	}
	return id, nil
}

func (f *fakeTokenRepo) InvalidateResetToken(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

type fakeEmailService struct {
	resetTokens []string
	welcomes    []string
	custom      []string
}

func (f *fakeEmailService) SendPasswordReset(_ context.Context, _ string, token string) error {
	f.resetTokens = append(f.resetTokens, token)
	return nil
}

func (f *fakeEmailService) SendWelcome(_ context.Context, email string, _ string) error {
	f.welcomes = append(f.welcomes, email)
	return nil
}

func (f *fakeEmailService) SendCustom(_ context.Context, to string, _ string, _ string) error {
	f.custom = append(f.custom, to)
	return nil
}

func newTestService() (*Service, *fakeUserRepo, *fakeTokenRepo, *fakeEmailService) {
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	emails := &fakeEmailService{}

	jwtSvc := jwtauth.NewJWTService(jwtauth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
	})
	hasher := security.NewBcryptHasher(4)

	return NewService(users, tokens, jwtSvc, hasher, emails), users, tokens, emails
}

func register(t *testing.T, svc *Service) *model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:     "jane@example.com",
		Password:  "correct-horse",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	return user
}

func TestRegister_DefaultsToClientRole(t *testing.T) {
	svc, _, _, emails := newTestService()

	user := register(t, svc)

	assert.Equal(t, model.RoleClient, user.Role)
	assert.Equal(t, model.UserStatusActive, user.Status)
	assert.Equal(t, "Jane Doe", user.Name)
	assert.Empty(t, user.Password)
	assert.NotEmpty(t, user.PasswordHash)
	assert.Contains(t, emails.welcomes, "jane@example.com")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService()
	register(t, svc)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:     "JANE@example.com",
		Password:  "another-pass",
		FirstName: "Jane",
		LastName:  "Dupe",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_Success(t *testing.T) {
	svc, users, _, _ := newTestService()
	registered := register(t, svc)

	tokens, user, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "jane@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, registered.ID, user.ID)

	stored := users.users[registered.ID]
	assert.NotNil(t, stored.LastLoginAt)
	assert.Zero(t, stored.LoginAttempts)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _, _ := newTestService()
	register(t, svc)

	_, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailIndistinguishable(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-pass",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_LocksAfterRepeatedFailures(t *testing.T) {
	svc, users, _, _ := newTestService()
	registered := register(t, svc)

	for i := 0; i < maxLoginAttempts; i++ {
		_, _, err := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "jane@example.com",
			Password: "wrong-password",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	assert.Equal(t, model.UserStatusLocked, users.users[registered.ID].Status)

	// Even the right password is refused while locked.
	_, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "jane@example.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestLogin_LockExpiresAfterWindow(t *testing.T) {
	svc, users, _, _ := newTestService()
	registered := register(t, svc)

	user := users.users[registered.ID]
	user.Status = model.UserStatusLocked
	user.LoginAttempts = maxLoginAttempts
	user.LastLoginAttempt = time.Now().Add(-lockoutWindow - time.Minute)

	tokens, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "jane@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, model.UserStatusActive, users.users[registered.ID].Status)
}

func TestRefresh_IssuesNewPair(t *testing.T) {
	svc, _, _, _ := newTestService()
	register(t, svc)

	tokens, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "jane@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	fresh, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	svc, _, _, _ := newTestService()
	register(t, svc)

	tokens, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "jane@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	// Access tokens are signed with a different secret.
	_, err = svc.Refresh(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordReset_FullFlow(t *testing.T) {
	svc, _, tokens, emails := newTestService()
	register(t, svc)

	require.NoError(t, svc.ForgotPassword(context.Background(), "jane@example.com"))
	require.Len(t, emails.resetTokens, 1)
	token := emails.resetTokens[0]

	require.NoError(t, svc.ResetPassword(context.Background(), &model.ResetPasswordRequest{
		Token:    token,
		Password: "brand-new-pass",
	}))

	// Token is single use.
	assert.Empty(t, tokens.tokens)

	_, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "jane@example.com",
		Password: "brand-new-pass",
	})
	assert.NoError(t, err)

	_, _, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "jane@example.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestForgotPassword_UnknownEmailSilent(t *testing.T) {
	svc, _, _, emails := newTestService()

	require.NoError(t, svc.ForgotPassword(context.Background(), "nobody@example.com"))
	assert.Empty(t, emails.resetTokens)
}

func TestResetPassword_BadToken(t *testing.T) {
	svc, _, _, _ := newTestService()

	err := svc.ResetPassword(context.Background(), &model.ResetPasswordRequest{
		Token:    "bogus",
		Password: "brand-new-pass",
	})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}
