package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/brightcart/admin-api/internal/models"
	appErrors "github.com/brightcart/admin-api/pkg/errors"
)

type userRepoStub struct {
	users     map[string]models.User
	audits    []*models.AuditLog
	lastLogin map[string]time.Time
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: make(map[string]models.User), lastLogin: make(map[string]time.Time)}
}

func (s *userRepoStub) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := u
	return &out, nil
}

func (s *userRepoStub) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	s.lastLogin[id] = ts
	return nil
}

func (s *userRepoStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	s.audits = append(s.audits, log)
	return nil
}

func newAuthFixture(t *testing.T, password string, active bool) (*AuthService, *userRepoStub) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	repo := newUserRepoStub()
	repo.users["user-1"] = models.User{
		ID:           "user-1",
		Username:     "owner",
		PasswordHash: string(hash),
		FullName:     "Store Owner",
		Role:         models.RoleSuperAdmin,
		Active:       active,
	}
	svc := NewAuthService(repo, nil, nil, AuthConfig{
		Secret:     "test_secret",
		Expiration: time.Hour,
		Issuer:     "brightcart-admin",
	})
	return svc, repo
}

func TestAuthLoginSuccess(t *testing.T) {
	svc, repo := newAuthFixture(t, "hunter2", true)

	res, err := svc.Login(context.Background(), models.PasswordLoginRequest{
		Username: "owner",
		Password: "hunter2",
		IP:       "203.0.113.9",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, "owner", res.User.Username)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleSuperAdmin, claims.Role)

	require.Len(t, repo.audits, 1)
	assert.Equal(t, models.AuditActionLogin, repo.audits[0].Action)
	assert.Contains(t, repo.lastLogin, "user-1")
}

func TestAuthLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t, "hunter2", true)

	_, err := svc.Login(context.Background(), models.PasswordLoginRequest{Username: "owner", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthLoginUnknownUser(t *testing.T) {
	svc, _ := newAuthFixture(t, "hunter2", true)

	_, err := svc.Login(context.Background(), models.PasswordLoginRequest{Username: "ghost", Password: "hunter2"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthLoginInactiveAccount(t *testing.T) {
	svc, _ := newAuthFixture(t, "hunter2", false)

	_, err := svc.Login(context.Background(), models.PasswordLoginRequest{Username: "owner", Password: "hunter2"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc, _ := newAuthFixture(t, "hunter2", true)

	res, err := svc.Login(context.Background(), models.PasswordLoginRequest{Username: "owner", Password: "hunter2"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.AccessToken + "x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	other := NewAuthService(newUserRepoStub(), nil, nil, AuthConfig{Secret: "different", Expiration: time.Hour})
	_, err = other.ValidateToken(res.AccessToken)
	require.Error(t, err)
}
