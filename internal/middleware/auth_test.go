package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightcart/admin-api/internal/models"
	"github.com/brightcart/admin-api/internal/service"
	"github.com/brightcart/admin-api/pkg/mailer"
)

type singleApprovalStore struct {
	approval models.LoginApproval
}

func (s singleApprovalStore) Create(ctx context.Context, approval *models.LoginApproval) error {
	return nil
}

func (s singleApprovalStore) FindByToken(ctx context.Context, token string) (*models.LoginApproval, error) {
	if token != s.approval.Token {
		return nil, sql.ErrNoRows
	}
	out := s.approval
	return &out, nil
}

func (s singleApprovalStore) MarkExpired(ctx context.Context, token string) (bool, error) {
	return false, nil
}

func (s singleApprovalStore) Resolve(ctx context.Context, token string, status models.ApprovalStatus, decidedAt time.Time, decidedBy string) (bool, error) {
	return false, nil
}

func (s singleApprovalStore) ListRecent(ctx context.Context, limit int) ([]models.LoginApproval, error) {
	return []models.LoginApproval{s.approval}, nil
}

type noopNotifier struct{}

func (noopNotifier) SendApprovalRequest(mail mailer.ApprovalMail) error { return nil }

func signedToken(t *testing.T, secret string) string {
	t.Helper()
	now := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID:   "user-1",
		Username: "owner",
		FullName: "Store Owner",
		Role:     models.RoleSuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func authFixture(t *testing.T) (*service.AuthService, *service.ApprovalService) {
	t.Helper()
	approvedAt := time.Now().UTC().Add(-time.Hour)
	store := singleApprovalStore{approval: models.LoginApproval{
		Token:      "aa11bb22",
		Username:   "owner",
		Status:     models.ApprovalApproved,
		ApprovedAt: &approvedAt,
	}}
	approvals := service.NewApprovalService(store, noopNotifier{}, nil, nil, service.ApprovalConfig{})
	auth := service.NewAuthService(nil, nil, nil, service.AuthConfig{Secret: "test_secret", Expiration: time.Hour})
	return auth, approvals
}

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth, approvals := authFixture(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c.Request = req

	Auth(auth, approvals)(c)
	return w, c
}

func TestAuthAcceptsApprovalCredential(t *testing.T) {
	w, c := runAuth(t, "Bearer "+models.ApprovalTokenScheme+"aa11bb22")
	require.False(t, c.IsAborted(), "body: %s", w.Body.String())

	claims := c.MustGet(ContextUserKey).(*models.AuthClaims)
	assert.Equal(t, "owner", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, models.CredentialApproval, claims.Source)
}

func TestAuthAcceptsSignedCredential(t *testing.T) {
	w, c := runAuth(t, "Bearer "+signedToken(t, "test_secret"))
	require.False(t, c.IsAborted(), "body: %s", w.Body.String())

	claims := c.MustGet(ContextUserKey).(*models.AuthClaims)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleSuperAdmin, claims.Role)
	assert.Equal(t, models.CredentialSigned, claims.Source)
}

func TestAuthRejectsBadCredentials(t *testing.T) {
	w, _ := runAuth(t, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = runAuth(t, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Unknown approval token.
	w, _ = runAuth(t, "Bearer "+models.ApprovalTokenScheme+"unknown")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Signed token under the wrong key.
	w, _ = runAuth(t, "Bearer "+signedToken(t, "other_secret"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRolesBlocksMismatch(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/protected", nil)
	c.Set(ContextUserKey, &models.AuthClaims{Username: "owner", Role: models.RoleAdmin})

	RequireRoles(models.RoleSuperAdmin)(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/protected", nil)
	c.Set(ContextUserKey, &models.AuthClaims{Username: "owner", Role: models.RoleAdmin})

	RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)(c)
	assert.False(t, c.IsAborted())
}
