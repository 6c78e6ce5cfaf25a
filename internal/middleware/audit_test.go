package middleware

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/brightcart/admin-api/internal/models"
	"github.com/brightcart/admin-api/internal/repository"
)

func newAuditFixture(t *testing.T) (*repository.UserRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return repository.NewUserRepository(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func seedClaims(c *gin.Context) {
	c.Set(ContextUserKey, &models.AuthClaims{UserID: "user-1", Username: "owner", Role: models.RoleAdmin})
	c.Next()
}

func TestAuditRecordsOfferMutation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo, mock, cleanup := newAuditFixture(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	r := gin.New()
	r.POST("/offers", seedClaims, Audit(repo, models.AuditActionOfferChange, "offers"), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"id": "offer-1"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/offers", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditSkipsFailedRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo, mock, cleanup := newAuditFixture(t)
	defer cleanup()

	r := gin.New()
	r.PUT("/offers/:id", seedClaims, Audit(repo, models.AuditActionOfferChange, "offers"), func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/offers/offer-1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
