package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/brightcart/admin-api/internal/models"
)

func newApprovalRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestApprovalRepositoryCreateAndFind(t *testing.T) {
	db, mock, cleanup := newApprovalRepoMock(t)
	defer cleanup()

	repo := NewApprovalRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO login_approvals")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	now := time.Now().UTC()
	approval := &models.LoginApproval{
		Token:       "aa11",
		Username:    "owner",
		ClientIP:    "203.0.113.9",
		ClientAgent: "cli/1.0",
		Status:      models.ApprovalPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(10 * time.Minute),
	}
	require.NoError(t, repo.Create(context.Background(), approval))
	require.NotEmpty(t, approval.ID)

	rows := sqlmock.NewRows([]string{"id", "token", "username", "client_ip", "client_agent", "status", "created_at", "expires_at", "approved_at", "approved_by"}).
		AddRow(approval.ID, approval.Token, approval.Username, approval.ClientIP, approval.ClientAgent, approval.Status, approval.CreatedAt, approval.ExpiresAt, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, token, username, client_ip, client_agent, status, created_at, expires_at, approved_at, approved_by FROM login_approvals WHERE token = $1")).
		WithArgs(approval.Token).
		WillReturnRows(rows)

	found, err := repo.FindByToken(context.Background(), approval.Token)
	require.NoError(t, err)
	require.Equal(t, approval.Username, found.Username)
	require.Equal(t, models.ApprovalPending, found.Status)
	require.Nil(t, found.ApprovedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalRepositoryFindByTokenNoRows(t *testing.T) {
	db, mock, cleanup := newApprovalRepoMock(t)
	defer cleanup()

	repo := NewApprovalRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, token, username")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByToken(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalRepositoryResolveGuardsPending(t *testing.T) {
	db, mock, cleanup := newApprovalRepoMock(t)
	defer cleanup()

	repo := NewApprovalRepository(db)
	decidedAt := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE login_approvals SET status = $2, approved_at = $3, approved_by = $4 WHERE token = $1 AND status = $5")).
		WithArgs("aa11", models.ApprovalApproved, decidedAt, "storeowner", models.ApprovalPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	won, err := repo.Resolve(context.Background(), "aa11", models.ApprovalApproved, decidedAt, "storeowner")
	require.NoError(t, err)
	require.True(t, won)

	// A second resolve matches zero rows: the guard lost.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE login_approvals SET status = $2, approved_at = $3, approved_by = $4 WHERE token = $1 AND status = $5")).
		WithArgs("aa11", models.ApprovalRejected, decidedAt, "other", models.ApprovalPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	won, err = repo.Resolve(context.Background(), "aa11", models.ApprovalRejected, decidedAt, "other")
	require.NoError(t, err)
	require.False(t, won)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalRepositoryMarkExpired(t *testing.T) {
	db, mock, cleanup := newApprovalRepoMock(t)
	defer cleanup()

	repo := NewApprovalRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE login_approvals SET status = $2 WHERE token = $1 AND status = $3")).
		WithArgs("aa11", models.ApprovalExpired, models.ApprovalPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	won, err := repo.MarkExpired(context.Background(), "aa11")
	require.NoError(t, err)
	require.True(t, won)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE login_approvals SET status = $2 WHERE token = $1 AND status = $3")).
		WithArgs("aa11", models.ApprovalExpired, models.ApprovalPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	won, err = repo.MarkExpired(context.Background(), "aa11")
	require.NoError(t, err)
	require.False(t, won)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalRepositoryListRecent(t *testing.T) {
	db, mock, cleanup := newApprovalRepoMock(t)
	defer cleanup()

	repo := NewApprovalRepository(db)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "token", "username", "client_ip", "client_agent", "status", "created_at", "expires_at", "approved_at", "approved_by"}).
		AddRow("id-2", "bb22", "owner", "203.0.113.9", "cli/1.0", models.ApprovalApproved, now, now.Add(10*time.Minute), now, "storeowner").
		AddRow("id-1", "aa11", "owner", "203.0.113.9", "cli/1.0", models.ApprovalPending, now.Add(-time.Hour), now.Add(-50*time.Minute), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT 2")).
		WillReturnRows(rows)

	approvals, err := repo.ListRecent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, approvals, 2)
	require.Equal(t, models.ApprovalApproved, approvals[0].Status)

	// Out-of-range limits fall back to the default page size.
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT 50")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "username", "client_ip", "client_agent", "status", "created_at", "expires_at", "approved_at", "approved_by"}))

	_, err = repo.ListRecent(context.Background(), -1)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
